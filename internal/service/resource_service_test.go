package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eduassist_backend/internal/config"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResourceService(t *testing.T, env *testEnv) (*ResourceService, string) {
	t.Helper()
	root := t.TempDir()
	storage := NewStorageService(&config.StorageConfig{Type: util.StorageLocal, LocalPath: root})
	svc := NewResourceService(env.workspaces, storage)
	svc.ThumbnailsEnabled = false
	svc.TempDir = t.TempDir()
	return svc, root
}

func TestFilterResources(t *testing.T) {
	env := newTestEnv(t)
	all := env.cat.Resources

	assert.Len(t, FilterResources(all, ""), 4)
	assert.Len(t, FilterResources(all, "  "), 4)

	byTitle := FilterResources(all, "react")
	require.Len(t, byTitle, 1)
	assert.Equal(t, 1, byTitle[0].ID)

	byUploader := FilterResources(all, "JOHN")
	require.Len(t, byUploader, 2, "John Smith and Alice Johnson")

	byDescription := FilterResources(all, "csv file")
	require.Len(t, byDescription, 1)
	assert.Equal(t, model.ResourceFile, byDescription[0].Type)

	assert.Empty(t, FilterResources(all, "quantum"))
}

func TestUploadValidation(t *testing.T) {
	env := newTestEnv(t)
	sess := env.signUp(t)
	svc, _ := newResourceService(t, env)
	ctx := context.Background()

	_, err := svc.Upload(ctx, sess.SessionID, "Ada", UploadInput{Title: "Notes", Description: "d"})
	assert.ErrorIs(t, err, util.ErrResourceIncomplete)

	_, err = svc.Upload(ctx, sess.SessionID, "Ada", UploadInput{Description: "d", File: strings.NewReader("x")})
	assert.ErrorIs(t, err, util.ErrResourceIncomplete)

	_, err = svc.Upload(ctx, sess.SessionID, "Ada", UploadInput{Title: "t", Description: "d", Type: "Audio", File: strings.NewReader("x")})
	assert.ErrorIs(t, err, util.ErrUnknownResourceType)
}

func TestUploadPrependsAndUnlocksBadge(t *testing.T) {
	env := newTestEnv(t)
	sess := env.signUp(t)
	svc, root := newResourceService(t, env)
	ctx := context.Background()

	result, err := svc.Upload(ctx, sess.SessionID, "Ada Lovelace", UploadInput{
		Title:       "Lecture Notes",
		Description: "Week one notes",
		Type:        model.ResourcePDF,
		FileName:    "Notes.PDF",
		ContentType: util.MimePDF,
		File:        strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)

	r := result.Resource
	assert.Equal(t, 5, r.ID)
	assert.Equal(t, "Ada Lovelace", r.Uploader)
	assert.Equal(t, "https://picsum.photos/seed/new5/300/200", r.Thumbnail)
	assert.True(t, strings.HasPrefix(r.URL, "/uploads/resources/"))
	assert.True(t, strings.HasSuffix(r.URL, ".pdf"))
	require.NotNil(t, result.Unlocked)
	assert.Equal(t, FirstContributionBadgeID, result.Unlocked.ID)

	data, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(r.URL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	list, err := svc.List(ctx, sess.SessionID, "")
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, r.ID, list[0].ID)

	second, err := svc.Upload(ctx, sess.SessionID, "", UploadInput{
		Title:       "Dataset",
		Description: "Raw numbers",
		FileName:    "data.csv",
		File:        strings.NewReader("a,b"),
	})
	require.NoError(t, err)
	assert.Nil(t, second.Unlocked, "badge is only unlocked once")
	assert.Equal(t, 6, second.Resource.ID)
	assert.Equal(t, "Anonymous", second.Resource.Uploader)
	assert.Equal(t, model.ResourceFile, second.Resource.Type)
}

func TestUploadRemovesFileWhenSessionIsGone(t *testing.T) {
	env := newTestEnv(t)
	svc, root := newResourceService(t, env)

	_, err := svc.Upload(context.Background(), "missing", "Ada", UploadInput{
		Title:       "t",
		Description: "d",
		FileName:    "a.txt",
		File:        strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	entries, err := os.ReadDir(filepath.Join(root, "resources"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResourceDetail(t *testing.T) {
	env := newTestEnv(t)
	sess := env.signUp(t)
	svc, _ := newResourceService(t, env)
	ctx := context.Background()

	video, err := svc.Get(ctx, sess.SessionID, 2)
	require.NoError(t, err)
	assert.True(t, video.Viewable)

	pdf, err := svc.Get(ctx, sess.SessionID, 1)
	require.NoError(t, err)
	assert.False(t, pdf.Viewable)

	_, err = svc.Get(ctx, sess.SessionID, 99)
	assert.ErrorIs(t, err, util.ErrResourceNotFound)
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	p := &LocalStorageProvider{Root: t.TempDir()}
	_, err := p.Upload(context.Background(), "../outside.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
}
