package service

import (
	"context"
	"testing"
	"time"

	"eduassist_backend/internal/model"
	"eduassist_backend/internal/quiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViewService(env *testEnv) *ViewService {
	return NewViewService(env.workspaces, env.cat,
		NewInternshipService(env.workspaces, env.cat),
		NewExamService(env.workspaces, env.cat))
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Welcome back, Ada!", Greeting(&model.Identity{DisplayName: "Ada Lovelace"}))
	assert.Equal(t, "Welcome back, User!", Greeting(&model.Identity{DisplayName: "  "}))
	assert.Equal(t, "Welcome back, User!", Greeting(nil))
}

func TestComposeDashboard(t *testing.T) {
	env := newTestEnv(t)
	sess := env.signUp(t)

	view, err := newViewService(env).Compose(context.Background(), sess.SessionID, sess.Identity, "")
	require.NoError(t, err)
	assert.Equal(t, model.PageDashboard, view.Page)

	data, ok := view.Data.(DashboardView)
	require.True(t, ok)
	assert.Equal(t, "Welcome back, Ada!", data.Greeting)
	assert.Len(t, data.QuickAccess, 4)
	assert.Len(t, data.Internships, 3)
}

func TestComposeEveryPage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)
	views := newViewService(env)
	shellSvc := NewShellService(env.auth, env.workspaces)

	for _, page := range model.Pages {
		_, err := shellSvc.Navigate(ctx, sess.SessionID, string(page), "")
		require.NoError(t, err)
		view, err := views.Compose(ctx, sess.SessionID, sess.Identity, "")
		require.NoError(t, err)
		assert.Equal(t, page, view.Page)
		assert.NotNil(t, view.Data, "page %s", page)
	}
}

func TestComposeResourcesWithQuery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)
	_, err := NewShellService(env.auth, env.workspaces).Navigate(ctx, sess.SessionID, "resources", "")
	require.NoError(t, err)

	view, err := newViewService(env).Compose(ctx, sess.SessionID, sess.Identity, "design")
	require.NoError(t, err)
	data := view.Data.(ResourcesView)
	assert.Equal(t, "design", data.Query)
	require.Len(t, data.Resources, 1)
	assert.Equal(t, 3, data.Resources[0].ID)
}

func TestComposeProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)
	_, err := env.workspaces.Update(ctx, sess.SessionID, func(ws *model.Workspace) error {
		ws.Badges = []int{2}
		ws.Points = 6000
		ws.Nav.ActivePage = model.PageProfile
		return nil
	})
	require.NoError(t, err)

	view, err := newViewService(env).Compose(ctx, sess.SessionID, sess.Identity, "")
	require.NoError(t, err)
	profile := view.Data.(ProfileView)
	assert.Equal(t, 5, profile.Level)
	assert.Equal(t, float64(100), profile.Progress, "progress is capped")
	require.Len(t, profile.Badges, 7)
	for _, b := range profile.Badges {
		assert.Equal(t, b.ID == 2, b.Earned, "badge %d", b.ID)
	}
}

func TestAttemptViewHidesAnswerUntilAnswered(t *testing.T) {
	qs := []quiz.Question{
		{Question: "q1", Options: []string{"a", "b"}, CorrectAnswer: 1},
		{Question: "q2", Options: []string{"a", "b"}, CorrectAnswer: 0},
	}
	a := quiz.NewAttempt(1, "Demo", qs)

	v := NewAttemptView(a)
	assert.Equal(t, "q1", v.Question)
	assert.Nil(t, v.CorrectAnswer)
	assert.Nil(t, v.Selected)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, a.Answer(0, now))
	v = NewAttemptView(a)
	require.NotNil(t, v.CorrectAnswer)
	assert.Equal(t, 1, *v.CorrectAnswer)
	assert.Equal(t, 0, *v.Selected)

	a.Settle(now.Add(quiz.AnswerDelay))
	require.NoError(t, a.Answer(0, now.Add(time.Second)))
	a.Settle(now.Add(2 * time.Second))
	v = NewAttemptView(a)
	assert.Equal(t, quiz.StateComplete, v.State)
	assert.Equal(t, 50, v.Score)
	assert.Equal(t, "You answered 1 out of 2 questions correctly.", v.Message)

	empty := NewAttemptView(quiz.NewAttempt(4, "Empty", nil))
	assert.Equal(t, "No questions available for Empty.", empty.Message)
	assert.Nil(t, NewAttemptView(nil))
}

func TestBrowserView(t *testing.T) {
	b := quiz.NewBrowser("GRE", []quiz.ExamQuestion{
		{Question: "q", Options: []string{"a", "b"}, CorrectAnswer: 1, Explanation: "because"},
	})
	v := NewBrowserView(b)
	assert.Nil(t, v.CorrectAnswer)
	assert.Empty(t, v.Explanation)
	assert.False(t, v.HasNext)

	require.NoError(t, b.Reveal())
	v = NewBrowserView(b)
	require.NotNil(t, v.CorrectAnswer)
	assert.Equal(t, 1, *v.CorrectAnswer)
	assert.Equal(t, "because", v.Explanation)

	empty := NewBrowserView(quiz.NewBrowser("UPSC", nil))
	assert.Equal(t, "No questions available for UPSC.", empty.Message)
}
