package service

import (
	"context"
	"testing"

	"eduassist_backend/internal/model"
	"eduassist_backend/internal/shell"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewShellService(env.auth, env.workspaces)

	gate, claims := svc.ResolveGate(ctx, "")
	assert.Equal(t, shell.GateSignedOut, gate.State())
	assert.Nil(t, claims)

	gate, _ = svc.ResolveGate(ctx, "not-a-jwt")
	assert.Equal(t, shell.ViewAuth, gate.View())

	sess := env.signUp(t)
	gate, claims = svc.ResolveGate(ctx, sess.Token)
	assert.Equal(t, shell.ViewShell, gate.View())
	require.NotNil(t, claims)
	assert.Equal(t, sess.SessionID, claims.SessionID)
	assert.Equal(t, "Ada Lovelace", gate.Identity().DisplayName)

	require.NoError(t, env.auth.SignOut(ctx, sess.SessionID))
	gate, _ = svc.ResolveGate(ctx, sess.Token)
	assert.Equal(t, shell.GateSignedOut, gate.State(), "token outlives the session")
}

func TestResolveGateStaysLoadingOnStoreError(t *testing.T) {
	env := newTestEnv(t)
	sess := env.signUp(t)
	env.workspaces.Store = failingStore{env.store}
	svc := NewShellService(env.auth, env.workspaces)

	gate, claims := svc.ResolveGate(context.Background(), sess.Token)
	assert.Equal(t, shell.GateUnknown, gate.State())
	assert.Equal(t, shell.ViewLoading, gate.View())
	assert.Nil(t, claims)
}

func TestNavigate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)
	svc := NewShellService(env.auth, env.workspaces)

	nav, err := svc.Navigate(ctx, sess.SessionID, "career", "")
	require.NoError(t, err)
	assert.Equal(t, model.PageCareer, nav.ActivePage)
	assert.Equal(t, uint64(1), nav.Epoch)

	nav, err = svc.Navigate(ctx, sess.SessionID, "career", "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nav.Epoch, "reselecting does not bump the epoch")

	nav, err = svc.Navigate(ctx, sess.SessionID, "no-such-page", "")
	require.NoError(t, err)
	assert.Equal(t, model.PageDashboard, nav.ActivePage)
}

func TestNavigateKeepsQuizAndExamState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)
	svc := NewShellService(env.auth, env.workspaces)
	quizzes := NewQuizService(env.workspaces, env.cat)
	exams := NewExamService(env.workspaces, env.cat)

	_, err := quizzes.Start(ctx, sess.SessionID, 1)
	require.NoError(t, err)
	_, err = quizzes.Answer(ctx, sess.SessionID, 0)
	require.NoError(t, err)
	_, err = exams.Open(ctx, sess.SessionID, "gre")
	require.NoError(t, err)
	_, err = exams.Next(ctx, sess.SessionID)
	require.NoError(t, err)

	before := env.workspace(t, sess.SessionID)
	for _, page := range []string{"quizzes", "quizzes", "exams"} {
		_, err := svc.Navigate(ctx, sess.SessionID, page, "")
		require.NoError(t, err)
	}

	after := env.workspace(t, sess.SessionID)
	require.NotNil(t, after.Quiz)
	require.NotNil(t, after.Exam)
	assert.Equal(t, before.Quiz.Answers, after.Quiz.Answers)
	assert.Equal(t, before.Quiz.Cursor, after.Quiz.Cursor)
	assert.Equal(t, 1, after.Exam.Cursor)
	assert.Equal(t, model.PageExams, after.Nav.ActivePage)
}

func TestSidebarOnMobile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)
	svc := NewShellService(env.auth, env.workspaces)

	nav, err := svc.SetSidebar(ctx, sess.SessionID, true, model.LayoutMobile)
	require.NoError(t, err)
	assert.True(t, nav.SidebarOpen)

	nav, err = svc.Navigate(ctx, sess.SessionID, "resources", "")
	require.NoError(t, err)
	assert.False(t, nav.SidebarOpen, "selecting a page closes the mobile sidebar")

	_, err = svc.SetSidebar(ctx, sess.SessionID, true, "")
	require.NoError(t, err)
	nav, err = svc.Navigate(ctx, sess.SessionID, "resources", model.LayoutDesktop)
	require.NoError(t, err)
	assert.False(t, nav.SidebarOpen)
	assert.Equal(t, model.LayoutDesktop, nav.Layout)
}

func TestResolveDarkMode(t *testing.T) {
	assert.True(t, ResolveDarkMode("true", true, "light"))
	assert.False(t, ResolveDarkMode("false", true, "dark"))
	assert.True(t, ResolveDarkMode("", false, `"dark"`))
	assert.False(t, ResolveDarkMode("", false, ""))
	assert.True(t, ResolveDarkMode("garbage", true, "dark"), "unparseable cookie falls back to the hint")
}
