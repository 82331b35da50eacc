package service

import (
	"context"
	"errors"
	"testing"

	"eduassist_backend/internal/model"
	"eduassist_backend/internal/quiz"
	"eduassist_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkspaceDefaults(t *testing.T) {
	env := newTestEnv(t)
	sess := env.signUp(t)
	ws := env.workspace(t, sess.SessionID)

	assert.Equal(t, env.cat.Profile.StartingPoints, ws.Points)
	assert.Equal(t, model.PageDashboard, ws.Nav.ActivePage)
	assert.Equal(t, model.LayoutDesktop, ws.Nav.Layout)
	assert.False(t, ws.Nav.SidebarOpen)
	assert.Len(t, ws.Resources, len(env.cat.Resources))
	assert.Len(t, ws.Performance, len(env.cat.Performance))
	assert.Empty(t, ws.Badges)
	assert.Empty(t, ws.Applied)
	assert.Nil(t, ws.Quiz)
}

func TestSignOutDestroysWorkspace(t *testing.T) {
	env := newTestEnv(t)
	sess := env.signUp(t)

	require.NoError(t, env.auth.SignOut(context.Background(), sess.SessionID))
	_, err := env.workspaces.Get(context.Background(), sess.SessionID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestUpdateDiscardsChangesOnError(t *testing.T) {
	env := newTestEnv(t)
	sess := env.signUp(t)
	boom := errors.New("boom")

	_, err := env.workspaces.Update(context.Background(), sess.SessionID, func(ws *model.Workspace) error {
		ws.Points = 1
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, env.cat.Profile.StartingPoints, env.workspace(t, sess.SessionID).Points)
}

func TestUpdateUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.workspaces.Update(context.Background(), "missing", func(ws *model.Workspace) error { return nil })
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestCompletedQuizMergesScoreAndClears(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)
	quizzes := NewQuizService(env.workspaces, env.cat)

	_, err := quizzes.Start(ctx, sess.SessionID, 2)
	require.NoError(t, err)

	// 前五题答对，后五题答错
	history := env.cat.Quiz(2)
	for i, q := range history.Questions {
		opt := q.CorrectAnswer
		if i >= 5 {
			opt = (q.CorrectAnswer + 1) % len(q.Options)
		}
		_, err := quizzes.Answer(ctx, sess.SessionID, opt)
		require.NoError(t, err, "question %d", i)
		env.clock.Advance(quiz.AnswerDelay)
	}

	attempt, err := quizzes.Current(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.True(t, attempt.Complete)
	assert.Equal(t, 5, attempt.Correct)

	perf, err := quizzes.Performance(ctx, sess.SessionID)
	require.NoError(t, err)
	scores := map[string]int{}
	for _, p := range perf {
		scores[p.Name] = p.Score
	}
	assert.Equal(t, 50, scores["History"])
	assert.Equal(t, 80, scores["JS"], "other subjects keep their scores")
	assert.Len(t, perf, len(env.cat.Performance))

	env.clock.Advance(quiz.ResultLinger)
	_, err = quizzes.Current(ctx, sess.SessionID)
	assert.ErrorIs(t, err, util.ErrNoActiveQuiz)
}

func TestUnknownChartLabelIsAppended(t *testing.T) {
	env := newTestEnv(t)
	ws := &model.Workspace{
		Quiz: &quiz.Attempt{QuizID: 99, Title: "Geography", Score: 33.4},
	}
	env.workspaces.recordScore(ws)
	require.Len(t, ws.Performance, 1)
	assert.Equal(t, model.PerformancePoint{Name: "Geography", Score: 33}, ws.Performance[0])
}

type recordingProvider struct {
	calls int
	err   error
}

func (p *recordingProvider) SignOut(ctx context.Context, sessionID string) error {
	p.calls++
	return p.err
}

func TestLogoutResetsNavigation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)
	shellSvc := NewShellService(env.auth, env.workspaces)
	_, err := shellSvc.Navigate(ctx, sess.SessionID, string(model.PageCareer), "")
	require.NoError(t, err)

	provider := &recordingProvider{err: errors.New("provider down")}
	nav := env.workspaces.Logout(ctx, provider, sess.SessionID)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, model.PageDashboard, nav.ActivePage)
	_, err = env.workspaces.Get(ctx, sess.SessionID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound, "workspace removed even when the provider fails")
}

func lockCount(s *WorkspaceService) int {
	n := 0
	s.locks.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

func TestExpiredWorkspaceReleasesLock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)

	env.workspace(t, sess.SessionID)
	assert.Equal(t, 1, lockCount(env.workspaces))

	// 工作区被存储按 TTL 清除，会话锁随之释放
	require.NoError(t, env.store.Delete(ctx, sess.SessionID))
	_, err := env.workspaces.Get(ctx, sess.SessionID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
	assert.Equal(t, 0, lockCount(env.workspaces))
}

func TestStoreFailureIsUnavailable(t *testing.T) {
	env := newTestEnv(t)
	sess := env.signUp(t)
	env.workspaces.Store = failingStore{env.store}

	_, err := env.workspaces.Update(context.Background(), sess.SessionID, func(ws *model.Workspace) error { return nil })
	assert.ErrorIs(t, err, util.ErrStoreUnavailable)
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, util.ErrSessionNotFound)
}
