package service

import (
	"context"
	"testing"

	"eduassist_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func badgeIDs(result *SubmissionResult) []int {
	ids := make([]int, 0, len(result.Unlocked))
	for _, b := range result.Unlocked {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestInternshipApplyIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)
	internships := NewInternshipService(env.workspaces, env.cat)

	entry, err := internships.Apply(ctx, sess.SessionID, 1)
	require.NoError(t, err)
	assert.True(t, entry.Applied)
	assert.False(t, entry.Completed)

	_, err = internships.Apply(ctx, sess.SessionID, 1)
	require.NoError(t, err)
	assert.Len(t, env.workspace(t, sess.SessionID).Applied, 1)

	_, err = internships.Apply(ctx, sess.SessionID, 99)
	assert.ErrorIs(t, err, util.ErrInternshipNotFound)
}

func TestInternshipSubmitRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)
	internships := NewInternshipService(env.workspaces, env.cat)

	_, err := internships.Submit(ctx, sess.SessionID, 1, "https://github.com/ada/app", "")
	assert.ErrorIs(t, err, util.ErrNotApplied)

	_, err = internships.Apply(ctx, sess.SessionID, 1)
	require.NoError(t, err)

	_, err = internships.Submit(ctx, sess.SessionID, 1, "   ", "")
	assert.ErrorIs(t, err, util.ErrSubmissionLink)

	result, err := internships.Submit(ctx, sess.SessionID, 1, "https://github.com/ada/app", "notes")
	require.NoError(t, err)
	assert.True(t, result.Internship.Completed)
	assert.Equal(t, env.cat.Profile.StartingPoints+500, result.Points)
	assert.Equal(t, []int{FirstProjectBadgeID, 5}, badgeIDs(result))

	_, err = internships.Submit(ctx, sess.SessionID, 1, "https://github.com/ada/app", "")
	assert.ErrorIs(t, err, util.ErrAlreadyCompleted)
	assert.Equal(t, env.cat.Profile.StartingPoints+500, env.workspace(t, sess.SessionID).Points, "points are awarded once")
}

func TestSecondInternshipOnlyUnlocksOwnBadge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signUp(t)
	internships := NewInternshipService(env.workspaces, env.cat)

	for _, id := range []int{1, 2} {
		_, err := internships.Apply(ctx, sess.SessionID, id)
		require.NoError(t, err)
	}
	_, err := internships.Submit(ctx, sess.SessionID, 1, "https://a", "")
	require.NoError(t, err)

	result, err := internships.Submit(ctx, sess.SessionID, 2, "https://b", "")
	require.NoError(t, err)
	assert.Equal(t, []int{6}, badgeIDs(result))
	assert.Equal(t, env.cat.Profile.StartingPoints+900, result.Points)

	entries := internships.Entries(env.workspace(t, sess.SessionID))
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Completed)
	assert.True(t, entries[1].Completed)
	assert.False(t, entries[2].Applied)
}
