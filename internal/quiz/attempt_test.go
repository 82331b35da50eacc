package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func sampleQuestions() []Question {
	return []Question{
		{Question: "2+2?", Options: []string{"3", "4", "5"}, CorrectAnswer: 1},
		{Question: "Capital of France?", Options: []string{"Paris", "Rome"}, CorrectAnswer: 0},
		{Question: "Go keyword for goroutine?", Options: []string{"go", "async", "spawn"}, CorrectAnswer: 0},
	}
}

func TestAttemptAdvancesAfterDelay(t *testing.T) {
	a := NewAttempt(1, "Math", sampleQuestions())
	require.NoError(t, a.Answer(1, t0))

	opt, ok := a.Selected()
	assert.True(t, ok)
	assert.Equal(t, 1, opt)

	assert.False(t, a.Settle(t0.Add(AnswerDelay-time.Millisecond)))
	assert.Equal(t, 0, a.Cursor)

	assert.True(t, a.Settle(t0.Add(AnswerDelay)))
	assert.Equal(t, 1, a.Cursor)
	assert.Nil(t, a.AnsweredAt)
}

func TestAttemptRejectsSecondAnswerBeforeAdvance(t *testing.T) {
	a := NewAttempt(1, "Math", sampleQuestions())
	require.NoError(t, a.Answer(0, t0))
	assert.ErrorIs(t, a.Answer(1, t0.Add(100*time.Millisecond)), ErrAlreadyAnswered)
	assert.Equal(t, 0, a.Answers[0])
}

func TestAttemptAnswerSettlesPendingAdvance(t *testing.T) {
	a := NewAttempt(1, "Math", sampleQuestions())
	require.NoError(t, a.Answer(1, t0))
	// 延迟过后直接作答下一题
	require.NoError(t, a.Answer(0, t0.Add(time.Second)))
	assert.Equal(t, 1, a.Cursor)
	assert.Equal(t, 0, a.Answers[1])
}

func TestAttemptOptionOutOfRange(t *testing.T) {
	a := NewAttempt(1, "Math", sampleQuestions())
	assert.ErrorIs(t, a.Answer(3, t0), ErrOptionOutOfRange)
	assert.ErrorIs(t, a.Answer(-1, t0), ErrOptionOutOfRange)
	assert.Empty(t, a.Answers)
}

func TestAttemptCompletesWithScore(t *testing.T) {
	a := NewAttempt(1, "Math", sampleQuestions())
	now := t0
	for _, opt := range []int{1, 1, 0} {
		require.NoError(t, a.Answer(opt, now))
		now = now.Add(AnswerDelay)
		a.Settle(now)
	}

	assert.Equal(t, StateComplete, a.State())
	assert.Nil(t, a.Current())
	assert.Equal(t, 2, a.Correct)
	assert.InDelta(t, 66.666, a.Score, 0.01)
	require.NotNil(t, a.FinishedAt)
	assert.Equal(t, now, *a.FinishedAt)

	assert.ErrorIs(t, a.Answer(0, now), ErrAttemptComplete)
}

func TestAttemptExpiresAfterLinger(t *testing.T) {
	a := NewAttempt(2, "Short", sampleQuestions()[:1])
	require.NoError(t, a.Answer(1, t0))
	done := t0.Add(AnswerDelay)
	require.True(t, a.Settle(done))

	assert.False(t, a.Expired(done.Add(ResultLinger-time.Millisecond)))
	assert.True(t, a.Expired(done.Add(ResultLinger)))
}

func TestAttemptFinishUsesDueTime(t *testing.T) {
	a := NewAttempt(2, "Short", sampleQuestions()[:1])
	require.NoError(t, a.Answer(1, t0))
	// 迟到的 Settle 以到期时间作为完成时间
	require.True(t, a.Settle(t0.Add(time.Minute)))
	assert.Equal(t, t0.Add(AnswerDelay), *a.FinishedAt)
	assert.Equal(t, float64(100), a.Score)
}

func TestEmptyAttempt(t *testing.T) {
	a := NewAttempt(9, "Empty", nil)
	assert.True(t, a.Empty())
	assert.Nil(t, a.Current())
	assert.ErrorIs(t, a.Answer(0, t0), ErrNoQuestions)
	assert.False(t, a.Settle(t0))
	assert.False(t, a.Expired(t0))
}

func TestNewAttemptCopiesQuestions(t *testing.T) {
	qs := sampleQuestions()
	a := NewAttempt(1, "Math", qs)
	qs[0].Question = "changed"
	assert.Equal(t, "2+2?", a.Questions[0].Question)
}

func TestScore(t *testing.T) {
	assert.Equal(t, float64(0), Score(0, 0))
	assert.Equal(t, float64(50), Score(1, 2))
	assert.Equal(t, float64(100), Score(4, 4))
}

func TestQuestionValidate(t *testing.T) {
	assert.NoError(t, Question{Question: "q", Options: []string{"a"}, CorrectAnswer: 0}.Validate())
	assert.Error(t, Question{Question: "q"}.Validate())
	assert.Error(t, Question{Question: "q", Options: []string{"a"}, CorrectAnswer: 1}.Validate())
	assert.Error(t, ExamQuestion{Question: "q", Options: []string{"a", "b"}, CorrectAnswer: -1}.Validate())
}
