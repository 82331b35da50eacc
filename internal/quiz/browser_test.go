package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func examQuestions() []ExamQuestion {
	return []ExamQuestion{
		{Question: "A", Options: []string{"1", "2"}, CorrectAnswer: 0, Explanation: "first"},
		{Question: "B", Options: []string{"1", "2"}, CorrectAnswer: 1, Explanation: "second"},
	}
}

func TestBrowserNavigation(t *testing.T) {
	b := NewBrowser("JAMB", examQuestions())
	assert.False(t, b.HasPrev())
	assert.True(t, b.HasNext())
	assert.False(t, b.Prev())

	assert.NoError(t, b.Reveal())
	assert.True(t, b.ShowAnswer)

	assert.True(t, b.Next())
	assert.Equal(t, "B", b.Current().Question)
	assert.False(t, b.ShowAnswer, "moving hides the answer")
	assert.False(t, b.Next())
	assert.Equal(t, 1, b.Cursor)

	assert.True(t, b.Prev())
	assert.Equal(t, "A", b.Current().Question)
}

func TestBrowserEmpty(t *testing.T) {
	b := NewBrowser("WAEC", nil)
	assert.True(t, b.Empty())
	assert.Nil(t, b.Current())
	assert.False(t, b.Next())
	assert.False(t, b.Prev())
	assert.ErrorIs(t, b.Reveal(), ErrNoQuestions)
}
