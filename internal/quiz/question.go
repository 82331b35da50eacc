// Package quiz implements the scored quiz attempt and the exam browsing
// state machines. Both are plain serializable values; callers pass the
// current time in so the answer display delay needs no timers.
package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrNoQuestions      = errors.New("no questions available")
	ErrAttemptComplete  = errors.New("attempt already complete")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrOptionOutOfRange = errors.New("option index out of range")
)

type Question struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer int      `json:"correctAnswer" yaml:"correctAnswer"`
}

// Validate checks that the correct answer points at an existing option.
func (q Question) Validate() error {
	if len(q.Options) == 0 {
		return fmt.Errorf("question %q has no options", q.Question)
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("question %q: correct answer %d outside %d options", q.Question, q.CorrectAnswer, len(q.Options))
	}
	return nil
}

// ExamQuestion is a practice question with an explanation shown on reveal.
type ExamQuestion struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer int      `json:"correctAnswer" yaml:"correctAnswer"`
	Explanation   string   `json:"explanation" yaml:"explanation"`
}

func (q ExamQuestion) Validate() error {
	return Question{Question: q.Question, Options: q.Options, CorrectAnswer: q.CorrectAnswer}.Validate()
}
