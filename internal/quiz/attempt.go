package quiz

import "time"

const (
	// AnswerDelay keeps the chosen option highlighted before the cursor moves.
	AnswerDelay = 500 * time.Millisecond
	// ResultLinger is how long a finished attempt stays on screen.
	ResultLinger = 3 * time.Second
)

type State string

const (
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
)

// Attempt is one traversal of a quiz. Answers is sparse until a question
// is answered; Cursor only moves forward.
type Attempt struct {
	QuizID     int         `json:"quizId"`
	Title      string      `json:"title"`
	Questions  []Question  `json:"questions"`
	Cursor     int         `json:"cursor"`
	Answers    map[int]int `json:"answers"`
	AnsweredAt *time.Time  `json:"answeredAt,omitempty"`
	Complete   bool        `json:"complete"`
	Correct    int         `json:"correct"`
	Score      float64     `json:"score"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
}

func NewAttempt(quizID int, title string, questions []Question) *Attempt {
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &Attempt{
		QuizID:    quizID,
		Title:     title,
		Questions: qs,
		Answers:   make(map[int]int),
	}
}

func (a *Attempt) Empty() bool { return len(a.Questions) == 0 }

func (a *Attempt) State() State {
	if a.Complete {
		return StateComplete
	}
	return StateInProgress
}

// Current returns the question under the cursor, or nil once complete.
func (a *Attempt) Current() *Question {
	if a.Complete || a.Cursor >= len(a.Questions) {
		return nil
	}
	return &a.Questions[a.Cursor]
}

// Selected reports the option chosen for the current question.
func (a *Attempt) Selected() (int, bool) {
	opt, ok := a.Answers[a.Cursor]
	return opt, ok
}

func (a *Attempt) IsLast() bool { return a.Cursor == len(a.Questions)-1 }

// Answer records option for the current question. The cursor moves on
// the first Settle at least AnswerDelay later.
func (a *Attempt) Answer(option int, now time.Time) error {
	if a.Empty() {
		return ErrNoQuestions
	}
	a.Settle(now)
	if a.Complete {
		return ErrAttemptComplete
	}
	if _, answered := a.Answers[a.Cursor]; answered {
		return ErrAlreadyAnswered
	}
	if option < 0 || option >= len(a.Questions[a.Cursor].Options) {
		return ErrOptionOutOfRange
	}
	if a.Answers == nil {
		a.Answers = make(map[int]int)
	}
	a.Answers[a.Cursor] = option
	at := now
	a.AnsweredAt = &at
	return nil
}

// Settle applies a pending advance whose display delay has elapsed and
// reports whether the state changed.
func (a *Attempt) Settle(now time.Time) bool {
	if a.AnsweredAt == nil || a.Complete {
		return false
	}
	due := a.AnsweredAt.Add(AnswerDelay)
	if now.Before(due) {
		return false
	}
	a.AnsweredAt = nil
	if a.IsLast() {
		a.finish(due)
		return true
	}
	a.Cursor++
	return true
}

func (a *Attempt) finish(at time.Time) {
	correct := 0
	for i, q := range a.Questions {
		if opt, ok := a.Answers[i]; ok && opt == q.CorrectAnswer {
			correct++
		}
	}
	a.Correct = correct
	a.Score = Score(correct, len(a.Questions))
	a.Complete = true
	a.FinishedAt = &at
}

// Expired reports whether a finished attempt has been shown long enough.
func (a *Attempt) Expired(now time.Time) bool {
	if !a.Complete || a.FinishedAt == nil {
		return false
	}
	return !now.Before(a.FinishedAt.Add(ResultLinger))
}

// Score is the percentage of correct answers; zero questions score zero.
func Score(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(100*correct) / float64(total)
}
