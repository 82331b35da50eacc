package quiz

// Browser walks exam practice questions in both directions without
// recording answers.
type Browser struct {
	Exam       string         `json:"exam"`
	Questions  []ExamQuestion `json:"questions"`
	Cursor     int            `json:"cursor"`
	ShowAnswer bool           `json:"showAnswer"`
}

func NewBrowser(exam string, questions []ExamQuestion) *Browser {
	qs := make([]ExamQuestion, len(questions))
	copy(qs, questions)
	return &Browser{Exam: exam, Questions: qs}
}

func (b *Browser) Empty() bool { return len(b.Questions) == 0 }

func (b *Browser) Current() *ExamQuestion {
	if b.Cursor < 0 || b.Cursor >= len(b.Questions) {
		return nil
	}
	return &b.Questions[b.Cursor]
}

func (b *Browser) HasPrev() bool { return b.Cursor > 0 }

func (b *Browser) HasNext() bool { return b.Cursor < len(b.Questions)-1 }

func (b *Browser) Next() bool {
	if !b.HasNext() {
		return false
	}
	b.Cursor++
	b.ShowAnswer = false
	return true
}

func (b *Browser) Prev() bool {
	if !b.HasPrev() {
		return false
	}
	b.Cursor--
	b.ShowAnswer = false
	return true
}

// Reveal shows the correct option and explanation for the current question.
func (b *Browser) Reveal() error {
	if b.Empty() {
		return ErrNoQuestions
	}
	b.ShowAnswer = true
	return nil
}
