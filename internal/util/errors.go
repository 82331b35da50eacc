package util

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrNoActiveQuiz        = errors.New("no quiz in progress")
	ErrNoActiveExam        = errors.New("no exam selected")
	ErrExamNotFound        = errors.New("exam not found")
	ErrInternshipNotFound  = errors.New("internship not found")
	ErrNotApplied          = errors.New("apply to the project before submitting")
	ErrAlreadyCompleted    = errors.New("project already submitted")
	ErrSubmissionLink      = errors.New("please provide a submission link")
	ErrResourceIncomplete  = errors.New("please fill all fields and select a file")
	ErrUnknownResourceType = errors.New("unknown resource type")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrEmptyPrompt         = errors.New("prompt must not be empty")
	ErrStoreUnavailable    = errors.New("session store unavailable")
)
