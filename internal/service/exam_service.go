package service

import (
	"context"
	"eduassist_backend/internal/catalog"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/quiz"
	"eduassist_backend/internal/util"
)

// ExamPrepEntry 考试列表项，没有题目的考试不可进入练习
type ExamPrepEntry struct {
	model.ExamPrep
	Available     bool `json:"available"`
	QuestionCount int  `json:"questionCount"`
}

type ExamService struct {
	Workspaces *WorkspaceService
	Catalog    *catalog.Catalog
}

func NewExamService(workspaces *WorkspaceService, cat *catalog.Catalog) *ExamService {
	return &ExamService{Workspaces: workspaces, Catalog: cat}
}

func (s *ExamService) List() []ExamPrepEntry {
	out := make([]ExamPrepEntry, 0, len(s.Catalog.ExamPrep))
	for _, prep := range s.Catalog.ExamPrep {
		n := len(s.Catalog.ExamQuestionsFor(prep.Name))
		out = append(out, ExamPrepEntry{ExamPrep: prep, Available: n > 0, QuestionCount: n})
	}
	return out
}

// Open 选择考试。已知但没有题目的考试得到空的浏览器
func (s *ExamService) Open(ctx context.Context, sessionID, name string) (*quiz.Browser, error) {
	prep := s.Catalog.ExamPrepByName(name)
	if prep == nil {
		return nil, util.ErrExamNotFound
	}
	questions := s.Catalog.ExamQuestionsFor(prep.Name)
	return s.update(ctx, sessionID, func(ws *model.Workspace) error {
		ws.Exam = quiz.NewBrowser(prep.Name, questions)
		return nil
	})
}

func (s *ExamService) Next(ctx context.Context, sessionID string) (*quiz.Browser, error) {
	return s.withBrowser(ctx, sessionID, func(b *quiz.Browser) error {
		b.Next()
		return nil
	})
}

func (s *ExamService) Prev(ctx context.Context, sessionID string) (*quiz.Browser, error) {
	return s.withBrowser(ctx, sessionID, func(b *quiz.Browser) error {
		b.Prev()
		return nil
	})
}

func (s *ExamService) Reveal(ctx context.Context, sessionID string) (*quiz.Browser, error) {
	return s.withBrowser(ctx, sessionID, func(b *quiz.Browser) error {
		return b.Reveal()
	})
}

// Close 返回考试列表
func (s *ExamService) Close(ctx context.Context, sessionID string) error {
	_, err := s.update(ctx, sessionID, func(ws *model.Workspace) error {
		ws.Exam = nil
		return nil
	})
	return err
}

func (s *ExamService) Current(ctx context.Context, sessionID string) (*quiz.Browser, error) {
	ws, err := s.Workspaces.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if ws.Exam == nil {
		return nil, util.ErrNoActiveExam
	}
	return ws.Exam, nil
}

func (s *ExamService) withBrowser(ctx context.Context, sessionID string, fn func(b *quiz.Browser) error) (*quiz.Browser, error) {
	return s.update(ctx, sessionID, func(ws *model.Workspace) error {
		if ws.Exam == nil {
			return util.ErrNoActiveExam
		}
		return fn(ws.Exam)
	})
}

func (s *ExamService) update(ctx context.Context, sessionID string, fn func(ws *model.Workspace) error) (*quiz.Browser, error) {
	ws, err := s.Workspaces.Update(ctx, sessionID, fn)
	if err != nil {
		return nil, err
	}
	return ws.Exam, nil
}
