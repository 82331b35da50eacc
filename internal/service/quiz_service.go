package service

import (
	"context"
	"eduassist_backend/internal/catalog"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/quiz"
	"eduassist_backend/internal/util"
)

type QuizService struct {
	Workspaces *WorkspaceService
	Catalog    *catalog.Catalog
}

func NewQuizService(workspaces *WorkspaceService, cat *catalog.Catalog) *QuizService {
	return &QuizService{Workspaces: workspaces, Catalog: cat}
}

func (s *QuizService) List() []model.QuizSummary {
	return s.Catalog.QuizSummaries()
}

// Start 选择测验并开始新的作答，替换当前未完成的作答
func (s *QuizService) Start(ctx context.Context, sessionID string, quizID int) (*quiz.Attempt, error) {
	q := s.Catalog.Quiz(quizID)
	if q == nil {
		return nil, util.ErrQuizNotFound
	}
	ws, err := s.Workspaces.Update(ctx, sessionID, func(ws *model.Workspace) error {
		ws.Quiz = quiz.NewAttempt(q.ID, q.Title, q.Questions)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ws.Quiz, nil
}

func (s *QuizService) Answer(ctx context.Context, sessionID string, option int) (*quiz.Attempt, error) {
	ws, err := s.Workspaces.Update(ctx, sessionID, func(ws *model.Workspace) error {
		if ws.Quiz == nil {
			return util.ErrNoActiveQuiz
		}
		return ws.Quiz.Answer(option, s.Workspaces.now())
	})
	if err != nil {
		return nil, err
	}
	return ws.Quiz, nil
}

// Current 返回当前作答；结果停留期结束后视为没有作答
func (s *QuizService) Current(ctx context.Context, sessionID string) (*quiz.Attempt, error) {
	ws, err := s.Workspaces.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if ws.Quiz == nil {
		return nil, util.ErrNoActiveQuiz
	}
	return ws.Quiz, nil
}

func (s *QuizService) Abandon(ctx context.Context, sessionID string) error {
	_, err := s.Workspaces.Update(ctx, sessionID, func(ws *model.Workspace) error {
		ws.Quiz = nil
		return nil
	})
	return err
}

func (s *QuizService) Performance(ctx context.Context, sessionID string) ([]model.PerformancePoint, error) {
	ws, err := s.Workspaces.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ws.Performance, nil
}
