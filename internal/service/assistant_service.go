package service

import (
	"context"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/util"
	"eduassist_backend/pkg/logger"
	"eduassist_backend/pkg/monitoring"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AssistantReply Stored 为假表示请求期间会话已切换页面，结果没有写回视图
type AssistantReply struct {
	Answer *model.AIAnswer `json:"answer"`
	Stored bool            `json:"stored"`
}

type RoadmapReply struct {
	Career *model.CareerState `json:"career"`
	Stored bool               `json:"stored"`
}

// AssistantService 把 AI 结果接到会话上：同一会话同一功能同一提示词的并发提交共享一次调用，
// 迟到的结果不写回已离开的页面
type AssistantService struct {
	AI         *AIService
	Workspaces *WorkspaceService

	flights singleflight.Group
}

func NewAssistantService(ai *AIService, workspaces *WorkspaceService) *AssistantService {
	return &AssistantService{AI: ai, Workspaces: workspaces}
}

func (s *AssistantService) Advice(ctx context.Context, sessionID, prompt string) (*AssistantReply, error) {
	return s.text(ctx, sessionID, FeatureAdvice, prompt, s.AI.GetCareerAdvice, AdviceFallback,
		func(ws *model.Workspace, a *model.AIAnswer) { ws.Advice = a })
}

func (s *AssistantService) Timetable(ctx context.Context, sessionID, prompt string) (*AssistantReply, error) {
	return s.text(ctx, sessionID, FeatureTimetable, prompt, s.AI.CreateTimetable, TimetableFallback,
		func(ws *model.Workspace, a *model.AIAnswer) { ws.Timetable = a })
}

func (s *AssistantService) text(
	ctx context.Context,
	sessionID, feature, prompt string,
	call func(context.Context, string) string,
	fallback string,
	store func(*model.Workspace, *model.AIAnswer),
) (*AssistantReply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, util.ErrEmptyPrompt
	}
	ws, err := s.Workspaces.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	epoch := ws.Nav.Epoch

	v, _, _ := s.flights.Do(flightKey(sessionID, feature, prompt), func() (interface{}, error) {
		return call(ctx, prompt), nil
	})
	text := v.(string)
	answer := &model.AIAnswer{
		Prompt:     prompt,
		Text:       text,
		Fallback:   text == fallback,
		AnsweredAt: s.Workspaces.now(),
	}

	stored, err := s.storeIfCurrent(ctx, sessionID, feature, epoch, func(ws *model.Workspace) {
		store(ws, answer)
	})
	if err != nil {
		return nil, err
	}
	return &AssistantReply{Answer: answer, Stored: stored}, nil
}

// Roadmap 失败时在职业页记录错误提示，同时把错误返回给调用方
func (s *AssistantService) Roadmap(ctx context.Context, sessionID, query string) (*RoadmapReply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, util.ErrEmptyPrompt
	}
	ws, err := s.Workspaces.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	epoch := ws.Nav.Epoch

	v, genErr, _ := s.flights.Do(flightKey(sessionID, FeatureRoadmap, query), func() (interface{}, error) {
		return s.AI.GetCareerRoadmap(ctx, query)
	})

	career := &model.CareerState{Query: query}
	if genErr != nil {
		logger.Log.Error("Error generating career roadmap", zap.String("session", sessionID), zap.Error(genErr))
		career.Error = RoadmapFailure
	} else {
		career.Roadmap = v.(*model.CareerRoadmap)
	}

	stored, err := s.storeIfCurrent(ctx, sessionID, FeatureRoadmap, epoch, func(ws *model.Workspace) {
		ws.Career = career
	})
	if err != nil {
		return nil, err
	}
	reply := &RoadmapReply{Career: career, Stored: stored}
	if genErr != nil {
		return reply, genErr
	}
	return reply, nil
}

// flightKey 不同提示词各自调用，结果只回给提出它的请求
func flightKey(sessionID, feature, prompt string) string {
	return sessionID + "\x00" + feature + "\x00" + prompt
}

func (s *AssistantService) storeIfCurrent(ctx context.Context, sessionID, feature string, epoch uint64, apply func(*model.Workspace)) (bool, error) {
	stored := false
	_, err := s.Workspaces.Update(ctx, sessionID, func(ws *model.Workspace) error {
		if ws.Nav.Epoch != epoch {
			return nil
		}
		apply(ws)
		stored = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if !stored {
		monitoring.AIRequests.WithLabelValues(feature, "discarded").Inc()
		logger.Log.Debug("Discarded late AI response", zap.String("session", sessionID), zap.String("feature", feature))
	}
	return stored, nil
}
