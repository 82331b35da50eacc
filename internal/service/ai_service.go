package service

import (
	"bytes"
	"context"
	"eduassist_backend/internal/config"
	"eduassist_backend/internal/model"
	"eduassist_backend/pkg/logger"
	"eduassist_backend/pkg/monitoring"
	"eduassist_backend/pkg/tracing"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	FeatureAdvice    = "advice"
	FeatureTimetable = "timetable"
	FeatureRoadmap   = "roadmap"
)

const (
	AdviceFallback    = "Sorry, I encountered an error while generating your career plan. Please try again."
	TimetableFallback = "Sorry, I couldn't generate your timetable. Please check your input and try again."
	RoadmapFailure    = "Failed to generate roadmap. Please try again."
)

const (
	adviceInstruction = "You are an expert career and learning navigator. Based on the user's query, provide a detailed, actionable plan following the '5/5 Interview Readiness Framework'. " +
		"This framework includes: 1. Skill Mastery, 2. Project Portfolio, 3. Resume/CV Crafting, 4. Mock Interviews, 5. Networking Strategy. " +
		"Format your response using markdown for clear readability. Be encouraging and clear."

	timetableInstruction = "You are a personalized timetable creator. The user will provide their tasks, commitments, and study goals. Create a structured, easy-to-read schedule. " +
		"Use markdown tables with columns for 'Time', 'Activity', and 'Notes'. Be smart about allocating break times and structure the day logically."

	roadmapPrompt = "Generate a detailed, step-by-step career roadmap for becoming a %s. " +
		"The roadmap should have a clear title and a list of actionable steps, with a title and description for each step."
)

var (
	ErrMissingAPIKey    = errors.New("AI API key is not configured")
	ErrMalformedRoadmap = errors.New("malformed career roadmap")
)

// roadmapSchema 路线图的结构化输出约束
var roadmapSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"title": map[string]interface{}{
			"type":        "string",
			"description": "The title of the career roadmap.",
		},
		"steps": map[string]interface{}{
			"type":        "array",
			"description": "A list of steps to follow in the roadmap.",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title": map[string]interface{}{
						"type":        "string",
						"description": "The title of the step.",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "A detailed description of the step.",
					},
				},
				"required": []string{"title", "description"},
			},
		},
	},
	"required": []string{"title", "steps"},
}

type GenerateRequest struct {
	Model             string
	Prompt            string
	SystemInstruction string
	Schema            map[string]interface{}
}

// Generator 生成式文本服务
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string                 `json:"name"`
	Schema map[string]interface{} `json:"schema"`
}

type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []AIChatMessage `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ChatCompletionClient OpenAI 兼容的 /chat/completions 客户端
type ChatCompletionClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewChatCompletionClient(cfg config.AIConfig) (*ChatCompletionClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	return &ChatCompletionClient{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:  cfg.APIKey,
		HTTP:    &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (c *ChatCompletionClient) Generate(ctx context.Context, in GenerateRequest) (string, error) {
	messages := []AIChatMessage{}
	if in.SystemInstruction != "" {
		messages = append(messages, AIChatMessage{Role: "system", Content: in.SystemInstruction})
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: in.Prompt})

	reqBody := ChatCompletionRequest{
		Model:    in.Model,
		Messages: messages,
	}
	if in.Schema != nil {
		reqBody.ResponseFormat = &responseFormat{
			Type:       "json_schema",
			JSONSchema: &jsonSchema{Name: "response", Schema: in.Schema},
		}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("AI returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

// AIService 职业建议、课表与路线图。每次调用只发一次请求，不重试
type AIService struct {
	gen Generator

	mu     sync.RWMutex
	models config.AIModels
}

func NewAIService(gen Generator, models config.AIModels) *AIService {
	return &AIService{gen: gen, models: models}
}

// UpdateModels 配置热更新
func (s *AIService) UpdateModels(models config.AIModels) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = models
}

func (s *AIService) Models() config.AIModels {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.models
}

func (s *AIService) generate(ctx context.Context, feature string, req GenerateRequest) (string, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ai."+feature)
	defer span.End()
	span.SetAttributes(attribute.String("ai.model", req.Model))

	start := time.Now()
	text, err := s.gen.Generate(ctx, req)
	monitoring.AIDuration.WithLabelValues(feature).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return text, err
}

// GetCareerAdvice 出错时返回固定提示，不向调用方暴露错误
func (s *AIService) GetCareerAdvice(ctx context.Context, prompt string) string {
	text, err := s.generate(ctx, FeatureAdvice, GenerateRequest{
		Model:             s.Models().Advice,
		Prompt:            prompt,
		SystemInstruction: adviceInstruction,
	})
	if err != nil {
		logger.Log.Error("Error getting career advice", zap.Error(err))
		monitoring.AIRequests.WithLabelValues(FeatureAdvice, "fallback").Inc()
		return AdviceFallback
	}
	monitoring.AIRequests.WithLabelValues(FeatureAdvice, "ok").Inc()
	return text
}

func (s *AIService) CreateTimetable(ctx context.Context, prompt string) string {
	text, err := s.generate(ctx, FeatureTimetable, GenerateRequest{
		Model:             s.Models().Timetable,
		Prompt:            prompt,
		SystemInstruction: timetableInstruction,
	})
	if err != nil {
		logger.Log.Error("Error creating timetable", zap.Error(err))
		monitoring.AIRequests.WithLabelValues(FeatureTimetable, "fallback").Inc()
		return TimetableFallback
	}
	monitoring.AIRequests.WithLabelValues(FeatureTimetable, "ok").Inc()
	return text
}

// GetCareerRoadmap 错误原样返回，由调用方展示并允许重试
func (s *AIService) GetCareerRoadmap(ctx context.Context, careerQuery string) (*model.CareerRoadmap, error) {
	text, err := s.generate(ctx, FeatureRoadmap, GenerateRequest{
		Model:  s.Models().Roadmap,
		Prompt: fmt.Sprintf(roadmapPrompt, careerQuery),
		Schema: roadmapSchema,
	})
	if err != nil {
		monitoring.AIRequests.WithLabelValues(FeatureRoadmap, "error").Inc()
		return nil, err
	}
	roadmap, err := ParseRoadmap(text)
	if err != nil {
		monitoring.AIRequests.WithLabelValues(FeatureRoadmap, "error").Inc()
		return nil, err
	}
	monitoring.AIRequests.WithLabelValues(FeatureRoadmap, "ok").Inc()
	return roadmap, nil
}

// ParseRoadmap 严格解析：title、steps 以及每一步的 title、description 都必须存在
func ParseRoadmap(text string) (*model.CareerRoadmap, error) {
	var raw struct {
		Title *string `json:"title"`
		Steps *[]struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
		} `json:"steps"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRoadmap, err)
	}
	if raw.Title == nil {
		return nil, fmt.Errorf("%w: missing title", ErrMalformedRoadmap)
	}
	if raw.Steps == nil {
		return nil, fmt.Errorf("%w: missing steps", ErrMalformedRoadmap)
	}

	roadmap := &model.CareerRoadmap{Title: *raw.Title, Steps: make([]model.RoadmapStep, 0, len(*raw.Steps))}
	for i, step := range *raw.Steps {
		if step.Title == nil || step.Description == nil {
			return nil, fmt.Errorf("%w: step %d is incomplete", ErrMalformedRoadmap, i)
		}
		roadmap.Steps = append(roadmap.Steps, model.RoadmapStep{Title: *step.Title, Description: *step.Description})
	}
	return roadmap, nil
}
