package controller

import (
	"eduassist_backend/internal/service"
	"eduassist_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	AssistantService *service.AssistantService
}

func NewAIController(assistantService *service.AssistantService) *AIController {
	return &AIController{AssistantService: assistantService}
}

// swagger:model PromptRequest
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// swagger:model RoadmapRequest
type RoadmapRequest struct {
	Query string `json:"query"`
}

// Advice godoc
// @Summary 职业与学习建议
// @Description 生成失败时返回固定提示文案，fallback 为真
// @Tags AI
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body PromptRequest true "问题"
// @Success 200 {object} util.Response{data=service.AssistantReply}
// @Router /ai/advice [post]
func (c *AIController) Advice(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	var req PromptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	reply, err := c.AssistantService.Advice(ctx.Request.Context(), sid, req.Prompt)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, reply)
}

// Timetable godoc
// @Summary 生成课表
// @Tags AI
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body PromptRequest true "任务与目标"
// @Success 200 {object} util.Response{data=service.AssistantReply}
// @Router /ai/timetable [post]
func (c *AIController) Timetable(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	var req PromptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	reply, err := c.AssistantService.Timetable(ctx.Request.Context(), sid, req.Prompt)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, reply)
}

// Roadmap godoc
// @Summary 生成职业路线图
// @Description 结果不完整时返回 502 与错误提示，可以重试
// @Tags AI
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body RoadmapRequest true "目标职业"
// @Success 200 {object} util.Response{data=service.RoadmapReply}
// @Failure 502 {object} util.Response{data=service.RoadmapReply}
// @Router /ai/roadmap [post]
func (c *AIController) Roadmap(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	var req RoadmapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	reply, err := c.AssistantService.Roadmap(ctx.Request.Context(), sid, req.Query)
	if err != nil {
		if reply != nil {
			util.ErrorWithData(ctx, http.StatusBadGateway, service.RoadmapFailure, reply)
			return
		}
		handleError(ctx, err)
		return
	}
	util.Success(ctx, reply)
}
