package controller

import (
	"eduassist_backend/internal/service"
	"eduassist_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

type AnswerRequest struct {
	Option *int `json:"option" binding:"required"`
}

// List godoc
// @Summary 测验列表与成绩图表
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	performance, err := c.QuizService.Performance(ctx.Request.Context(), sid)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"quizzes":     c.QuizService.List(),
		"performance": performance,
	})
}

// Start godoc
// @Summary 开始测验
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.AttemptView}
// @Failure 404 {object} util.Response
// @Router /quizzes/{id}/start [post]
func (c *QuizController) Start(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	attempt, err := c.QuizService.Start(ctx.Request.Context(), sid, id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewAttemptView(attempt))
}

// Answer godoc
// @Summary 回答当前题
// @Description 每题只能回答一次；500ms 后自动进入下一题，最后一题后给出成绩
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body AnswerRequest true "选项序号"
// @Success 200 {object} util.Response{data=service.AttemptView}
// @Failure 409 {object} util.Response "已作答或已完成"
// @Router /quizzes/answer [post]
func (c *QuizController) Answer(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	attempt, err := c.QuizService.Answer(ctx.Request.Context(), sid, *req.Option)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewAttemptView(attempt))
}

// Current godoc
// @Summary 当前作答状态
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AttemptView}
// @Router /quizzes/attempt [get]
func (c *QuizController) Current(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	attempt, err := c.QuizService.Current(ctx.Request.Context(), sid)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewAttemptView(attempt))
}

// Abandon godoc
// @Summary 返回测验列表
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /quizzes/attempt [delete]
func (c *QuizController) Abandon(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	if err := c.QuizService.Abandon(ctx.Request.Context(), sid); err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
