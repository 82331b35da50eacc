package controller

import (
	"context"
	"eduassist_backend/internal/quiz"
	"eduassist_backend/internal/service"
	"eduassist_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// List godoc
// @Summary 备考列表
// @Tags 备考
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.ExamPrepEntry}
// @Router /exams [get]
func (c *ExamController) List(ctx *gin.Context) {
	util.Success(ctx, c.ExamService.List())
}

// Open godoc
// @Summary 进入考试练习
// @Description 考试名不区分大小写；没有题目时返回空练习
// @Tags 备考
// @Produce json
// @Security ApiKeyAuth
// @Param name path string true "考试名"
// @Success 200 {object} util.Response{data=service.BrowserView}
// @Failure 404 {object} util.Response
// @Router /exams/{name}/open [post]
func (c *ExamController) Open(ctx *gin.Context) {
	name := ctx.Param("name")
	c.browse(ctx, func(rc context.Context, sid string) (*quiz.Browser, error) {
		return c.ExamService.Open(rc, sid, name)
	})
}

// Next godoc
// @Summary 下一题
// @Tags 备考
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.BrowserView}
// @Router /exams/next [post]
func (c *ExamController) Next(ctx *gin.Context) {
	c.browse(ctx, c.ExamService.Next)
}

// Prev godoc
// @Summary 上一题
// @Tags 备考
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.BrowserView}
// @Router /exams/prev [post]
func (c *ExamController) Prev(ctx *gin.Context) {
	c.browse(ctx, c.ExamService.Prev)
}

// Reveal godoc
// @Summary 显示答案与解析
// @Tags 备考
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.BrowserView}
// @Router /exams/reveal [post]
func (c *ExamController) Reveal(ctx *gin.Context) {
	c.browse(ctx, c.ExamService.Reveal)
}

// Close godoc
// @Summary 返回备考列表
// @Tags 备考
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /exams/current [delete]
func (c *ExamController) Close(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	if err := c.ExamService.Close(ctx.Request.Context(), sid); err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *ExamController) browse(ctx *gin.Context, fn func(context.Context, string) (*quiz.Browser, error)) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	browser, err := fn(ctx.Request.Context(), sid)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewBrowserView(browser))
}
