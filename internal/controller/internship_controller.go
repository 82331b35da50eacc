package controller

import (
	"eduassist_backend/internal/service"
	"eduassist_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InternshipController struct {
	InternshipService *service.InternshipService
}

func NewInternshipController(internshipService *service.InternshipService) *InternshipController {
	return &InternshipController{InternshipService: internshipService}
}

// swagger:model SubmissionRequest
type SubmissionRequest struct {
	Link  string `json:"link"`
	Notes string `json:"notes"`
}

// List godoc
// @Summary 实习项目列表
// @Tags 实习
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /internships [get]
func (c *InternshipController) List(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	ws, err := c.InternshipService.Workspaces.Get(ctx.Request.Context(), sid)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"internships": c.InternshipService.Entries(ws),
		"points":      ws.Points,
	})
}

// Apply godoc
// @Summary 申请实习项目
// @Tags 实习
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Success 200 {object} util.Response{data=service.InternshipEntry}
// @Failure 404 {object} util.Response
// @Router /internships/{id}/apply [post]
func (c *InternshipController) Apply(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid internship id")
		return
	}
	entry, err := c.InternshipService.Apply(ctx.Request.Context(), sid, id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, entry)
}

// Submit godoc
// @Summary 提交实习作品
// @Description 需先申请；提交后累加积分并解锁徽章
// @Tags 实习
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Param body body SubmissionRequest true "作品链接与备注"
// @Success 200 {object} util.Response{data=service.SubmissionResult}
// @Failure 400 {object} util.Response "缺少链接"
// @Failure 409 {object} util.Response "未申请或已提交"
// @Router /internships/{id}/submit [post]
func (c *InternshipController) Submit(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid internship id")
		return
	}
	var req SubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.InternshipService.Submit(ctx.Request.Context(), sid, id, req.Link, req.Notes)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
