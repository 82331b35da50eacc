package controller

import (
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/service"
	"eduassist_backend/internal/util"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	ResourceService *service.ResourceService
	AuthService     *service.AuthService
}

func NewResourceController(resourceService *service.ResourceService, authService *service.AuthService) *ResourceController {
	return &ResourceController{ResourceService: resourceService, AuthService: authService}
}

// List godoc
// @Summary 资源列表
// @Description 按标题、描述、上传者搜索，不区分大小写
// @Tags 资源
// @Produce json
// @Security ApiKeyAuth
// @Param q query string false "搜索词"
// @Success 200 {object} util.Response{data=[]model.Resource}
// @Router /resources [get]
func (c *ResourceController) List(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	resources, err := c.ResourceService.List(ctx.Request.Context(), sid, ctx.Query("q"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, resources)
}

// Get godoc
// @Summary 资源详情
// @Description viewable 为真时可站内预览（视频、图片），否则直接打开链接
// @Tags 资源
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "资源ID"
// @Success 200 {object} util.Response{data=service.ResourceDetail}
// @Failure 404 {object} util.Response
// @Router /resources/{id} [get]
func (c *ResourceController) Get(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid resource id")
		return
	}
	detail, err := c.ResourceService.Get(ctx.Request.Context(), sid, id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// Upload godoc
// @Summary 上传资源
// @Tags 资源
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "标题"
// @Param description formData string true "描述"
// @Param type formData string false "PDF、Video、Image 或 File"
// @Param file formData file true "文件"
// @Success 201 {object} util.Response{data=service.UploadResult}
// @Failure 400 {object} util.Response
// @Router /resources [post]
func (c *ResourceController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, util.MaxUploadSize)

	in := service.UploadInput{
		Title:       ctx.PostForm("title"),
		Description: ctx.PostForm("description"),
		Type:        model.ResourceType(ctx.PostForm("type")),
	}

	fileHeader, err := ctx.FormFile("file")
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		defer file.Close()
		in.File = file
		in.FileName = fileHeader.Filename
		in.Size = fileHeader.Size
		in.ContentType = fileHeader.Header.Get("Content-Type")
	} else if err != http.ErrMissingFile {
		util.BadRequest(ctx, fmt.Sprintf("invalid upload: %v", err))
		return
	}

	uploader := "Anonymous"
	if identity, err := c.AuthService.Identity(ctx.Request.Context(), claims.UserID); err == nil {
		uploader = identity.DisplayName
	}

	result, err := c.ResourceService.Upload(ctx.Request.Context(), claims.SessionID, uploader, in)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}
