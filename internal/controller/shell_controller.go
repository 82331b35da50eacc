package controller

import (
	"eduassist_backend/internal/catalog"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/service"
	"eduassist_backend/internal/shell"
	"eduassist_backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ShellController struct {
	ShellService *service.ShellService
	ViewService  *service.ViewService
	Catalog      *catalog.Catalog
	SecureCookie bool
}

func NewShellController(shellService *service.ShellService, viewService *service.ViewService, cat *catalog.Catalog, secureCookie bool) *ShellController {
	return &ShellController{
		ShellService: shellService,
		ViewService:  viewService,
		Catalog:      cat,
		SecureCookie: secureCookie,
	}
}

// ShellResponse 外壳状态。View 为 loading 时其余字段都为空
type ShellResponse struct {
	View       shell.View      `json:"view"`
	DarkMode   bool            `json:"darkMode"`
	Identity   *model.Identity `json:"identity,omitempty"`
	Nav        *model.NavState `json:"nav,omitempty"`
	Navigation []model.NavItem `json:"navigation,omitempty"`
}

type NavigateRequest struct {
	Page string `json:"page" binding:"required"`
}

type SidebarRequest struct {
	Open bool `json:"open"`
}

type ThemeRequest struct {
	DarkMode bool `json:"darkMode"`
}

// Gate godoc
// @Summary 会话门状态
// @Description 返回 loading、auth 或 shell。无需令牌
// @Tags 外壳
// @Produce json
// @Success 200 {object} util.Response{data=ShellResponse}
// @Router /shell [get]
func (c *ShellController) Gate(ctx *gin.Context) {
	gate, claims := c.ShellService.ResolveGate(ctx.Request.Context(), util.BearerToken(ctx))
	resp := ShellResponse{View: gate.View()}

	switch gate.View() {
	case shell.ViewLoading:
		ctx.Header("Retry-After", "1")
		util.Success(ctx, resp)
		return
	case shell.ViewShell:
		ws, err := c.ViewService.Workspaces.Get(ctx.Request.Context(), claims.SessionID)
		if err != nil {
			// 会话在两次读取之间失效
			util.Success(ctx, ShellResponse{View: shell.ViewAuth, DarkMode: c.darkMode(ctx)})
			return
		}
		resp.Identity = gate.Identity()
		resp.Nav = &ws.Nav
		resp.Navigation = c.Catalog.Navigation
	}
	resp.DarkMode = c.darkMode(ctx)
	util.Success(ctx, resp)
}

// Navigate godoc
// @Summary 切换当前页
// @Description 未知页面回落到 dashboard；移动端布局下同时关闭侧栏
// @Tags 外壳
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Layout header string false "desktop 或 mobile"
// @Param body body NavigateRequest true "目标页"
// @Success 200 {object} util.Response{data=model.NavState}
// @Router /shell/navigate [post]
func (c *ShellController) Navigate(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	var req NavigateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	nav, err := c.ShellService.Navigate(ctx.Request.Context(), sid, req.Page, layoutFromRequest(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, nav)
}

// Sidebar godoc
// @Summary 打开或关闭侧栏
// @Tags 外壳
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SidebarRequest true "侧栏状态"
// @Success 200 {object} util.Response{data=model.NavState}
// @Router /shell/sidebar [post]
func (c *ShellController) Sidebar(ctx *gin.Context) {
	sid, ok := sessionID(ctx)
	if !ok {
		return
	}
	var req SidebarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	nav, err := c.ShellService.SetSidebar(ctx.Request.Context(), sid, req.Open, layoutFromRequest(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, nav)
}

// View godoc
// @Summary 当前页视图
// @Tags 外壳
// @Produce json
// @Security ApiKeyAuth
// @Param q query string false "资源页搜索词"
// @Success 200 {object} util.Response{data=service.PageView}
// @Router /shell/view [get]
func (c *ShellController) View(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	identity, err := c.ShellService.Auth.Identity(ctx.Request.Context(), claims.UserID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	view, err := c.ViewService.Compose(ctx.Request.Context(), claims.SessionID, identity, ctx.Query("q"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetTheme godoc
// @Summary 读取深色模式偏好
// @Tags 偏好
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Router /preferences/theme [get]
func (c *ShellController) GetTheme(ctx *gin.Context) {
	util.Success(ctx, gin.H{"darkMode": c.darkMode(ctx)})
}

// SetTheme godoc
// @Summary 保存深色模式偏好
// @Tags 偏好
// @Accept json
// @Produce json
// @Param body body ThemeRequest true "偏好"
// @Success 200 {object} util.Response{data=object}
// @Router /preferences/theme [put]
func (c *ShellController) SetTheme(ctx *gin.Context) {
	var req ThemeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(util.ThemeCookie, strconv.FormatBool(req.DarkMode), util.ThemeCookieMaxAge, "/", "", c.SecureCookie, false)
	util.Success(ctx, gin.H{"darkMode": req.DarkMode})
}

func (c *ShellController) darkMode(ctx *gin.Context) bool {
	cookie, err := ctx.Cookie(util.ThemeCookie)
	return service.ResolveDarkMode(cookie, err == nil, ctx.GetHeader(util.ThemeHintHeader))
}
