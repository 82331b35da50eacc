package controller

import (
	"eduassist_backend/internal/service"
	"eduassist_backend/internal/util"
	"eduassist_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	AuthService      *service.AuthService
	WorkspaceService *service.WorkspaceService
}

func NewAuthController(authService *service.AuthService, workspaceService *service.WorkspaceService) *AuthController {
	return &AuthController{AuthService: authService, WorkspaceService: workspaceService}
}

// swagger:model SignUpRequest
type SignUpRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
}

// swagger:model SignInRequest
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// swagger:model FederatedSignInRequest
type FederatedSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// SignUp godoc
// @Summary 注册并登录
// @Description 使用邮箱、密码和姓名注册，成功后直接建立会话
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body SignUpRequest true "注册信息"
// @Success 201 {object} util.Response{data=service.Session} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(ctx *gin.Context) {
	var req SignUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.AuthService.SignUpWithCredentials(ctx.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		c.authError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// SignIn godoc
// @Summary 邮箱密码登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body SignInRequest true "登录凭据"
// @Success 200 {object} util.Response{data=service.Session} "成功"
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /auth/signin [post]
func (c *AuthController) SignIn(ctx *gin.Context) {
	var req SignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.AuthService.SignInWithCredentials(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.authError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// Federated godoc
// @Summary 第三方身份登录
// @Description 校验第三方签发的 ID Token，按邮箱创建或关联账号
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body FederatedSignInRequest true "ID Token"
// @Success 200 {object} util.Response{data=service.Session} "成功"
// @Failure 401 {object} util.Response "令牌无效"
// @Router /auth/federated [post]
func (c *AuthController) Federated(ctx *gin.Context) {
	var req FederatedSignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.AuthService.SignInWithFederatedProvider(ctx.Request.Context(), req.IDToken)
	if err != nil {
		c.authError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// SignOut godoc
// @Summary 登出
// @Description 销毁会话并把导航重置到首页。登出失败只记录日志
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /auth/signout [post]
func (c *AuthController) SignOut(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Success(ctx, gin.H{"view": "auth"})
		return
	}
	nav := c.WorkspaceService.Logout(ctx.Request.Context(), c.AuthService, claims.SessionID)
	util.Success(ctx, gin.H{"view": "auth", "nav": nav})
}

func (c *AuthController) authError(ctx *gin.Context, err error) {
	if errors.Is(err, service.ErrDisplayNameRequired) {
		util.BadRequest(ctx, service.DisplayNameRequiredMessage)
		return
	}

	ae := service.ClassifyAuthError(err)
	status := http.StatusInternalServerError
	switch ae.Code {
	case service.CodeEmailInUse:
		status = http.StatusConflict
	case service.CodeWeakPassword:
		status = http.StatusBadRequest
	case service.CodeUserNotFound, service.CodeWrongPassword, service.CodeInvalidCredential:
		status = http.StatusUnauthorized
	default:
		logger.Log.Error("Auth provider error", zap.String("path", ctx.FullPath()), zap.Error(err))
	}
	util.ErrorWithData(ctx, status, ae.Message(), gin.H{"code": ae.Code})
}
