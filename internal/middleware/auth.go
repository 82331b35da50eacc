package middleware

import (
	"eduassist_backend/internal/repository"
	"eduassist_backend/internal/service"
	"eduassist_backend/internal/util"
	"eduassist_backend/pkg/logger"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 令牌有效且会话工作区仍在才放行
func AuthMiddleware(auth *service.AuthService, store repository.WorkspaceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := util.BearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(tokenString)
		if err != nil {
			logger.Log.Debug("JWT parse failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if _, err := store.Get(c.Request.Context(), claims.SessionID); err != nil {
			if errors.Is(err, repository.ErrWorkspaceNotFound) {
				util.Unauthorized(c)
			} else {
				logger.Log.Error("Session store unavailable", zap.Error(err))
				util.ServiceUnavailable(c, "Session store unavailable")
			}
			c.Abort()
			return
		}

		c.Set(util.ContextClaimsKey, claims)
		c.Next()
	}
}

// TryAuthMiddleware 可选认证：令牌有效时写入上下文，否则按游客处理
func TryAuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := util.BearerToken(c); tokenString != "" {
			if claims, err := auth.ParseToken(tokenString); err == nil {
				c.Set(util.ContextClaimsKey, claims)
			}
		}
		c.Next()
	}
}
