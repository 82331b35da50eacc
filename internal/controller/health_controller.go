package controller

import (
	"context"
	"eduassist_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger 可做连通性检查的依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	Database Pinger
	Sessions Pinger
}

func NewHealthController(database, sessions Pinger) *HealthController {
	return &HealthController{Database: database, Sessions: sessions}
}

// @Summary 健康检查
// @Description 检查数据库与会话存储
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	rc := ctx.Request.Context()
	components := gin.H{"database": "up", "sessions": "up", "ffmpeg": "missing"}
	healthy := true

	if err := c.Database.Ping(rc); err != nil {
		components["database"] = "down"
		healthy = false
	}
	if err := c.Sessions.Ping(rc); err != nil {
		components["sessions"] = "down"
		healthy = false
	}
	if util.FFmpegAvailable() {
		components["ffmpeg"] = "up"
	}

	if !healthy {
		util.ErrorWithData(ctx, http.StatusServiceUnavailable, "Service unavailable", gin.H{"status": "degraded", "components": components})
		return
	}
	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
