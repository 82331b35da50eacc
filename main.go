// @title EduAssist 后端 API
// @version 1.0
// @description EduAssist 学习助手的后端服务器：会话工作区、测验、实习、资源与 AI 助手。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"eduassist_backend/internal/app"
	"eduassist_backend/internal/config"
	"eduassist_backend/pkg/logger"
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行用户表迁移，完成后退出")
	checkConfig := flag.Bool("check-config", false, "只加载并校验配置，打印结果后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config from %s: %v\n", *configDir, err)
		os.Exit(1)
	}
	if *checkConfig {
		fmt.Printf("config ok: mode=%s session_store=%s storage=%s tracing=%t\n",
			cfg.Server.Mode, cfg.Session.Store, cfg.Storage.Type, cfg.Tracing.Enabled)
		return
	}
	cfg.MigrateOnly = *migrateOnly

	gin.SetMode(cfg.Server.Mode)

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		logger.Log.Info("Migration finished, exiting")
		return
	}

	application.Run()
}
