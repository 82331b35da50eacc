package app

import (
	"eduassist_backend/docs"
	"eduassist_backend/internal/middleware"
	"eduassist_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, s)

	// 2. 需要会话的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(s.auth, s.workspace.Store))
	{
		a.registerShellRoutes(authGroup, c)
		a.registerLearningRoutes(authGroup, c)
		a.registerAIRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, s *services) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		public.POST("/auth/signup", c.auth.SignUp)
		public.POST("/auth/signin", c.auth.SignIn)
		public.POST("/auth/federated", c.auth.Federated)
		// 会话已失效时登出也视为成功
		public.POST("/auth/signout", middleware.TryAuthMiddleware(s.auth), c.auth.SignOut)

		public.GET("/shell", c.shell.Gate)
		public.GET("/preferences/theme", c.shell.GetTheme)
		public.PUT("/preferences/theme", c.shell.SetTheme)
	}
}

func (a *App) registerShellRoutes(group *gin.RouterGroup, c *controllers) {
	shell := group.Group("/shell")
	{
		shell.POST("/navigate", c.shell.Navigate)
		shell.POST("/sidebar", c.shell.Sidebar)
		shell.GET("/view", c.shell.View)
	}
}

func (a *App) registerLearningRoutes(group *gin.RouterGroup, c *controllers) {
	resources := group.Group("/resources")
	{
		resources.GET("", c.resource.List)
		resources.POST("", c.resource.Upload)
		resources.GET("/:id", c.resource.Get)
	}

	internships := group.Group("/internships")
	{
		internships.GET("", c.internship.List)
		internships.POST("/:id/apply", c.internship.Apply)
		internships.POST("/:id/submit", c.internship.Submit)
	}

	quizzes := group.Group("/quizzes")
	{
		quizzes.GET("", c.quiz.List)
		quizzes.POST("/:id/start", c.quiz.Start)
		quizzes.POST("/answer", c.quiz.Answer)
		quizzes.GET("/attempt", c.quiz.Current)
		quizzes.DELETE("/attempt", c.quiz.Abandon)
	}

	exams := group.Group("/exams")
	{
		exams.GET("", c.exam.List)
		exams.POST("/:name/open", c.exam.Open)
		exams.POST("/next", c.exam.Next)
		exams.POST("/prev", c.exam.Prev)
		exams.POST("/reveal", c.exam.Reveal)
		exams.DELETE("/current", c.exam.Close)
	}
}

func (a *App) registerAIRoutes(group *gin.RouterGroup, c *controllers) {
	ai := group.Group("/ai")
	{
		ai.POST("/advice", c.ai.Advice)
		ai.POST("/timetable", c.ai.Timetable)
		ai.POST("/roadmap", c.ai.Roadmap)
	}
}
