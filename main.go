package main

import (
	"log"
	"time"

	"kagai/config"
	"kagai/handler"
	"kagai/middleware"
	"kagai/service"
	"kagai/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	// 服务端统一使用 UTC
	time.Local = time.UTC
}

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	if err := utils.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer utils.CloseDB()

	// 初始化 Redis
	if err := utils.InitRedis(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer utils.CloseRedis()

	// 初始化认证中间件
	middleware.InitAuth(cfg.JWTSecret, cfg.TokenTTLHours)

	// 创建 WebSocket Hub
	hub := handler.NewHub(utils.GetRedis())

	// 创建服务
	authSvc := service.NewAuthService(utils.GetDB())
	profileSvc := service.NewProfileService(utils.GetDB())
	connSvc := service.NewConnectionService(utils.GetDB())
	noteSvc := service.NewNoteService(utils.GetDB(), cfg.MaxNoteLength)
	statsSvc := service.NewStatsService(utils.GetDB(), utils.GetRedis(), cfg.StatsCacheTTL)

	// 注入 Hub 通知器（用于WebSocket推送）
	connSvc.SetHubNotifier(hub)
	noteSvc.SetHubNotifier(hub)

	// 创建处理器
	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc, authSvc, connSvc)
	connHandler := handler.NewConnectionHandler(connSvc)
	noteHandler := handler.NewNoteHandler(noteSvc)
	dashHandler := handler.NewDashboardHandler(noteSvc, connSvc, profileSvc, statsSvc)

	// 创建 Gin 路由
	r := gin.Default()

	// 注册统一错误处理中间件
	r.Use(middleware.ErrorHandlerMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{"status": "ok"})
	})

	// 公开接口
	r.GET("/stats", dashHandler.GetHomeStats)
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)

	// WebSocket 连接（使用 token 认证，不需要 HTTP 中间件）
	r.GET("/ws", handler.HandleWebSocket(hub))

	// HTTP API 路由组（需要认证）
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	{
		// 个人主页
		api.GET("/dashboard", dashHandler.GetDashboard)

		// 用户与资料
		api.GET("/users", profileHandler.BrowseUsers) // 浏览用户
		api.GET("/users/:username/profile", profileHandler.GetProfile)
		api.POST("/profile", profileHandler.UpdateProfile) // 更新自己的资料

		// 情书
		api.POST("/notes", noteHandler.SendNote)
		api.GET("/notes", noteHandler.ListNotes)
		api.GET("/notes/:id", noteHandler.ViewNote) // 收件人首次查看标记 opened
		api.POST("/notes/:id/delete", noteHandler.DeleteNote)
		api.POST("/notes/:id/favorite", noteHandler.ToggleFavorite) // 切换收藏
		api.GET("/favorites", noteHandler.ListFavorites)

		// 用户关系
		api.POST("/connections/request", connHandler.RequestConnection)
		api.POST("/connections/:id/accept", connHandler.AcceptConnection)
		api.POST("/connections/:id/reject", connHandler.RejectConnection)
		api.POST("/connections/:id/delete", connHandler.RemoveConnection)
		api.POST("/connections/block", connHandler.BlockUser)
		api.GET("/connections", connHandler.GetConnections)
		api.GET("/connections/pending", connHandler.GetPendingConnections)
		api.GET("/connections/status", connHandler.GetConnectionStatus)

		// 登出（清除在线状态）
		api.POST("/logout", func(c *gin.Context) {
			if userID, exists := middleware.GetUserID(c); exists {
				hub.ForceOffline(userID)
			}
			utils.SuccessWithMessage(c, "Logged out", nil)
		})
	}

	// 启动服务
	log.Printf("💌 kagai service starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
