package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schedule-planner/backend/config"
	"schedule-planner/backend/internal/api/handler"
	"schedule-planner/backend/internal/api/middleware"
	"schedule-planner/backend/pkg/jwt"
	"schedule-planner/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录注册限速防爆破）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 课程目录
			authorized.GET("/courses", h.Course.List)

			// 购物车模块
			cart := authorized.Group("/cart")
			{
				cart.POST("/check-conflicts", h.Cart.CheckConflicts)
				cart.POST("/process", h.Cart.Process)
				cart.GET("/schedule", h.Cart.Schedule)
			}

			// 课表模块
			authorized.GET("/schedule", h.Schedule.GetSchedule)

			// 时间块模块
			timeBlocks := authorized.Group("/time-blocks")
			{
				timeBlocks.GET("", h.TimeBlock.List)
				timeBlocks.POST("", h.TimeBlock.Create)
				timeBlocks.PUT("/:id", h.TimeBlock.Update)
				timeBlocks.DELETE("/:id", h.TimeBlock.Delete)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/schedule", h.Export.ExportSchedule)
			}
		}
	}

	return r
}
