package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/teampulse/dailybot/config"
	"github.com/teampulse/dailybot/controllers"
	"github.com/teampulse/dailybot/engine"
	"github.com/teampulse/dailybot/messaging"
	"github.com/teampulse/dailybot/middleware"
	"github.com/teampulse/dailybot/storage"
	"github.com/teampulse/dailybot/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(eng *engine.Engine, schedule *storage.ScheduleStore, messenger messaging.Messenger) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file, separate from the app log.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController()
	reportController := controllers.NewReportController(eng, messenger, cfg.GuildID)
	scheduleController := controllers.NewScheduleController(schedule)
	runController := controllers.NewRunController(eng)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit())
	authGroup.POST("/token", authController.IssueToken)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimit())

	protected.POST("/reports", reportController.Submit)
	protected.GET("/reports/today", reportController.Today)

	protected.GET("/schedule", scheduleController.Get)
	protected.PUT("/schedule/days", scheduleController.SetDays)
	protected.PUT("/schedule/time", scheduleController.SetPromptTime)
	protected.PUT("/schedule/reminder", scheduleController.SetReminder)
	protected.PUT("/schedule/enabled", scheduleController.SetEnabled)

	protected.POST("/runs/prompt", runController.Prompt)
	protected.POST("/runs/reminder", runController.Reminder)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
