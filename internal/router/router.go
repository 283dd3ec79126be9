package router

import (
	"net/http"

	"taskflow/backend/internal/config"
	"taskflow/backend/internal/handlers"
	"taskflow/backend/internal/middleware"
	"taskflow/backend/internal/models"
	"taskflow/backend/internal/monitoring"
	"taskflow/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps carries everything the HTTP surface needs. The caller owns the
// lifecycle of each dependency.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Logger  *logrus.Logger
	Monitor *monitoring.Monitor
	Limiter middleware.ClientLimiter
}

// New assembles the gin engine: global middleware, public auth routes,
// token-protected task routes, and the operational endpoints.
func New(deps Deps) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(deps.Monitor.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{deps.Config.CORS.Origin}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	tokens := services.NewTokenService(deps.Config.Auth.JWTSecret, deps.Config.Auth.TokenTTL)
	authService := services.NewAuthService(deps.Config.Auth.BcryptCost)
	taskService := services.NewTaskService()

	authHandler := handlers.NewAuthHandler(deps.DB, authService, tokens)
	taskHandler := handlers.NewTaskHandler(deps.DB, taskService)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	if deps.Limiter != nil {
		auth.Use(middleware.RateLimit(deps.Limiter))
	}
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	authed := v1.Group("/auth")
	authed.Use(middleware.Authenticate(deps.DB, tokens))
	{
		authed.GET("/me", authHandler.Me)
		authed.GET("/users", middleware.RequireRoles(models.RoleAdmin), authHandler.ListUsers)
	}

	tasks := v1.Group("/tasks")
	tasks.Use(middleware.Authenticate(deps.DB, tokens))
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/stats", taskHandler.GetStats)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	r.GET("/health", deps.Monitor.HealthHandler())
	r.GET("/health/live", deps.Monitor.LivenessHandler())
	r.GET("/health/ready", deps.Monitor.ReadinessHandler())
	r.GET("/metrics", deps.Monitor.MetricsHandler())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Route not found",
		})
	})

	return r
}
