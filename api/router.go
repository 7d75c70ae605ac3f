// api/router.go
package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/Annany2002/domain-ledger/api/handlers"
	"github.com/Annany2002/domain-ledger/api/middleware"
	"github.com/Annany2002/domain-ledger/config"
	"github.com/Annany2002/domain-ledger/internal/metrics"
	"github.com/Annany2002/domain-ledger/internal/tasks"
)

// SetupRouter initializes the Gin router and sets up all routes.
func SetupRouter(db *sqlx.DB, cfg *config.Config, registry *tasks.Registry) *gin.Engine {
	router := gin.Default() // Includes Logger and Recovery

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	corsCfg.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsCfg))

	router.Use(metrics.Middleware())
	// Runs after the handlers so it can turn c.Errors into responses.
	router.Use(middleware.ErrorHandler())

	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	importHandler := handlers.NewImportHandler(db, cfg, registry)

	// --- Public Routes ---
	router.GET("/ping", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	authRoutes := router.Group("/api", middleware.RateLimitMiddleware(limiter))
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// --- Protected Routes ---
	apiRoutes := router.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware(cfg))
	{
		apiRoutes.GET("/user/:id", userHandler.GetUser)
		apiRoutes.POST("/upload", importHandler.Upload)
		apiRoutes.GET("/task/:task_id", importHandler.GetTask)
	}

	return router
}
