// Package http_server assembles the gin engine with its middleware chain.
package http_server

import (
	"time"

	"kiu_social_server/internal/config"
	"kiu_social_server/internal/handler"
	"kiu_social_server/internal/infrastructure/logger"
	"kiu_social_server/internal/infrastructure/middleware"
	"kiu_social_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewEngine builds the fully wired gin engine.
func NewEngine(handlers *handler.Handlers, mode string) *gin.Engine {
	gin.SetMode(mode)
	engine := gin.New()
	engine.Use(logger.GinLogger(), logger.GinRecovery(true))
	if conf := config.GetConfig(); conf.MainConfig.TlsRedirect {
		engine.Use(middleware.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.NewRouter(handlers).RegisterRoutes(engine)
	return engine
}
