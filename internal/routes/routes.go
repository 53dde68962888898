package routes

import (
	"contacts_backend/internal/handlers"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/metrics"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Middlewares - обработчики, которые маршруты навешивают на свои группы
type Middlewares struct {
	Auth      gin.HandlerFunc
	RateLimit gin.HandlerFunc
}

// Options - необязательные части маршрутизации
type Options struct {
	// AvatarsDir - каталог локального хранилища, раздается по /avatars
	AvatarsDir string
	Swagger    bool
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	mw Middlewares,
	opts Options,
) {
	api := ginRouter.Group("/api")
	{
		appHandlers.UserHandler.RegisterRoutes(api, mw.Auth, mw.RateLimit)
		appHandlers.ContactHandler.RegisterRoutes(api, mw.Auth)
	}

	appHandlers.HealthHandler.RegisterRoutes(ginRouter)
	ginRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	if opts.AvatarsDir != "" {
		ginRouter.Static("/avatars", opts.AvatarsDir)
		logger.Info("Static avatars mounted", "dir", opts.AvatarsDir)
	}

	if opts.Swagger {
		ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	ginRouter.NoRoute(func(c *gin.Context) {
		apperrors.HandleError(c, apperrors.ErrRouteNotFound)
	})
}
