package handlers

import (
	"context"

	"github.com/SscSPs/money_tracker/cmd/docs"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/middleware"
	"github.com/SscSPs/money_tracker/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthChecker is pinged by GET /health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	health HealthChecker,
) error {
	registerValidators()

	r.GET("/health", getHealth(health))

	api := r.Group("/api")
	api.GET("", getHome)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret,
		middleware.WithRevocationCheck(services.TokenService),
		middleware.WithCookie(cfg.TokenCookieName),
	)

	sessions := &sessionIssuer{
		cfg:          cfg,
		userService:  services.User,
		tokenService: services.TokenService,
	}
	if err := registerAuthRoutes(api, sessions, authMiddleware); err != nil {
		return err
	}
	registerGoogleOAuthRoutes(api, services.GoogleOAuthHandler, sessions)

	authed := api.Group("", authMiddleware)
	registerPeopleRoutes(authed, services.Person, services.Transaction)
	registerTransactionRoutes(authed, services.Transaction, services.Reporting)

	setupSwaggerRoutes(r, cfg)
	registerStaticRoutes(r, cfg.StaticDir)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
