package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/infra/config"
	"github.com/chiragtiwari115/CityPulse/internal/infra/security"
	"github.com/chiragtiwari115/CityPulse/internal/transport/http/handlers"
	"github.com/chiragtiwari115/CityPulse/internal/transport/http/middleware"
	"github.com/chiragtiwari115/CityPulse/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
	Federation   *usecase.FederationService
	Complaints   *usecase.ComplaintService
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config     *config.AppConfig
	Logger     *zap.Logger
	Services   ServiceSet
	Users      port.UserRepository
	TokenCodec *security.TokenCodec
	Metrics    *middleware.HTTPMetrics
	Database   DatabaseChecker
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.CORSOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 1)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(deps.TokenCodec)
	requireAdmin := middleware.RequireAdmin()

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Registration, deps.Services.Federation)
		authHandler.RegisterRoutes(authGroup)

		usersGroup := api.Group("/users", requireAuth)
		userHandler := handlers.NewUserHandler(deps.Users)
		userHandler.RegisterRoutes(usersGroup)

		complaintsPublic := api.Group("/complaints")
		complaintsAuthed := api.Group("/complaints", requireAuth)
		complaintHandler := handlers.NewComplaintHandler(deps.Services.Complaints)
		complaintHandler.RegisterRoutes(complaintsAuthed, complaintsPublic)

		adminGroup := api.Group("/admin/complaints", requireAuth, requireAdmin)
		adminHandler := handlers.NewAdminComplaintHandler(deps.Services.Complaints)
		adminHandler.RegisterRoutes(adminGroup)
	}

	return r
}
