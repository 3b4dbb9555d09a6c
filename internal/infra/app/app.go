package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/infra/config"
	"github.com/chiragtiwari115/CityPulse/internal/infra/database"
	"github.com/chiragtiwari115/CityPulse/internal/infra/kafka"
	"github.com/chiragtiwari115/CityPulse/internal/infra/logger"
	"github.com/chiragtiwari115/CityPulse/internal/infra/mail"
	"github.com/chiragtiwari115/CityPulse/internal/infra/security"
	"github.com/chiragtiwari115/CityPulse/internal/notification"
	"github.com/chiragtiwari115/CityPulse/internal/repository/postgres"
	"github.com/chiragtiwari115/CityPulse/internal/transport/http/middleware"
	"github.com/chiragtiwari115/CityPulse/internal/transport/http/routes"
	"github.com/chiragtiwari115/CityPulse/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application owns the wired service graph and its lifecycle.
type Application struct {
	cfg        *config.AppConfig
	engine     *gin.Engine
	logger     *zap.Logger
	pool       *pgxpool.Pool
	producer   *kafka.Producer
	dispatcher *notification.Dispatcher
}

// New builds the application from configuration: infrastructure first,
// then repositories, services, and the HTTP engine.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}

	tokenCodec, err := security.NewTokenCodec(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.AccessTokenTTL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token codec: %w", err)
	}

	var eventPublisher port.EventPublisher
	var producer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafka.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafka.NewStubPublisher(log)
		} else {
			eventPublisher = kafka.NewEventPublisher(producer, cfg.App, log)
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafka.NewStubPublisher(log)
	}

	var sink port.MailSink
	if cfg.Mail.SendGridAPIKey != "" {
		sink, err = mail.NewSendGridSink(cfg.Mail, log)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init mail sink: %w", err)
		}
	} else {
		log.Info("sendgrid api key not configured, logging outbound mail instead")
		sink = mail.NewLogSink(log)
	}
	dispatcher := notification.NewDispatcher(sink, cfg.Mail.QueueSize, cfg.Mail.SendTimeout, log)

	userRepo := postgres.NewUserRepository(pool)
	complaintRepo := postgres.NewComplaintRepository(pool)

	sessions := usecase.NewSessionIssuer(tokenCodec)
	authService := usecase.NewAuthService(userRepo, sessions)
	registrationService := usecase.NewRegistrationService(userRepo, sessions, eventPublisher, security.DefaultPasswordValidator(), log)
	federationService := usecase.NewFederationService(userRepo, sessions, eventPublisher, cfg.Auth0, log)
	complaintService := usecase.NewComplaintService(complaintRepo, userRepo, eventPublisher, dispatcher, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		log.Warn("failed to init http metrics, continuing without instrumentation", zap.Error(err))
		metrics = nil
	}

	engine := routes.Register(routes.Dependencies{
		Config: cfg,
		Logger: log,
		Services: routes.ServiceSet{
			Auth:         authService,
			Registration: registrationService,
			Federation:   federationService,
			Complaints:   complaintService,
		},
		Users:      userRepo,
		TokenCodec: tokenCodec,
		Metrics:    metrics,
		Database:   pool,
	})

	return &Application{
		cfg:        cfg,
		engine:     engine,
		logger:     log,
		pool:       pool,
		producer:   producer,
		dispatcher: dispatcher,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails. On shutdown the mail queue is drained before the
// producer and pool are released.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			if err := a.producer.Close(); err != nil {
				a.logger.Warn("failed to close kafka producer", zap.Error(err))
			}
		}
	}()
	defer func() {
		if a.dispatcher != nil {
			a.dispatcher.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting CityPulse API",
		zap.String("address", srv.Addr),
		zap.String("env", a.cfg.App.Env),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("run http server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	a.logger.Info("CityPulse API stopped")
	return <-errCh
}
