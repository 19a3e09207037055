package main

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/farmstore-service/internal/api/http"
	"github.com/spec-kit/farmstore-service/internal/api/http/handlers"
	"github.com/spec-kit/farmstore-service/internal/auth"
	"github.com/spec-kit/farmstore-service/internal/config"
	"github.com/spec-kit/farmstore-service/internal/events"
	"github.com/spec-kit/farmstore-service/internal/media"
	"github.com/spec-kit/farmstore-service/internal/observability"
	"github.com/spec-kit/farmstore-service/internal/persistence"
	"github.com/spec-kit/farmstore-service/internal/repository"
	"github.com/spec-kit/farmstore-service/internal/service"
	"github.com/spec-kit/farmstore-service/internal/worker"
)

// application owns every long-lived resource the server needs.
type application struct {
	logger    *zap.Logger
	pg        *persistence.Postgres
	redis     *persistence.Redis
	publisher *events.AMQPPublisher
	notifier  *worker.NotificationWorker
	auth      *service.AuthService
	http      *fiber.App
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*persistence.Postgres, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pg, nil
}

func newAuthService(cfg *config.Config, pg *persistence.Postgres, tokens *auth.TokenManager, logger *zap.Logger) *service.AuthService {
	pool := pg.PoolHandle()
	return service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo:    repository.NewAdminRepository(pool),
		StaffRepo:    repository.NewStaffRepository(pool),
		TokenManager: tokens,
		Logger:       logger,
	})
}

func buildApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	pg, err := openPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			pg.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	app := &application{
		logger: logger,
		pg:     pg,
		redis:  persistence.NewRedis(cfg.Redis, logger),
	}

	dispatcher := worker.NewNotificationWorker(cfg.Events.QueueSize, logger)
	app.notifier = dispatcher
	if cfg.Events.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, logger)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("connect amqp: %w", err)
		}
		app.publisher = publisher
	}
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Events)
	dispatcher.Register(notifications, app.publisher)

	var uploader service.MediaUploader
	if cloudinary := media.NewCloudinaryUploader(cfg.Media, logger); cloudinary.Configured() {
		uploader = cloudinary
	} else {
		logger.Warn("media host not configured; uploads disabled")
	}

	pool := pg.PoolHandle()
	staffRepo := repository.NewStaffRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	app.auth = newAuthService(cfg, pg, tokens, logger)
	staffService := service.NewStaffService(*cfg, service.StaffDependencies{
		StaffRepo: staffRepo,
		Cache:     persistence.NewStaffDirectoryCache(app.redis, cfg.Redis.DirectoryCachePrefix, cfg.Redis.DirectoryTTL()),
		Logger:    logger,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		AssignmentRepo: assignmentRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	transferService := service.NewTransferService(service.TransferDependencies{
		TransferRepo:   repository.NewTransferRepository(pool),
		AssignmentRepo: assignmentRepo,
		StaffRepo:      staffRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	statusService := service.NewStatusService(service.StatusDependencies{
		OrderRepo:         repository.NewOrderRepository(pool),
		ActionRepo:        repository.NewStaffActionRepository(pool),
		AssignmentService: assignmentService,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		ProductRepo:      repository.NewProductRepository(pool),
		BlogRepo:         repository.NewBlogRepository(pool),
		ReviewRepo:       repository.NewReviewRepository(pool),
		PlanRepo:         repository.NewPlanRepository(pool),
		FloatingTextRepo: repository.NewFloatingTextRepository(pool),
		LuckyRepo:        repository.NewLuckyRepository(pool),
		Uploader:         uploader,
		Logger:           logger,
	})
	formsService := service.NewFormsService(service.FormsDependencies{
		InquiryRepo:     repository.NewInquiryRepository(pool),
		ParticipantRepo: repository.NewParticipantRepository(pool),
		SubscriberRepo:  repository.NewSubscriberRepository(pool),
		Logger:          logger,
	})
	paymentService := service.NewPaymentService(service.PaymentDependencies{
		PaymentRepo: repository.NewPaymentRepository(pool),
		Uploader:    uploader,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	surveyService := service.NewSurveyService(service.SurveyDependencies{
		SurveyRepo:   repository.NewSurveyRepository(pool),
		ResponseRepo: repository.NewSurveyResponseRepository(pool),
		Logger:       logger,
	})

	if err := app.auth.BootstrapAdmin(ctx); err != nil {
		app.close()
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	metrics := observability.NewMetrics()
	app.http = httptransport.NewApp(cfg.App)
	httptransport.RegisterMiddlewares(app.http, logger, metrics, cfg.App)
	httptransport.RegisterRoutes(app.http, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    app.redis,
		}),
		Auth:           handlers.NewAuthHandler(app.auth),
		Staff:          handlers.NewStaffHandler(staffService),
		Workflow:       handlers.NewWorkflowHandler(assignmentService, transferService, statusService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Forms:          handlers.NewFormsHandler(formsService),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		Surveys:        handlers.NewSurveysHandler(surveyService),
		Admin:          handlers.NewAdminHandler(metrics),
		AuthMiddleware: auth.NewAuthMiddleware(auth.NewGuard(tokens, cfg.Auth.AdminKey)),
	})

	return app, nil
}

func (a *application) close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.pg != nil {
		a.pg.Close()
	}
}
