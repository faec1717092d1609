package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hospitalcore/hospital-system/internal/api"
	"github.com/hospitalcore/hospital-system/internal/api/metrics"
	"github.com/hospitalcore/hospital-system/internal/core/service"
	"github.com/hospitalcore/hospital-system/internal/infrastructure/config"
	mongodb "github.com/hospitalcore/hospital-system/internal/infrastructure/db/mongo"
	redisdb "github.com/hospitalcore/hospital-system/internal/infrastructure/db/redis"
	"github.com/hospitalcore/hospital-system/internal/infrastructure/mail"
	"github.com/hospitalcore/hospital-system/internal/infrastructure/queue"
	"github.com/hospitalcore/hospital-system/pkg/logger"
)

// @title        Hospital Administration API
// @version      1.0
// @description  Role-based hospital administration backend.
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		fallback := logger.Get()
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log.Info().Str("env", cfg.Env).Msg("starting hospital system")

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		_ = rdb.Close()
	}()

	limiter := redisdb.NewRateLimiter(rdb, cfg.Rate.Limit, time.Duration(cfg.Rate.WindowSeconds)*time.Second, log)

	// --- Outbound mail ---
	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})
	mailQueue := queue.NewDispatcher(cfg.Mail.Workers, mailer, log)
	mailQueue.Start(ctx)
	metrics.RegisterMailQueueDepth(mailQueue.Depth)

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	tokenRepo := mongodb.NewTokenRepository(db)
	doctorRepo := mongodb.NewDoctorRepository(mongoClient, db)
	patientRepo := mongodb.NewPatientRepository(mongoClient, db)
	adminRepo := mongodb.NewAdminRepository(mongoClient, db)
	appointmentRepo := mongodb.NewAppointmentRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)
	statsRepo := mongodb.NewStatsRepository(db, log)

	// --- Services ---
	authService := service.NewAuthService(userRepo, tokenRepo, service.JWTOptions{
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
		SigningKey: cfg.JWT.SigningKey,
		Lifetime:   time.Duration(cfg.JWT.LifetimeMinutes) * time.Minute,
	}, log)
	userService := service.NewUserService(userRepo, doctorRepo, patientRepo, adminRepo, mailQueue, log)
	appointmentService := service.NewAppointmentService(appointmentRepo, userRepo, log)
	reviewService := service.NewReviewService(reviewRepo, appointmentRepo, userRepo, log)
	statsService := service.NewStatsService(statsRepo, log)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		AuthService:        authService,
		UserService:        userService,
		AppointmentService: appointmentService,
		ReviewService:      reviewService,
		StatsService:       statsService,
		Mongo:              db,
		Redis:              rdb,
		Limiter:            limiter,
		MailQueue:          mailQueue,
		JWTSigningKey:      cfg.JWT.SigningKey,
		JWTIssuer:          cfg.JWT.Issuer,
		JWTAudience:        cfg.JWT.Audience,
		Logger:             log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
