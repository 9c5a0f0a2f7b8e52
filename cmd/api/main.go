package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/studsovet/selection_api/internal/app"
	"github.com/studsovet/selection_api/internal/config"
	"github.com/studsovet/selection_api/internal/controller"
	"github.com/studsovet/selection_api/internal/repository"
	"github.com/studsovet/selection_api/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := app.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	redisClient, err := app.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Репозитории
	facultyRepo := repository.NewFacultyRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	dayRepo := repository.NewDayRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	interviewRepo := repository.NewInterviewRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	questionnaireRepo := repository.NewQuestionnaireRepository(pool)
	approvalRepo := repository.NewApprovalRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	// Сервисы
	adminSvc := service.NewAdminService(adminRepo, cfg.SuperAdminIDs)
	scheduleSvc := service.NewScheduleService(dayRepo, slotRepo, availabilityRepo, logger)
	availabilitySvc := service.NewAvailabilityService(dayRepo, slotRepo, availabilityRepo, logger)
	bookingSvc := service.NewBookingService(userRepo, interviewRepo, dayRepo, slotRepo, adminRepo, logger)
	draftSvc := service.NewDraftService(redisClient, cfg.DraftTTL)
	questionnaireSvc := service.NewQuestionnaireService(userRepo, facultyRepo, templateRepo, questionnaireRepo, draftSvc, logger)
	stageSvc := service.NewStageService(facultyRepo, logger)
	videoSvc := service.NewVideoService(userRepo, facultyRepo, videoRepo, logger)
	statsSvc := service.NewStatsService(facultyRepo, statsRepo, questionnaireRepo, approvalRepo, userRepo, logger)
	directorySvc := service.NewDirectoryService(facultyRepo, userRepo, adminRepo, logger)

	server := controller.NewServer(cfg.HTTPAddr, controller.Deps{
		Admins:        adminSvc,
		Schedule:      scheduleSvc,
		Availability:  availabilitySvc,
		Booking:       bookingSvc,
		Questionnaire: questionnaireSvc,
		Stage:         stageSvc,
		Video:         videoSvc,
		Stats:         statsSvc,
		Directory:     directorySvc,
		Limiter:       controller.NewRedisLimiter(redisClient),
		Logger:        logger,
	})

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
