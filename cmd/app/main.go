package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/config"
	"learnhub/internal/application/usecase"
	"learnhub/internal/domain"
	"learnhub/internal/infrastructure/cache"
	"learnhub/internal/infrastructure/email"
	"learnhub/internal/infrastructure/repository"
	"learnhub/internal/infrastructure/security"
	"learnhub/internal/middleware"
	handlers "learnhub/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	// TranslateError — чтобы duplicated key ловился как gorm.ErrDuplicatedKey
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	err = db.AutoMigrate(
		&domain.Profile{},
		&domain.Course{},
		&domain.Lecture{},
		&domain.Enrollment{},
		&domain.LectureProgress{},
		&domain.Topic{},
		&domain.Comment{},
		&domain.Vote{},
		&domain.Plan{},
		&domain.Order{},
		&domain.OrderItem{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Репозитории
	profileRepo := repository.NewProfileRepository(db)
	courseRepo := repository.NewCourseRepository(db, rdb)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db, rdb)
	orderRepo := repository.NewOrderRepository(db)

	// Инфраструктура
	tokenCache := cache.NewTokenCache(rdb)
	hasher := security.NewPasswordHasher()
	tokenManager := security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret)
	emailSender := email.NewEmailSender(cfg.SendgridAPIKey, cfg.SenderEmail, cfg.FrontendURL)
	rateLimiter := middleware.NewRateLimiter(rdb)

	// Юзкейсы
	authUseCase := usecase.NewAuthUseCase(profileRepo, tokenCache, hasher, tokenManager, emailSender)
	discussionUseCase := usecase.NewDiscussionUseCase(discussionRepo, profileRepo)
	enrollmentUseCase := usecase.NewEnrollmentUseCase(enrollmentRepo, courseRepo, profileRepo)
	billingUseCase := usecase.NewBillingUseCase(orderRepo, courseRepo, profileRepo, enrollmentRepo, emailSender)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authUseCase)
	userHandler := handlers.NewUserHandler(profileRepo)
	courseHandler := handlers.NewCourseHandler(courseRepo, enrollmentRepo, profileRepo)
	discussionHandler := handlers.NewDiscussionHandler(discussionUseCase)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentUseCase)
	orderHandler := handlers.NewOrderHandler(billingUseCase)

	router := handlers.NewRouter(
		authHandler, userHandler, courseHandler, discussionHandler,
		enrollmentHandler, orderHandler,
		rateLimiter, tokenManager, profileRepo, cfg.AllowedOrigins,
	)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("LearnHub API running on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
}
