package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"splitbook/docs"
	"splitbook/internal/auth"
	"splitbook/internal/cache"
	"splitbook/internal/config"
	"splitbook/internal/db"
	"splitbook/internal/handler"
	"splitbook/internal/imagestore"
	"splitbook/internal/mail"
	"splitbook/internal/push"
	"splitbook/internal/repository"
	"splitbook/internal/router"
	"splitbook/internal/service"
)

// @title Splitbook API
// @version 1.0
// @description Group expense-sharing API with email OTP registration, JWT authentication and per-month ledgers.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// External collaborators, configured once and injected
	mailer, err := mail.NewSESMailer(cfg.AWSRegion, cfg.SESFromEmail)
	if err != nil {
		log.Fatalf("mailer init: %v", err)
	}
	images := imagestore.NewS3Store(imagestore.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	dispatcher := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.PushSubscriber)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	groupRepo := repository.NewGroupRepository(gormDB)
	expenseRepo := repository.NewExpenseRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	otpStore := auth.NewOTPStore(cacheClient)

	// Initialize services
	guard := service.NewMembershipGuard(groupRepo)
	authService := service.NewAuthService(userRepo, otpStore, mailer, jwtService)
	userService := service.NewUserService(userRepo, images)
	groupService := service.NewGroupService(groupRepo, userRepo, expenseRepo, images)
	expenseService := service.NewExpenseService(expenseRepo, guard, dispatcher)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	groupHandler := handler.NewGroupHandler(groupService)
	expenseHandler := handler.NewExpenseHandler(expenseService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		groupHandler,
		expenseHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
