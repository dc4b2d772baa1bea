package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"storm/internal/auth"
	"storm/internal/cache"
	"storm/internal/cdn"
	"storm/internal/config"
	"storm/internal/db"
	"storm/internal/handler"
	"storm/internal/mailer"
	"storm/internal/model"
	"storm/internal/repository"
	"storm/internal/router"
	"storm/internal/service"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		// The server still starts so health checks and static pages work,
		// but every login and protected request will fail closed.
		log.Println("WARNING: JWT_SECRET not configured; authentication is disabled")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.PasswordResetToken{},
		&model.ContactFormSubmission{},
		&model.BootstrapLock{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	tokenRepo := repository.NewResetTokenRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)
	bootstrapRepo := repository.NewBootstrapRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.MailFrom)
	authService := service.NewAuthService(userRepo, jwtService)
	resetService := service.NewPasswordResetService(userRepo, tokenRepo, smtpMailer)
	contactService := service.NewContactService(contactRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	resetHandler := handler.NewResetHandler(resetService)
	contactHandler := handler.NewContactHandler(contactService)

	var cdnHandler *handler.CDNHandler
	if cfg.CDNBucket != "" {
		store, err := cdn.New(context.Background(), cfg)
		if err != nil {
			log.Fatalf("cdn init: %v", err)
		}
		cdnHandler = handler.NewCDNHandler(store)
	}

	// One-time seeding, raced safely against sibling instances. A failure is
	// logged but does not stop the server, matching the original behavior.
	if cfg.SeedData {
		seeder := service.NewSeedService(bootstrapRepo)
		if err := seeder.Run(context.Background()); err != nil {
			log.Printf("data seeding failed: %v", err)
		}
	}

	e := echo.New()
	router.Register(e, cfg, jwtService, authHandler, resetHandler, contactHandler, cdnHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
