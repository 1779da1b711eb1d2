package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"covoit/internal/config"
	"covoit/internal/database"
	"covoit/internal/middleware"
	"covoit/internal/modules/admin"
	"covoit/internal/modules/auth"
	"covoit/internal/modules/booking"
	"covoit/internal/modules/group"
	"covoit/internal/modules/notification"
	"covoit/internal/modules/settings"
	"covoit/internal/modules/travel"
	"covoit/internal/pkg/jwt"
	"covoit/internal/pkg/mail"
	"covoit/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	travelRepo := repository.NewTravelRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	verifyRepo := repository.NewVerificationRepository(db)

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		mailer = mail.NewDevConsoleMailer(cfg.AppEnv != "prod")
	}

	hub := notification.NewHub()
	notifService := notification.NewService(notifRepo, userRepo, settingRepo, mailer, hub)
	notifHandler := notification.NewHandler(notifService, hub)

	travelService := travel.NewService(travelRepo, bookingRepo, groupRepo, notifService, cfg.EditableWindow)
	travelHandler := travel.NewHandler(travelService)

	bookingService := booking.NewService(bookingRepo, travelRepo, userRepo, notifService, cfg.EditableWindow)
	bookingHandler := booking.NewHandler(bookingService)

	authService := auth.NewService(userRepo, verifyRepo, jwtService, mailer, cfg.VerifyCodeTTL, cfg.VerifyResendCooldown)
	authHandler := auth.NewHandler(authService)

	groupService := group.NewService(groupRepo, userRepo, travelService, notifService)
	groupHandler := group.NewHandler(groupService)

	settingsService := settings.NewService(settingRepo)
	settingsHandler := settings.NewHandler(settingsService)

	adminService := admin.NewService(userRepo, travelService)
	adminHandler := admin.NewHandler(adminService)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.Auth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			travelHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)
			groupHandler.RegisterRoutes(protected)
			settingsHandler.RegisterRoutes(protected)

			adminOnly := protected.Group("")
			adminOnly.Use(middleware.AdminOnly())
			adminHandler.RegisterRoutes(adminOnly)
		}
	}

	log.Printf("listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
