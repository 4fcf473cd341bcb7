package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/brookfield-ptsa/ptsa-backend/config"
	"github.com/brookfield-ptsa/ptsa-backend/database"
	"github.com/brookfield-ptsa/ptsa-backend/internal/announcement"
	"github.com/brookfield-ptsa/ptsa-backend/internal/auditlog"
	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
	"github.com/brookfield-ptsa/ptsa-backend/internal/consent"
	"github.com/brookfield-ptsa/ptsa-backend/internal/event"
	"github.com/brookfield-ptsa/ptsa-backend/internal/rsvp"
	"github.com/brookfield-ptsa/ptsa-backend/internal/volunteer"
	"github.com/brookfield-ptsa/ptsa-backend/routes"
	"github.com/brookfield-ptsa/ptsa-backend/utils"
)

// @title PTSA Backend API
// @version 1.0
// @description Membership, event RSVP, volunteer slot, and announcement API for the Brookfield PTSA.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	if err := utils.InitRedis(cfg); err != nil {
		log.Fatalf("Redis init failed: %v", err)
	}

	utils.InitKafka(cfg)

	mailer := utils.NewMailer(cfg)

	// Announcement emails drain through Kafka so publishing stays fast and
	// SMTP hiccups never surface to the publishing request.
	authRepo := auth.NewRepository(db)
	utils.StartConsumer(cfg, "announcement-delivery", announcement.NewDeliveryHandler(authRepo, mailer))

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&auth.Member{},
		&auditlog.AuditLog{},
		&event.Event{},
		&rsvp.RSVP{},
		&volunteer.Slot{},
		&volunteer.Signup{},
		&consent.ConsentRecord{},
		&announcement.Announcement{},
	); err != nil {
		log.Fatalf("DB AutoMigrate failed: %v", err)
	}
	log.Println("Database migrations completed")

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg, mailer)

	log.Printf("Listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
