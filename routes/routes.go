package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/brookfield-ptsa/ptsa-backend/config"
	"github.com/brookfield-ptsa/ptsa-backend/database"
	"github.com/brookfield-ptsa/ptsa-backend/internal/announcement"
	"github.com/brookfield-ptsa/ptsa-backend/internal/auditlog"
	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
	"github.com/brookfield-ptsa/ptsa-backend/internal/consent"
	"github.com/brookfield-ptsa/ptsa-backend/internal/event"
	"github.com/brookfield-ptsa/ptsa-backend/internal/member"
	"github.com/brookfield-ptsa/ptsa-backend/internal/rsvp"
	"github.com/brookfield-ptsa/ptsa-backend/internal/volunteer"
	"github.com/brookfield-ptsa/ptsa-backend/middleware"
	"github.com/brookfield-ptsa/ptsa-backend/utils"

	_ "github.com/brookfield-ptsa/ptsa-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Setup(r *gin.Engine, cfg *config.Config, mailer *utils.Mailer) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.AuditMiddleware())

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg, mailer)
	authHandler := auth.NewHandler(authSvc, auditSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
		authGroup.POST("/logout", middleware.AuthMiddleware(cfg, authSvc), authHandler.Logout)
	}

	// ========== Events / RSVPs / Volunteer Slots ==========
	eventRepo := event.NewRepository(database.DB)
	eventSvc := event.NewService(eventRepo)
	eventHandler := event.NewHandler(eventSvc, auditSvc)

	volunteerRepo := volunteer.NewRepository(database.DB)
	volunteerSvc := volunteer.NewService(volunteerRepo, eventRepo)
	volunteerHandler := volunteer.NewHandler(volunteerSvc, auditSvc)

	// Slot creation on POST /events and the slot sweep on DELETE /events/:id
	// flow through the volunteer service.
	eventSvc.Slots = volunteerSvc

	rsvpRepo := rsvp.NewRepository(database.DB)
	rsvpSvc := rsvp.NewService(rsvpRepo, eventRepo)
	rsvpHandler := rsvp.NewHandler(rsvpSvc, auditSvc)

	// Event deletion clears the event's RSVPs through the rsvp service.
	eventSvc.RSVPs = rsvpSvc

	optionalAuth := middleware.OptionalAuthMiddleware(cfg, authSvc)
	requireAuth := middleware.AuthMiddleware(cfg, authSvc)

	events := api.Group("/events")
	{
		// Reads serve anonymous callers with public-only visibility.
		events.GET("", optionalAuth, eventHandler.List)
		events.GET("/:id", optionalAuth, eventHandler.Get)
		events.GET("/:id/volunteer", optionalAuth, volunteerHandler.ListSlots)

		events.POST("", requireAuth, middleware.RBACMiddleware(auth.RoleBoard, auth.RoleAdmin), eventHandler.Create)
		events.PUT("/:id", requireAuth, eventHandler.Update)
		events.DELETE("/:id", requireAuth, eventHandler.Delete)

		// RSVP and signup handlers emit their own role-specific 401
		// messages, so auth here is optional rather than required.
		events.POST("/:id/rsvp", optionalAuth, rsvpHandler.Upsert)
		events.DELETE("/:id/rsvp", optionalAuth, rsvpHandler.Remove)
		events.POST("/:id/volunteer", optionalAuth, volunteerHandler.Upsert)
		events.DELETE("/:id/volunteer", optionalAuth, volunteerHandler.Remove)
	}

	// ========== Member Directory ==========
	memberRepo := member.NewRepository(database.DB)
	memberSvc := member.NewService(memberRepo)
	memberHandler := member.NewHandler(memberSvc, auditSvc)

	members := api.Group("/members")
	members.Use(requireAuth)
	{
		members.GET("/me", memberHandler.GetMe)
		members.PUT("/me", memberHandler.UpdateMe)
		members.GET("", middleware.RBACMiddleware(auth.RoleBoard, auth.RoleAdmin), memberHandler.GetDirectory)
		members.PUT("/:id/role", middleware.RBACMiddleware(auth.RoleAdmin), memberHandler.UpdateRole)
	}

	// ========== Consent ==========
	consentRepo := consent.NewRepository(database.DB)
	consentSvc := consent.NewService(consentRepo, authRepo)
	consentHandler := consent.NewHandler(consentSvc, auditSvc)

	consentGroup := api.Group("/consent")
	consentGroup.Use(requireAuth)
	{
		consentGroup.PUT("", consentHandler.Update)
		consentGroup.GET("", consentHandler.History)
	}

	// ========== Announcements ==========
	announcementRepo := announcement.NewRepository(database.DB)
	announcementSvc := announcement.NewService(announcementRepo, utils.PublishJSON)
	announcementHandler := announcement.NewHandler(announcementSvc, auditSvc)

	announcements := api.Group("/announcements")
	{
		announcements.GET("", requireAuth, announcementHandler.List)
		announcements.GET("/:id", requireAuth, announcementHandler.Get)
		announcements.POST("", requireAuth, middleware.RBACMiddleware(auth.RoleBoard, auth.RoleAdmin), announcementHandler.Publish)
		announcements.DELETE("/:id", requireAuth, middleware.RBACMiddleware(auth.RoleBoard, auth.RoleAdmin), announcementHandler.Delete)
	}

	// ========== Audit Logs (Admin Only) ==========
	auditRoutes := api.Group("/audit-logs")
	auditRoutes.Use(requireAuth, middleware.RBACMiddleware(auth.RoleAdmin))
	{
		auditRoutes.GET("", auditHandler.GetAuditLogs)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}
}
