// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aetflow/aet-backend/internal/config"
	"github.com/aetflow/aet-backend/internal/handlers"
	"github.com/aetflow/aet-backend/internal/middleware"
	"github.com/aetflow/aet-backend/internal/realtime"
	"github.com/aetflow/aet-backend/internal/services"
	"github.com/aetflow/aet-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, hub *realtime.Hub, notificationService *services.NotificationService) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	transparenciaClient := services.NewTransparenciaClient(cfg.Transparencia)

	authService := services.NewAuthService(db, cfg, notificationService)
	licenseService := services.NewLicenseService(db, storageService, notificationService, hub)
	vehicleService := services.NewVehicleService(db)
	transporterService := services.NewTransporterService(db, transparenciaClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	licenseHandler := handlers.NewLicenseHandler(licenseService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	transporterHandler := handlers.NewTransporterHandler(transporterService)
	adminHandler := handlers.NewAdminHandler(licenseService, transporterService)
	realtimeHandler := handlers.NewRealtimeHandler(hub)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Transporter routes
		transporters := v1.Group("/transporters")
		transporters.Use(middleware.AuthRequired())
		{
			transporters.POST("", transporterHandler.Create)
			transporters.GET("/me", transporterHandler.GetOwn)
			transporters.PUT("/me", transporterHandler.UpdateOwn)
		}

		// Vehicle routes
		vehicles := v1.Group("/vehicles")
		vehicles.Use(middleware.AuthRequired())
		{
			vehicles.POST("", vehicleHandler.Create)
			vehicles.GET("", vehicleHandler.List)
			vehicles.GET("/:id", vehicleHandler.Get)
			vehicles.PUT("/:id", vehicleHandler.Update)
			vehicles.DELETE("/:id", vehicleHandler.Delete)
		}

		// License request routes
		licenses := v1.Group("/licenses")
		licenses.Use(middleware.AuthRequired())
		{
			licenses.POST("", licenseHandler.CreateDraft)
			licenses.GET("", licenseHandler.ListLicenses)
			licenses.GET("/issued", licenseHandler.ListIssued)
			licenses.POST("/renew", licenseHandler.Renew)
			licenses.GET("/:id", licenseHandler.GetLicense)
			licenses.PUT("/:id", licenseHandler.UpdateDraft)
			licenses.DELETE("/:id", licenseHandler.DeleteDraft)
			licenses.POST("/:id/submit", licenseHandler.SubmitDraft)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired())
		admin.Use(middleware.AdminRequired())
		{
			admin.GET("/licenses", adminHandler.ListLicenses)
			admin.PATCH("/licenses/:id/status", middleware.UploadRateLimit(), adminHandler.UpdateStatus)
			admin.PATCH("/licenses/:id/state-status", middleware.UploadRateLimit(), adminHandler.UpdateStateStatus)
			admin.GET("/transporters", adminHandler.ListTransporters)
			admin.POST("/transporters/:id/verify", adminHandler.VerifyTransporter)
		}

		// Status update stream
		v1.GET("/ws", middleware.WebsocketAuth(), realtimeHandler.Connect)
	}

	return r
}
