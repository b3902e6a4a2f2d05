package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/civicresolve/backend/internal/config"
	"github.com/civicresolve/backend/internal/http/handlers"
	"github.com/civicresolve/backend/internal/http/middleware"
	"github.com/civicresolve/backend/internal/models"
	"github.com/civicresolve/backend/internal/service"

	_ "github.com/civicresolve/backend/docs"
)

// App carries the wired dependencies the HTTP layer serves.
type App struct {
	Store        service.Store
	Complaints   *service.ComplaintService
	RoadProjects []models.RoadProject
	Uploads      handlers.Uploader
}

func Router(cfg config.Config, app App, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id", "X-Voter-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "" || cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = strings.Split(cfg.CORSAllowed, ",")
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Complaints:  app.Complaints,
		Contractors: &service.ContractorService{Store: app.Store, Logger: logger},
		Wallets:     &service.WalletService{Store: app.Store, Logger: logger},
		Roads:       &service.RoadService{Projects: app.RoadProjects},
		Uploads:     app.Uploads,
		DB:          app.Store,
		Validator:   validator.New(),
		Logger:      logger,
	}

	r.GET("/healthz", h.Healthz)
	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Healthz)
		api.POST("/analyze", h.Analyze)

		api.POST("/complaints", middleware.MaxBody(cfg.MaxUploadSizeMB<<20), h.CreateComplaint)
		api.GET("/complaints", h.ListComplaints)
		api.GET("/complaints/track/:trackingId", h.TrackComplaint)
		api.GET("/complaints/analytics/stats", h.Stats)
		api.GET("/complaints/roads/list", h.ListRoads)
		api.PUT("/complaints/:id/vote", h.Vote)
		api.PUT("/complaints/:id/reopen", h.Reopen)
		api.PUT("/complaints/:id/analysis", h.AttachAnalysis)
		api.POST("/complaints/:id/analyze", h.AnalyzeComplaint)

		api.GET("/contractors", h.ListContractors)

		api.GET("/user/wallet", h.GetWallet)
		api.POST("/user/wallet/add", h.AddWalletPoints)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.PUT("/complaints/:id/status", h.UpdateStatus)
		admin.POST("/complaints/:id/evaluate", h.Evaluate)
		admin.DELETE("/complaints/latest", h.DeleteLatest)
		admin.DELETE("/complaints/:id", h.DeleteComplaint)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
