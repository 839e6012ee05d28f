// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/listing-intake/internal/config"
	"github.com/javajoker/listing-intake/internal/handlers"
	"github.com/javajoker/listing-intake/internal/metrics"
	"github.com/javajoker/listing-intake/internal/middleware"
	"github.com/javajoker/listing-intake/internal/repository"
	"github.com/javajoker/listing-intake/internal/services"
)

const version = "1.0.0"

func Initialize(cfg *config.Config, repo repository.ListingRepository, store services.BlobStore, m *metrics.Metrics) *gin.Engine {
	// Initialize services
	draftService := services.NewDraftService(repo)
	mediaService := services.NewMediaService(repo, store, cfg.Storage.MaxFileSize)
	publishService := services.NewPublishService(repo)
	listingService := services.NewListingService(repo, draftService)

	// Initialize handlers
	listingHandler := handlers.NewListingHandler(draftService, publishService, m)
	mediaHandler := handlers.NewMediaHandler(mediaService, cfg.Storage.MaxFileSize, m)
	publishedHandler := handlers.NewPublishedHandler(listingService)

	generalLimiter := middleware.NewGeneralLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	uploadLimiter := middleware.NewUploadLimiter(cfg.RateLimit.UploadsPerMinute)

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = cfg.Storage.MaxFileSize

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(m.Middleware())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Listing intake API is running")
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
		})
	})

	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("")
	api.Use(generalLimiter.Middleware())
	{
		// Drafts
		api.GET("/create-listing", listingHandler.CreateListing)
		api.POST("/save-step1", listingHandler.SaveBasicInfo)
		api.POST("/add-step2", listingHandler.SaveAmenities)
		api.POST("/add-step3", listingHandler.SaveLocation)
		api.POST("/upload-media", uploadLimiter.Middleware(), mediaHandler.UploadMedia)
		api.GET("/get-listing/:id", listingHandler.GetDraft)
		api.POST("/publish-final", listingHandler.Publish)

		// Published listings
		api.GET("/get-all-listings", publishedHandler.GetAllListings)
		api.GET("/get-final-listing/:id", publishedHandler.GetFinalListing)
		api.GET("/get-latest-listing", publishedHandler.GetLatestListing)
		api.GET("/search", publishedHandler.Search)
	}

	// Static file serving (for development)
	if cfg.Environment == "development" && cfg.Storage.Backend == "local" {
		r.Static("/uploads", cfg.Storage.LocalDir)
	}

	return r
}
