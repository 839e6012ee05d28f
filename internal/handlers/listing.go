// internal/handlers/listing.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/listing-intake/internal/i18n"
	"github.com/javajoker/listing-intake/internal/metrics"
	"github.com/javajoker/listing-intake/internal/models"
	"github.com/javajoker/listing-intake/internal/services"
	"github.com/javajoker/listing-intake/internal/utils"
)

type ListingHandler struct {
	draftService   *services.DraftService
	publishService *services.PublishService
	metrics        *metrics.Metrics
}

type PublishRequest struct {
	ListingID string `json:"listing_id" form:"listing_id"`
}

func NewListingHandler(draftService *services.DraftService, publishService *services.PublishService, m *metrics.Metrics) *ListingHandler {
	return &ListingHandler{
		draftService:   draftService,
		publishService: publishService,
		metrics:        m,
	}
}

// GET /create-listing
func (h *ListingHandler) CreateListing(c *gin.Context) {
	listingID, err := h.draftService.CreateListing(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	h.metrics.ListingsCreated.Inc()
	// listingId is kept for older clients
	utils.SuccessResponse(c, gin.H{
		"listing_id": listingID,
		"listingId":  listingID,
	})
}

// POST /save-step1
func (h *ListingHandler) SaveBasicInfo(c *gin.Context) {
	var info models.BasicInfo
	if !bindStep(c, &info) {
		return
	}

	if err := h.draftService.SaveBasicInfo(c.Request.Context(), &info); err != nil {
		respondError(c, err)
		return
	}

	h.metrics.StepsSaved.WithLabelValues("step1").Inc()
	utils.SuccessResponse(c, nil)
}

// POST /add-step2
func (h *ListingHandler) SaveAmenities(c *gin.Context) {
	var amenities models.Amenities
	if !bindStep(c, &amenities) {
		return
	}

	if err := h.draftService.SaveAmenities(c.Request.Context(), &amenities); err != nil {
		respondError(c, err)
		return
	}

	h.metrics.StepsSaved.WithLabelValues("step2").Inc()
	utils.SuccessResponse(c, nil)
}

// POST /add-step3
func (h *ListingHandler) SaveLocation(c *gin.Context) {
	var location models.Location
	if !bindStep(c, &location) {
		return
	}

	if err := h.draftService.SaveLocation(c.Request.Context(), &location); err != nil {
		respondError(c, err)
		return
	}

	h.metrics.StepsSaved.WithLabelValues("step3").Inc()
	utils.SuccessResponse(c, nil)
}

// GET /get-listing/:id
func (h *ListingHandler) GetDraft(c *gin.Context) {
	draft, err := h.draftService.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"data": draft})
}

// POST /publish-final
func (h *ListingHandler) Publish(c *gin.Context) {
	var req PublishRequest
	if !bindStep(c, &req) {
		return
	}

	published, err := h.publishService.Publish(c.Request.Context(), req.ListingID)
	if err != nil {
		respondError(c, err)
		return
	}

	lang := utils.GetLangFromContext(c)
	message := i18n.T(lang, i18n.KeyListingPublished)
	outcome := "published"
	if !published {
		message = i18n.T(lang, i18n.KeyListingPublishIncomplete)
		outcome = "incomplete"
	}
	h.metrics.ListingsPublished.WithLabelValues(outcome).Inc()

	utils.SuccessResponse(c, gin.H{
		"message":   message,
		"published": published,
	})
}
