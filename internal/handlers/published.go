// internal/handlers/published.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/listing-intake/internal/services"
	"github.com/javajoker/listing-intake/internal/utils"
)

type PublishedHandler struct {
	listingService *services.ListingService
}

func NewPublishedHandler(listingService *services.ListingService) *PublishedHandler {
	return &PublishedHandler{listingService: listingService}
}

// GET /get-all-listings
func (h *PublishedHandler) GetAllListings(c *gin.Context) {
	listings, err := h.listingService.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"data": listings})
}

// GET /get-final-listing/:id
func (h *PublishedHandler) GetFinalListing(c *gin.Context) {
	listing, err := h.listingService.GetPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"data": listing})
}

// GET /get-latest-listing
func (h *PublishedHandler) GetLatestListing(c *gin.Context) {
	listingID, draft, err := h.listingService.GetLatest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"listing_id": listingID,
		"data":       draft,
	})
}

// GET /search?q=
func (h *PublishedHandler) Search(c *gin.Context) {
	listings, err := h.listingService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"data": listings})
}
