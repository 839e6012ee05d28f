// internal/handlers/media.go
package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/listing-intake/internal/i18n"
	"github.com/javajoker/listing-intake/internal/metrics"
	"github.com/javajoker/listing-intake/internal/models"
	"github.com/javajoker/listing-intake/internal/services"
	"github.com/javajoker/listing-intake/internal/utils"
)

const multipartOverhead = 1 << 20

type MediaHandler struct {
	mediaService *services.MediaService
	maxBodySize  int64
	metrics      *metrics.Metrics
}

func NewMediaHandler(mediaService *services.MediaService, maxFileSize int64, m *metrics.Metrics) *MediaHandler {
	slots := int64(len(models.ImageSlots) + 1)
	return &MediaHandler{
		mediaService: mediaService,
		maxBodySize:  slots*maxFileSize + multipartOverhead,
		metrics:      m,
	}
}

// POST /upload-media
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)

	req := &services.UploadMediaRequest{
		ListingID: c.PostForm("listing_id"),
		Images:    make(map[string]*multipart.FileHeader),
	}

	form, err := c.MultipartForm()
	switch {
	case err == nil:
		for _, slot := range models.ImageSlots {
			if files := form.File[slot]; len(files) > 0 {
				req.Images[slot] = files[0]
			}
		}
		if files := form.File[models.VideoSlot]; len(files) > 0 {
			req.Video = files[0]
		}
	case errors.Is(err, http.ErrNotMultipart):
		// No files; the listing_id check still applies.
	default:
		h.metrics.MediaUploads.WithLabelValues("rejected").Inc()
		respondError(c, fmt.Errorf("%w: %v", services.ErrUploadFailed, err))
		return
	}

	result, err := h.mediaService.Upload(c.Request.Context(), req)
	if err != nil {
		h.metrics.MediaUploads.WithLabelValues("failed").Inc()
		respondError(c, err)
		return
	}
	h.metrics.MediaUploads.WithLabelValues("stored").Inc()

	response := gin.H{"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyFileUploadSuccess)}
	if result.VideoSkipped {
		response["video"] = "not_implemented"
	}
	utils.SuccessResponse(c, response)
}
