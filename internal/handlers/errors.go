// internal/handlers/errors.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/listing-intake/internal/i18n"
	"github.com/javajoker/listing-intake/internal/services"
	"github.com/javajoker/listing-intake/internal/utils"
)

// respondError maps service errors onto the wire format.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var invalid *services.ValidationError
	var storageErr *services.StorageError
	switch {
	case errors.As(err, &invalid):
		utils.ValidationErrorResponse(c, invalid.Fields)
	case errors.Is(err, services.ErrListingIDRequired):
		utils.MissingListingIDResponse(c)
	case errors.Is(err, services.ErrListingNotFound):
		utils.NotFoundResponse(c, i18n.KeyListingNotFound)
	case errors.Is(err, services.ErrNoListings):
		utils.SoftErrorResponse(c, i18n.T(lang, i18n.KeyListingNone))
	case errors.Is(err, services.ErrFileTooLarge):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileTooLarge, detail(err, services.ErrFileTooLarge)))
	case errors.Is(err, services.ErrUploadFailed):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed, detail(err, services.ErrUploadFailed)))
	case errors.As(err, &storageErr):
		utils.InternalErrorResponse(c, storageErr.Op, storageErr.Err)
	default:
		utils.InternalErrorResponse(c, "SERVER_ERROR", err)
	}
}

// detail strips the sentinel prefix from a wrapped error message.
func detail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

// bindStep decodes a JSON or form body into dst. An empty body leaves dst
// zeroed so the listing_id check reports it.
func bindStep(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBind(dst); err != nil && !errors.Is(err, io.EOF) {
		utils.ErrorResponse(c, http.StatusBadRequest, i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, "request body"))
		return false
	}
	return true
}
