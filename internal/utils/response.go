// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/listing-intake/internal/i18n"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SuccessResponse writes {"status":"success"} merged with fields.
func SuccessResponse(c *gin.Context, fields gin.H) {
	body := gin.H{"status": StatusSuccess}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"status":  StatusError,
		"message": message,
	})
}

// SoftErrorResponse reports an error body with a 200 status, used where an
// empty result is not a transport failure.
func SoftErrorResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusOK, message)
}

func BadRequestResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "request")
	}
	ErrorResponse(c, http.StatusBadRequest, message)
}

func MissingListingIDResponse(c *gin.Context) {
	BadRequestResponse(c, i18n.T(GetLangFromContext(c), i18n.KeyValidationListingIDMissing))
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	for _, e := range errors {
		if e.Field == "listing_id" {
			MissingListingIDResponse(c)
			return
		}
	}
	message := i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "input")
	if len(errors) > 0 {
		message = errors[0].Message
	}
	ErrorResponse(c, http.StatusBadRequest, message)
}

func NotFoundResponse(c *gin.Context, key string) {
	ErrorResponse(c, http.StatusNotFound, i18n.T(GetLangFromContext(c), key))
}

// InternalErrorResponse logs err under the operation label and answers with
// a generic message.
func InternalErrorResponse(c *gin.Context, label string, err error) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"op":         label,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString(RequestIDKey),
	}).Error("request failed")
	ErrorResponse(c, http.StatusInternalServerError, i18n.T(GetLangFromContext(c), i18n.KeyServerInternalError))
}

const (
	LangKey      = "lang"
	RequestIDKey = "request_id"
)

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get(LangKey); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return "en"
}

// AbortWithInternalError stops the handler chain with the generic 500 body.
func AbortWithInternalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"status":  StatusError,
		"message": i18n.T(GetLangFromContext(c), i18n.KeyServerInternalError),
	})
}
