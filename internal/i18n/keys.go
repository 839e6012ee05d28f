// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Validation
	KeyValidationListingIDMissing = "validation.listing_id_missing"
	KeyValidationInvalid          = "validation.invalid"

	// Listings
	KeyListingPublished         = "listing.published"
	KeyListingPublishIncomplete = "listing.publish_incomplete"
	KeyListingNotFound          = "listing.not_found"
	KeyListingNone              = "listing.none"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileTooLarge      = "file.too_large"

	// Server
	KeyServerInternalError = "server.internal_error"
	KeyServerRateLimited   = "server.rate_limited"
)
