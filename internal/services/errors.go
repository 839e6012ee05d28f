// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javajoker/listing-intake/internal/utils"
)

var (
	ErrListingIDRequired = errors.New("listing_id missing")
	ErrListingNotFound   = errors.New("listing not found")
	ErrNoListings        = errors.New("no listings found")
	ErrUploadFailed      = errors.New("file upload failed")
	ErrFileTooLarge      = errors.New("file too large")
)

// ValidationError reports the payload fields that failed validation. It
// matches ErrListingIDRequired when listing_id is one of them.
type ValidationError struct {
	Fields []utils.ValidationError
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

func (e *ValidationError) Is(target error) bool {
	if target != ErrListingIDRequired {
		return false
	}
	for _, f := range e.Fields {
		if f.Field == "listing_id" {
			return true
		}
	}
	return false
}

func invalidInput(err error) error {
	return &ValidationError{Fields: utils.GetValidationErrors(err), Err: err}
}

// StorageError wraps a persistence or blob store failure with the label it
// is logged under, e.g. STEP1_ERROR.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

const (
	OpCreateListing = "CREATE_LISTING_ERROR"
	OpStep1         = "STEP1_ERROR"
	OpStep2         = "STEP2_ERROR"
	OpStep3         = "STEP3_ERROR"
	OpUpload        = "STORAGE_UPLOAD_ERROR"
	OpPublish       = "PUBLISH_ERROR"
	OpGetAll        = "GET_ALL_ERROR"
	OpGetFinal      = "GET_FINAL_ERROR"
	OpGetListing    = "GET_LISTING_ERROR"
	OpGetLatest     = "GET_LATEST_ERROR"
	OpSearch        = "SEARCH_ERROR"
)
