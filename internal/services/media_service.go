// internal/services/media_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/javajoker/listing-intake/internal/models"
	"github.com/javajoker/listing-intake/internal/repository"
	"github.com/javajoker/listing-intake/internal/utils"
)

const defaultContentType = "application/octet-stream"

type MediaService struct {
	repo        repository.ListingRepository
	store       BlobStore
	maxFileSize int64
	now         func() time.Time
}

// UploadMediaRequest carries the multipart parts of one upload. Images is
// keyed by slot name (image1..image4); absent slots are cleared.
type UploadMediaRequest struct {
	ListingID string
	Images    map[string]*multipart.FileHeader
	Video     *multipart.FileHeader
}

type UploadMediaResult struct {
	Media *models.Media
	// VideoSkipped reports that a video part was sent but not stored.
	VideoSkipped bool
}

func NewMediaService(repo repository.ListingRepository, store BlobStore, maxFileSize int64) *MediaService {
	return &MediaService{
		repo:        repo,
		store:       store,
		maxFileSize: maxFileSize,
		now:         time.Now,
	}
}

// Upload pushes every present image slot to the blob store concurrently and
// then replaces the Media draft. Nothing is written unless every upload
// succeeds.
func (s *MediaService) Upload(ctx context.Context, req *UploadMediaRequest) (*UploadMediaResult, error) {
	if err := utils.ValidateListingID(req.ListingID); err != nil {
		return nil, ErrListingIDRequired
	}

	for _, slot := range models.ImageSlots {
		if header := req.Images[slot]; header != nil && header.Size > s.maxFileSize {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, slot, s.maxFileSize)
		}
	}

	uploadedAt := s.now().UnixMilli()
	paths := make([]*string, len(models.ImageSlots))

	g, gctx := errgroup.WithContext(ctx)
	for i, slot := range models.ImageSlots {
		header := req.Images[slot]
		if header == nil {
			continue
		}
		i, slot := i, slot
		g.Go(func() error {
			objectPath := fmt.Sprintf("%s/%s-%d%s", req.ListingID, slot, uploadedAt, filepath.Ext(header.Filename))
			stored, err := s.put(gctx, objectPath, header)
			if err != nil {
				return fmt.Errorf("%s: %w", slot, err)
			}
			paths[i] = &stored
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storageError(OpUpload, err)
	}

	media := &models.Media{ListingID: req.ListingID}
	for i, path := range paths {
		media.SetImage(i, path)
	}

	if req.Video != nil {
		logrus.WithFields(logrus.Fields{
			"listing_id": req.ListingID,
			"filename":   req.Video.Filename,
		}).Warn("Video upload received but not stored")
	}

	if err := s.repo.SaveMedia(ctx, media); err != nil {
		return nil, storageError(OpUpload, err)
	}

	return &UploadMediaResult{Media: media, VideoSkipped: req.Video != nil}, nil
}

func (s *MediaService) put(ctx context.Context, objectPath string, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	return s.store.Put(ctx, objectPath, data, contentType)
}
