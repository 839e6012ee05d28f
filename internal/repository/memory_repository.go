// internal/repository/memory_repository.go
package repository

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/javajoker/listing-intake/internal/models"
)

// MemoryListingRepository keeps everything in process memory. It backs local
// development (DB_DRIVER=memory) and the handler tests.
type MemoryListingRepository struct {
	mu        sync.RWMutex
	step1     map[string]models.BasicInfo
	step2     map[string]models.Amenities
	step3     map[string]models.Location
	media     map[string]models.Media
	published map[string]models.PublishedListing
	nextID    uint
	now       func() time.Time
}

func NewMemoryListingRepository() *MemoryListingRepository {
	return &MemoryListingRepository{
		step1:     make(map[string]models.BasicInfo),
		step2:     make(map[string]models.Amenities),
		step3:     make(map[string]models.Location),
		media:     make(map[string]models.Media),
		published: make(map[string]models.PublishedListing),
		now:       time.Now,
	}
}

func (r *MemoryListingRepository) CreateDraft(ctx context.Context, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.step1[listingID]; !ok {
		r.step1[listingID] = models.BasicInfo{ListingID: listingID}
	}
	if _, ok := r.step2[listingID]; !ok {
		r.step2[listingID] = models.Amenities{ListingID: listingID}
	}
	if _, ok := r.step3[listingID]; !ok {
		r.step3[listingID] = models.Location{ListingID: listingID}
	}
	if _, ok := r.media[listingID]; !ok {
		r.media[listingID] = models.Media{ListingID: listingID}
	}
	return ctx.Err()
}

func (r *MemoryListingRepository) SaveBasicInfo(ctx context.Context, info *models.BasicInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.step1[info.ListingID] = *info
	return ctx.Err()
}

func (r *MemoryListingRepository) SaveAmenities(ctx context.Context, amenities *models.Amenities) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.step2[amenities.ListingID] = *amenities
	return ctx.Err()
}

func (r *MemoryListingRepository) SaveLocation(ctx context.Context, location *models.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.step3[location.ListingID] = *location
	return ctx.Err()
}

func (r *MemoryListingRepository) SaveMedia(ctx context.Context, media *models.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.media[media.ListingID] = *media
	return ctx.Err()
}

func (r *MemoryListingRepository) FindBasicInfo(ctx context.Context, listingID string) (*models.BasicInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.step1[listingID]
	if !ok {
		return nil, ErrNotFound
	}
	return &info, nil
}

func (r *MemoryListingRepository) FindAmenities(ctx context.Context, listingID string) (*models.Amenities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	amenities, ok := r.step2[listingID]
	if !ok {
		return nil, ErrNotFound
	}
	return &amenities, nil
}

func (r *MemoryListingRepository) FindLocation(ctx context.Context, listingID string) (*models.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	location, ok := r.step3[listingID]
	if !ok {
		return nil, ErrNotFound
	}
	return &location, nil
}

func (r *MemoryListingRepository) FindMedia(ctx context.Context, listingID string) (*models.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	media, ok := r.media[listingID]
	if !ok {
		return nil, ErrNotFound
	}
	return &media, nil
}

func (r *MemoryListingRepository) Publish(ctx context.Context, listingID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// Inner join: every draft row must exist.
	b, ok1 := r.step1[listingID]
	a, ok2 := r.step2[listingID]
	l, ok3 := r.step3[listingID]
	m, ok4 := r.media[listingID]
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, nil
	}

	snapshot := models.Snapshot(&b, &a, &l, &m)
	if existing, ok := r.published[listingID]; ok {
		snapshot.ID = existing.ID
		snapshot.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		snapshot.ID = r.nextID
		snapshot.CreatedAt = r.now()
	}
	r.published[listingID] = snapshot
	return 1, nil
}

func (r *MemoryListingRepository) ListPublished(ctx context.Context) ([]models.PublishedListing, error) {
	return r.filterPublished(ctx, func(models.PublishedListing) bool { return true })
}

func (r *MemoryListingRepository) FindPublished(ctx context.Context, listingID string) (*models.PublishedListing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.published[listingID]
	if !ok {
		return nil, ErrNotFound
	}
	return &listing, nil
}

func (r *MemoryListingRepository) LatestPublished(ctx context.Context) (*models.PublishedListing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.PublishedListing
	for _, listing := range r.published {
		listing := listing
		if latest == nil ||
			listing.CreatedAt.After(latest.CreatedAt) ||
			(listing.CreatedAt.Equal(latest.CreatedAt) && listing.ID > latest.ID) {
			latest = &listing
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

// SearchPublished follows LIKE semantics: a NULL column never matches, even
// for an empty query, and % and _ in the query act as wildcards.
func (r *MemoryListingRepository) SearchPublished(ctx context.Context, query string) ([]models.PublishedListing, error) {
	pattern := likePattern(query)
	matches := func(s *string) bool {
		return s != nil && pattern.MatchString(*s)
	}
	return r.filterPublished(ctx, func(l models.PublishedListing) bool {
		return matches(l.City) || matches(l.Area) || (l.Price.Valid && pattern.MatchString(l.Price.String()))
	})
}

// likePattern compiles '%' || query || '%' the way Postgres LIKE reads it:
// % is any run of characters, _ is one character, a backslash escapes the
// next character.
func likePattern(query string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?s)^.*`)
	escaped := false
	for _, c := range query {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(c)))
			escaped = false
		case c == '\\':
			escaped = true
		case c == '%':
			b.WriteString(`.*`)
		case c == '_':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	if escaped {
		b.WriteString(regexp.QuoteMeta(`\`))
	}
	b.WriteString(`.*$`)
	return regexp.MustCompile(b.String())
}

func (r *MemoryListingRepository) filterPublished(ctx context.Context, keep func(models.PublishedListing) bool) ([]models.PublishedListing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := []models.PublishedListing{}
	for _, listing := range r.published {
		if keep(listing) {
			listings = append(listings, listing)
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID > listings[j].ID })
	return listings, ctx.Err()
}
