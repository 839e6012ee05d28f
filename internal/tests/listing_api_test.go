// internal/tests/listing_api_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/listing-intake/internal/config"
	"github.com/javajoker/listing-intake/internal/i18n"
	"github.com/javajoker/listing-intake/internal/metrics"
	"github.com/javajoker/listing-intake/internal/models"
	"github.com/javajoker/listing-intake/internal/repository"
	"github.com/javajoker/listing-intake/internal/router"
)

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, path, data, contentType)
	return args.String(0), args.Error(1)
}

// brokenRepo fails published-listing reads.
type brokenRepo struct {
	*repository.MemoryListingRepository
}

func (r *brokenRepo) ListPublished(ctx context.Context) ([]models.PublishedListing, error) {
	return nil, errors.New("pq: connection refused")
}

type ListingAPITestSuite struct {
	suite.Suite
	cfg    *config.Config
	repo   *repository.MemoryListingRepository
	store  *mockBlobStore
	router *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Database:    config.DatabaseConfig{Driver: "memory"},
		Storage: config.StorageConfig{
			Backend:     "local",
			LocalDir:    "./uploads",
			MaxFileSize: 64,
		},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
			UploadsPerMinute:  1000,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
		I18n: config.I18nConfig{DefaultLocale: "en"},
	}
}

func (suite *ListingAPITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize("en"))
}

func (suite *ListingAPITestSuite) SetupTest() {
	suite.cfg = testConfig()
	suite.repo = repository.NewMemoryListingRepository()
	suite.store = &mockBlobStore{}
	suite.router = router.Initialize(suite.cfg, suite.repo, suite.store, metrics.New())
}

func (suite *ListingAPITestSuite) do(req *http.Request) (int, map[string]interface{}) {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return w.Code, response
}

func (suite *ListingAPITestSuite) postJSON(path string, payload interface{}) (int, map[string]interface{}) {
	jsonData, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	return suite.do(req)
}

func (suite *ListingAPITestSuite) get(path string) (int, map[string]interface{}) {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	return suite.do(req)
}

func (suite *ListingAPITestSuite) createListing() string {
	code, response := suite.get("/create-listing")
	suite.Require().Equal(http.StatusOK, code)
	suite.Require().Equal("success", response["status"])
	suite.Equal(response["listing_id"], response["listingId"])
	return response["listing_id"].(string)
}

func (suite *ListingAPITestSuite) draftStep(id, step string) map[string]interface{} {
	code, response := suite.get("/get-listing/" + id)
	suite.Require().Equal(http.StatusOK, code)
	data := response["data"].(map[string]interface{})
	return data[step].(map[string]interface{})
}

func (suite *ListingAPITestSuite) TestStepRoundTrip() {
	id := suite.createListing()

	code, response := suite.postJSON("/save-step1", map[string]interface{}{
		"listing_id":     id,
		"property_title": "Loft",
		"bedrooms":       2,
		"bathrooms":      "1.5",
	})
	suite.Equal(http.StatusOK, code)
	suite.Equal(map[string]interface{}{"status": "success"}, response)

	step1 := suite.draftStep(id, "step1")
	suite.Equal("Loft", step1["property_title"])
	suite.Equal(2.0, step1["bedrooms"])
	suite.Equal(1.5, step1["bathrooms"])
	suite.Nil(step1["description"])
	suite.Nil(step1["total_area"])
}

func (suite *ListingAPITestSuite) TestFormEncodedStep() {
	id := suite.createListing()

	form := url.Values{"listing_id": {id}, "city": {"Austin"}, "price": {"1200"}}
	req, _ := http.NewRequest(http.MethodPost, "/add-step3", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	code, _ := suite.do(req)
	suite.Equal(http.StatusOK, code)

	step3 := suite.draftStep(id, "step3")
	suite.Equal("Austin", step3["city"])
	suite.Equal(1200.0, step3["price"])
	suite.Nil(step3["area"])
}

func (suite *ListingAPITestSuite) TestUpsertReplacesEveryColumn() {
	id := suite.createListing()

	_, _ = suite.postJSON("/add-step2", map[string]interface{}{"listing_id": id, "wifi": 1, "special_notes": "quiet"})
	suite.Equal(1.0, suite.draftStep(id, "step2")["wifi"])

	_, _ = suite.postJSON("/add-step2", map[string]interface{}{"listing_id": id, "tv": true})
	step2 := suite.draftStep(id, "step2")
	suite.Equal(0.0, step2["wifi"])
	suite.Equal(1.0, step2["tv"])
	suite.Equal("", step2["special_notes"])
}

func (suite *ListingAPITestSuite) TestMissingListingID() {
	for _, path := range []string{"/save-step1", "/add-step2", "/add-step3", "/publish-final"} {
		code, response := suite.postJSON(path, map[string]interface{}{"city": "Austin"})
		suite.Equal(http.StatusBadRequest, code, path)
		suite.Equal("error", response["status"], path)
		suite.Equal("listing_id missing", response["message"], path)
	}

	req, _ := http.NewRequest(http.MethodPost, "/save-step1", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	code, response := suite.do(req)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("listing_id missing", response["message"])
}

func (suite *ListingAPITestSuite) TestMalformedBody() {
	req, _ := http.NewRequest(http.MethodPost, "/save-step1", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	code, response := suite.do(req)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("error", response["status"])
}

func (suite *ListingAPITestSuite) TestPublishDerivesAmenitiesAndIsIdempotent() {
	id := suite.createListing()
	_, _ = suite.postJSON("/save-step1", map[string]interface{}{"listing_id": id, "property_title": "Cabin"})
	_, _ = suite.postJSON("/add-step2", map[string]interface{}{"listing_id": id, "dryer": 1, "ac": "1", "wifi": 1, "tv": 0})
	_, _ = suite.postJSON("/add-step3", map[string]interface{}{"listing_id": id, "city": "Austin", "price": 950})

	code, response := suite.postJSON("/publish-final", map[string]interface{}{"listing_id": id})
	suite.Equal(http.StatusOK, code)
	suite.Equal("success", response["status"])
	suite.Equal("Listing Published Successfully!", response["message"])
	suite.Equal(true, response["published"])

	_, first := suite.get("/get-final-listing/" + id)
	suite.Equal("wifi,ac,dryer", first["data"].(map[string]interface{})["amenities"])

	_, _ = suite.postJSON("/publish-final", map[string]interface{}{"listing_id": id})
	_, second := suite.get("/get-final-listing/" + id)
	suite.Equal(first, second)

	_, all := suite.get("/get-all-listings")
	suite.Len(all["data"], 1)
}

func (suite *ListingAPITestSuite) TestPublishWithoutStep3WritesNothing() {
	id := "1700000000000_42"
	_, _ = suite.postJSON("/save-step1", map[string]interface{}{"listing_id": id})
	_, _ = suite.postJSON("/add-step2", map[string]interface{}{"listing_id": id})
	suite.Require().NoError(suite.repo.SaveMedia(context.Background(), &models.Media{ListingID: id}))

	code, response := suite.postJSON("/publish-final", map[string]interface{}{"listing_id": id})
	suite.Equal(http.StatusOK, code)
	suite.Equal("success", response["status"])
	suite.Equal(false, response["published"])

	code, response = suite.get("/get-final-listing/" + id)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("Listing not found", response["message"])
}

func (suite *ListingAPITestSuite) TestSearch() {
	for _, city := range []string{"Austin", "Boston", "North Austin"} {
		id := suite.createListing()
		_, _ = suite.postJSON("/add-step3", map[string]interface{}{"listing_id": id, "city": city})
		_, _ = suite.postJSON("/publish-final", map[string]interface{}{"listing_id": id})
	}

	code, response := suite.get("/search?q=Austin")
	suite.Equal(http.StatusOK, code)
	results := response["data"].([]interface{})
	suite.Len(results, 2)
	for _, r := range results {
		suite.Contains(r.(map[string]interface{})["city"], "Austin")
	}

	_, response = suite.get("/search")
	suite.Len(response["data"], 3)

	_, response = suite.get("/search?q=Denver")
	suite.Equal([]interface{}{}, response["data"])

	// LIKE wildcards in the query
	_, response = suite.get("/search?q=A_stin")
	suite.Len(response["data"], 2)
	_, response = suite.get("/search?q=%25")
	suite.Len(response["data"], 3)
}

func (suite *ListingAPITestSuite) TestLatestListing() {
	code, response := suite.get("/get-latest-listing")
	suite.Equal(http.StatusOK, code)
	suite.Equal("error", response["status"])
	suite.Equal("No listings found", response["message"])

	id := suite.createListing()
	_, _ = suite.postJSON("/publish-final", map[string]interface{}{"listing_id": id})

	_, response = suite.get("/get-latest-listing")
	suite.Equal("success", response["status"])
	suite.Equal(id, response["listing_id"])
	data := response["data"].(map[string]interface{})
	suite.Contains(data, "step1")
	suite.Contains(data, "media")
}

func (suite *ListingAPITestSuite) TestDraftForUnknownListing() {
	code, response := suite.get("/get-listing/nope")
	suite.Equal(http.StatusOK, code)
	suite.Equal(map[string]interface{}{
		"step1": map[string]interface{}{},
		"step2": map[string]interface{}{},
		"step3": map[string]interface{}{},
		"media": map[string]interface{}{},
	}, response["data"])
}

func multipartBody(fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	for field, data := range files {
		part, _ := w.CreateFormFile(field, field+".png")
		_, _ = part.Write(data)
	}
	_ = w.Close()
	return body, w.FormDataContentType()
}

func (suite *ListingAPITestSuite) upload(fields map[string]string, files map[string][]byte) (int, map[string]interface{}) {
	body, contentType := multipartBody(fields, files)
	req, _ := http.NewRequest(http.MethodPost, "/upload-media", body)
	req.Header.Set("Content-Type", contentType)
	return suite.do(req)
}

func (suite *ListingAPITestSuite) TestUploadMedia() {
	id := suite.createListing()
	suite.store.On("Put", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, id+"/image2-") && strings.HasSuffix(p, ".png")
	}), []byte("png-bytes"), "application/octet-stream").Return(id+"/image2.png", nil).Once()

	code, response := suite.upload(
		map[string]string{"listing_id": id},
		map[string][]byte{"image2": []byte("png-bytes"), "video": []byte("mp4")},
	)
	suite.Equal(http.StatusOK, code)
	suite.Equal("Media saved successfully!", response["message"])
	suite.Equal("not_implemented", response["video"])
	suite.store.AssertExpectations(suite.T())

	media := suite.draftStep(id, "media")
	suite.Equal(id+"/image2.png", media["image2"])
	suite.Nil(media["image1"])
	suite.Nil(media["video"])
}

func (suite *ListingAPITestSuite) TestUploadErrors() {
	code, response := suite.upload(map[string]string{}, map[string][]byte{"image1": []byte("x")})
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("listing_id missing", response["message"])

	code, response = suite.upload(
		map[string]string{"listing_id": "L1"},
		map[string][]byte{"image1": bytes.Repeat([]byte("x"), 100)},
	)
	suite.Equal(http.StatusBadRequest, code)
	suite.True(strings.HasPrefix(response["message"].(string), "File upload failed: "))

	suite.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket missing")).Once()
	code, response = suite.upload(
		map[string]string{"listing_id": "L1"},
		map[string][]byte{"image1": []byte("x")},
	)
	suite.Equal(http.StatusInternalServerError, code)
	suite.Equal("Internal Server Error", response["message"])
}

func (suite *ListingAPITestSuite) TestStorageErrorIsGeneric() {
	r := router.Initialize(suite.cfg, &brokenRepo{suite.repo}, suite.store, metrics.New())
	req, _ := http.NewRequest(http.MethodGet, "/get-all-listings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection refused")
	suite.Contains(w.Body.String(), `"status":"error"`)
}

func (suite *ListingAPITestSuite) TestHealthAndMetrics() {
	code, response := suite.get("/health")
	suite.Equal(http.StatusOK, code)
	suite.Equal("healthy", response["status"])

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "listing_intake_http_requests_total")
}

func TestListingAPISuite(t *testing.T) {
	suite.Run(t, new(ListingAPITestSuite))
}
