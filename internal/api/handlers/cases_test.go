package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/casefetch/court-api/internal/models"
	"github.com/casefetch/court-api/internal/store"
)

type fakeCaseService struct {
	searchResp        *models.SearchResponse
	searchErr         error
	lookupResp        *models.CaseSummary
	lookupSuccessOnly bool
	lastQuery         models.SearchQuery
	retried           bool
}

func (f *fakeCaseService) Search(_ context.Context, q models.SearchQuery) (*models.SearchResponse, error) {
	f.lastQuery = q
	return f.searchResp, f.searchErr
}

func (f *fakeCaseService) Retry(_ context.Context, q models.SearchQuery) (*models.SearchResponse, error) {
	f.retried = true
	f.lastQuery = q
	return f.searchResp, f.searchErr
}

func (f *fakeCaseService) GetCase(context.Context, string) (*models.CaseSummary, error) {
	return nil, nil
}

func (f *fakeCaseService) Lookup(_ context.Context, q models.SearchQuery, successfulOnly bool) (*models.CaseSummary, error) {
	f.lastQuery = q
	f.lookupSuccessOnly = successfulOnly
	if f.lookupResp == nil {
		return nil, store.ErrNotFound
	}
	return f.lookupResp, nil
}

func (f *fakeCaseService) History(context.Context, int, int) (*models.HistoryResponse, error) {
	return &models.HistoryResponse{}, nil
}

func (f *fakeCaseService) Stats(context.Context) (*models.StatsResponse, error) {
	return &models.StatsResponse{}, nil
}

func (f *fakeCaseService) DownloadOrder(context.Context, int64) ([]byte, string, error) {
	return nil, "", nil
}

func (f *fakeCaseService) ProbeCaptcha(context.Context) (*models.CaptchaProbe, error) {
	return &models.CaptchaProbe{}, nil
}

func (f *fakeCaseService) Health() map[string]interface{} {
	return map[string]interface{}{"status": "healthy"}
}

func newCaseRouter(svc *fakeCaseService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	h := NewCaseHandler(svc, logger)
	r := gin.New()
	r.POST("/api/v1/cases/search", h.Search)
	r.POST("/api/v1/cases/retry", h.Retry)
	r.GET("/api/v1/cases/lookup/:number", h.Lookup)
	return r
}

func postSearch(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchEndpointSuccess(t *testing.T) {
	svc := &fakeCaseService{searchResp: &models.SearchResponse{
		Success: true,
		CaseID:  "abc",
		Record: &models.CaseRecord{
			Parties: models.Parties{Plaintiff: "JOHN DOE", Defendant: "STATE"},
			Status:  "Active",
		},
		Timestamp: time.Now(),
	}}
	r := newCaseRouter(svc)

	w := postSearch(t, r, "/api/v1/cases/search", models.SearchRequest{
		CaseType:   "W.P.(C)",
		CaseNumber: "1234",
		FilingYear: "2023",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "MISS", w.Header().Get("X-Cache"))
	require.Equal(t, "W.P.(C)", svc.lastQuery.CaseType)
	require.Equal(t, "1234", svc.lastQuery.CaseNumber)
	require.Equal(t, 2023, svc.lastQuery.FilingYear)

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "abc", resp.CaseID)
}

func TestSearchEndpointValidation(t *testing.T) {
	svc := &fakeCaseService{}
	r := newCaseRouter(svc)

	cases := []models.SearchRequest{
		{CaseType: "W.P.(C)", CaseNumber: "not-a-number", FilingYear: "2023"},
		{CaseType: "W.P.(C)", CaseNumber: "1234", FilingYear: "1800"},
		{CaseType: "W.P.(C)", CaseNumber: "1234", FilingYear: "soon"},
	}
	for _, c := range cases {
		w := postSearch(t, r, "/api/v1/cases/search", c)
		require.Equal(t, http.StatusBadRequest, w.Code, c)
	}

	// Missing required field fails binding.
	w := postSearch(t, r, "/api/v1/cases/search", map[string]string{"case_type": "FAO"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpointFailureStatusMapping(t *testing.T) {
	cases := []struct {
		kind   models.ErrorKind
		status int
	}{
		{models.ErrNoRecordFound, http.StatusNotFound},
		{models.ErrNavigationTimeout, http.StatusGatewayTimeout},
		{models.ErrDriverUnavailable, http.StatusServiceUnavailable},
		{models.ErrCaptchaUnsolved, http.StatusBadGateway},
		{models.ErrParseError, http.StatusBadGateway},
	}

	for _, c := range cases {
		svc := &fakeCaseService{searchResp: &models.SearchResponse{
			Success: false,
			CaseID:  "abc",
			Failure: models.NewFailure(c.kind, "failed"),
		}}
		r := newCaseRouter(svc)

		w := postSearch(t, r, "/api/v1/cases/search", models.SearchRequest{
			CaseType:   "W.P.(C)",
			CaseNumber: "1234",
			FilingYear: "2023",
		})
		require.Equal(t, c.status, w.Code, string(c.kind))
	}
}

func TestRetryEndpointBypassesCache(t *testing.T) {
	svc := &fakeCaseService{searchResp: &models.SearchResponse{Success: true, CaseID: "abc"}}
	r := newCaseRouter(svc)

	w := postSearch(t, r, "/api/v1/cases/retry", models.SearchRequest{
		CaseType:   "W.P.(C)",
		CaseNumber: "1234",
		FilingYear: "2023",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, svc.retried)
}

func TestLookupEndpoint(t *testing.T) {
	svc := &fakeCaseService{lookupResp: &models.CaseSummary{
		ID:         "abc",
		CaseType:   "W.P.(C)",
		CaseNumber: "1234",
		FilingYear: 2023,
		Status:     models.CaseStatusSuccess,
	}}
	r := newCaseRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/cases/lookup/1234?case_type=W.P.(C)&filing_year=2023&successful_only=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "1234", svc.lastQuery.CaseNumber)
	require.Equal(t, 2023, svc.lastQuery.FilingYear)
	require.True(t, svc.lookupSuccessOnly)

	var summary models.CaseSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Equal(t, "abc", summary.ID)
}

func TestLookupEndpointNotFound(t *testing.T) {
	r := newCaseRouter(&fakeCaseService{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/cases/lookup/1234?case_type=W.P.(C)&filing_year=2023", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLookupEndpointValidation(t *testing.T) {
	r := newCaseRouter(&fakeCaseService{})

	// Missing case_type.
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/cases/lookup/1234?filing_year=2023", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
