package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/casefetch/court-api/internal/config"
	"github.com/casefetch/court-api/internal/models"
	"github.com/casefetch/court-api/internal/scraper"
	"github.com/casefetch/court-api/internal/store"
)

type fakeScraper struct {
	result *models.ExtractionResult
	probe  *models.CaptchaProbe
	calls  int
}

func (f *fakeScraper) Scrape(context.Context, models.SearchQuery) *models.ExtractionResult {
	f.calls++
	return f.result
}

func (f *fakeScraper) ProbeCaptcha(context.Context) (*models.CaptchaProbe, error) {
	return f.probe, nil
}

func setup(t *testing.T, sc CaseScraper, fetcher DocumentFetcher) *CaseService {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	st, err := store.Open(":memory:", 10*time.Second, logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{
		Court:    config.CourtConfig{CacheTTL: time.Hour},
		Download: config.DownloadConfig{Dir: t.TempDir(), Timeout: 5 * time.Second},
	}
	cache := NewCacheService(nil, cfg.Court.CacheTTL, logger)
	return NewCaseService(cfg, cache, st, sc, fetcher, logger)
}

var query = models.SearchQuery{CaseType: "W.P.(C)", CaseNumber: "1234", FilingYear: 2023}

func successResult() *models.ExtractionResult {
	return models.ExtractionSuccess(&models.CaseRecord{
		Parties:    models.Parties{Plaintiff: "JOHN DOE", Defendant: "STATE OF DELHI"},
		FilingDate: "2023-03-15",
		Status:     "Active",
		Orders: []models.OrderLink{
			{Date: "2023-03-15", Label: "Order", URL: "https://delhihighcourt.nic.in/orders/one.pdf"},
		},
	})
}

func TestSearchPersistsAndCaches(t *testing.T) {
	sc := &fakeScraper{result: successResult()}
	svc := setup(t, sc, nil)
	ctx := context.Background()

	resp, err := svc.Search(ctx, query)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.False(t, resp.Cached)
	require.NotEmpty(t, resp.CaseID)
	require.Equal(t, "JOHN DOE", resp.Record.Parties.Plaintiff)

	stored, err := svc.GetCase(ctx, resp.CaseID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStatusSuccess, stored.Status)
	require.Len(t, stored.Orders, 1)

	// Second search is served from cache, no new scrape.
	again, err := svc.Search(ctx, query)
	require.NoError(t, err)
	require.True(t, again.Cached)
	require.Equal(t, resp.CaseID, again.CaseID)
	require.Equal(t, 1, sc.calls)
}

func TestSearchFailureIsRecorded(t *testing.T) {
	sc := &fakeScraper{result: models.ExtractionFailure(
		models.NewFailure(models.ErrNoRecordFound, "court reports no record"))}
	svc := setup(t, sc, nil)
	ctx := context.Background()

	resp, err := svc.Search(ctx, query)
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, models.ErrNoRecordFound, resp.Failure.Kind)

	stored, err := svc.GetCase(ctx, resp.CaseID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStatusFailed, stored.Status)
}

func TestFailuresAreNotCached(t *testing.T) {
	sc := &fakeScraper{result: models.ExtractionFailure(
		models.NewFailure(models.ErrNavigationTimeout, "slow site"))}
	svc := setup(t, sc, nil)
	ctx := context.Background()

	_, err := svc.Search(ctx, query)
	require.NoError(t, err)
	_, err = svc.Search(ctx, query)
	require.NoError(t, err)
	require.Equal(t, 2, sc.calls)
}

func TestRetryBypassesCache(t *testing.T) {
	sc := &fakeScraper{result: successResult()}
	svc := setup(t, sc, nil)
	ctx := context.Background()

	_, err := svc.Search(ctx, query)
	require.NoError(t, err)

	resp, err := svc.Retry(ctx, query)
	require.NoError(t, err)
	require.False(t, resp.Cached)
	require.Equal(t, 2, sc.calls)
}

func TestLookupReturnsLatestAttempt(t *testing.T) {
	sc := &fakeScraper{result: models.ExtractionFailure(
		models.NewFailure(models.ErrCaptchaUnsolved, "challenge changed"))}
	svc := setup(t, sc, nil)
	ctx := context.Background()

	_, err := svc.Lookup(ctx, query, false)
	require.ErrorIs(t, err, store.ErrNotFound)

	// A successful search followed by a failed retry.
	sc.result = successResult()
	_, err = svc.Search(ctx, query)
	require.NoError(t, err)
	sc.result = models.ExtractionFailure(
		models.NewFailure(models.ErrNavigationTimeout, "slow site"))
	_, err = svc.Retry(ctx, query)
	require.NoError(t, err)

	latest, err := svc.Lookup(ctx, query, false)
	require.NoError(t, err)
	require.Equal(t, models.CaseStatusFailed, latest.Status)

	successful, err := svc.Lookup(ctx, query, true)
	require.NoError(t, err)
	require.Equal(t, models.CaseStatusSuccess, successful.Status)
	require.NotNil(t, successful.Details)
}

func TestHistoryAndStats(t *testing.T) {
	sc := &fakeScraper{result: successResult()}
	svc := setup(t, sc, nil)
	ctx := context.Background()

	_, err := svc.Retry(ctx, query)
	require.NoError(t, err)
	_, err = svc.Retry(ctx, models.SearchQuery{CaseType: "FAO", CaseNumber: "99", FilingYear: 2020})
	require.NoError(t, err)

	history, err := svc.History(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 2, history.Total)
	require.Len(t, history.Cases, 2)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalSearches)
	require.Equal(t, 2, stats.SuccessfulSearches)
	require.Equal(t, 0, stats.FailedSearches)
}

func TestDownloadOrderSavesLocalCopy(t *testing.T) {
	payload := []byte("%PDF-1.4 order")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))
	defer srv.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	fetcher := scraper.NewFetcher(config.DownloadConfig{
		Timeout:   5 * time.Second,
		UserAgent: "test-agent",
	}, logger)

	result := successResult()
	result.Record.Orders[0].URL = srv.URL + "/order.pdf"
	sc := &fakeScraper{result: result}
	svc := setup(t, sc, fetcher)
	ctx := context.Background()

	resp, err := svc.Search(ctx, query)
	require.NoError(t, err)

	stored, err := svc.GetCase(ctx, resp.CaseID)
	require.NoError(t, err)
	require.Len(t, stored.Orders, 1)

	data, filename, err := svc.DownloadOrder(ctx, stored.Orders[0].ID)
	require.NoError(t, err)
	require.Equal(t, payload, data)
	require.NotEmpty(t, filename)

	// The PDF is now on disk and served from there.
	local := filepath.Join(svc.cfg.Download.Dir, filename)
	onDisk, err := os.ReadFile(local)
	require.NoError(t, err)
	require.Equal(t, payload, onDisk)

	srv.Close()
	data, _, err = svc.DownloadOrder(ctx, stored.Orders[0].ID)
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestDownloadOrderNotFound(t *testing.T) {
	svc := setup(t, &fakeScraper{}, nil)

	_, _, err := svc.DownloadOrder(context.Background(), 42)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestProbeCaptchaDelegates(t *testing.T) {
	sc := &fakeScraper{probe: &models.CaptchaProbe{ChallengeFound: true, Challenge: "4527"}}
	svc := setup(t, sc, nil)

	probe, err := svc.ProbeCaptcha(context.Background())
	require.NoError(t, err)
	require.True(t, probe.ChallengeFound)
	require.Equal(t, "4527", probe.Challenge)
}

func TestCacheKeyFormat(t *testing.T) {
	require.Equal(t, "case:W.P.(C):1234:2023", CacheKey(query))
}
