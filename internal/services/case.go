package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/config"
	"github.com/casefetch/court-api/internal/models"
	"github.com/casefetch/court-api/internal/store"
	"github.com/casefetch/court-api/internal/utils"
)

// CaseService coordinates one case-status search end to end: serve from
// cache, fall back to stored results, or drive a live browser search and
// persist what comes back.
type CaseService struct {
	cfg     *config.Config
	cache   CacheServiceInterface
	store   *store.Store
	scraper CaseScraper
	fetcher DocumentFetcher
	logger  *logrus.Logger
}

// cachedResult is the JSON payload stored under a cache key.
type cachedResult struct {
	CaseID string             `json:"case_id"`
	Record *models.CaseRecord `json:"record"`
}

// NewCaseService creates a new case service
func NewCaseService(cfg *config.Config, cache CacheServiceInterface, st *store.Store, sc CaseScraper, fetcher DocumentFetcher, logger *logrus.Logger) *CaseService {
	return &CaseService{
		cfg:     cfg,
		cache:   cache,
		store:   st,
		scraper: sc,
		fetcher: fetcher,
		logger:  logger,
	}
}

// CacheKey builds the cache key for a search query.
func CacheKey(q models.SearchQuery) string {
	return fmt.Sprintf("case:%s:%s:%d", q.CaseType, q.CaseNumber, q.FilingYear)
}

// Search serves a case-status query, preferring the cache over a live browser
// session. Cache misses fall through to a fresh scrape.
func (s *CaseService) Search(ctx context.Context, query models.SearchQuery) (*models.SearchResponse, error) {
	start := time.Now()

	if raw, err := s.cache.Get(ctx, CacheKey(query)); err == nil {
		var cached cachedResult
		if err := json.Unmarshal([]byte(raw), &cached); err == nil && cached.Record != nil {
			s.logger.WithFields(logrus.Fields{
				"case_type":   query.CaseType,
				"case_number": query.CaseNumber,
				"filing_year": query.FilingYear,
			}).Info("Search served from cache")
			return &models.SearchResponse{
				Success:    true,
				CaseID:     cached.CaseID,
				Cached:     true,
				Record:     cached.Record,
				DurationMs: time.Since(start).Milliseconds(),
				Timestamp:  time.Now().UTC(),
			}, nil
		}
		// Corrupt entries are dropped, not served.
		_ = s.cache.Delete(ctx, CacheKey(query))
	}

	return s.liveSearch(ctx, query, start)
}

// Retry forces a fresh scrape for a query, bypassing the cache. The cache
// entry is replaced when the retry succeeds.
func (s *CaseService) Retry(ctx context.Context, query models.SearchQuery) (*models.SearchResponse, error) {
	_ = s.cache.Delete(ctx, CacheKey(query))
	return s.liveSearch(ctx, query, time.Now())
}

// liveSearch records the attempt, runs the scraper and persists the outcome.
// Persistence problems after a successful scrape are logged but never turn
// the response into a failure.
func (s *CaseService) liveSearch(ctx context.Context, query models.SearchQuery, start time.Time) (*models.SearchResponse, error) {
	caseID, err := s.store.CreateCase(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("record search: %w", err)
	}

	result := s.scraper.Scrape(ctx, query)

	resp := &models.SearchResponse{
		CaseID:     caseID,
		DurationMs: time.Since(start).Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}

	if !result.Succeeded() {
		resp.Failure = result.Failure
		if err := s.store.MarkFailed(ctx, caseID, result.Failure); err != nil {
			s.logger.WithError(err).Error("Failed to persist failed search")
		}
		return resp, nil
	}

	resp.Success = true
	resp.Record = result.Record

	if err := s.store.MarkSuccess(ctx, caseID, result.Record); err != nil {
		s.logger.WithError(err).Error("Failed to persist successful search")
	}
	if payload, err := json.Marshal(cachedResult{CaseID: caseID, Record: result.Record}); err == nil {
		if err := s.cache.Set(ctx, CacheKey(query), string(payload)); err != nil {
			s.logger.WithError(err).Warn("Failed to cache search result")
		}
	}
	return resp, nil
}

// GetCase returns one stored search by its ID.
func (s *CaseService) GetCase(ctx context.Context, id string) (*models.CaseSummary, error) {
	return s.store.GetCase(ctx, id)
}

// Lookup returns the most recent recorded search for a case identity.
// With successfulOnly set, failed and pending attempts are skipped.
func (s *CaseService) Lookup(ctx context.Context, query models.SearchQuery, successfulOnly bool) (*models.CaseSummary, error) {
	if successfulOnly {
		return s.store.FindSuccessful(ctx, query)
	}
	return s.store.LatestByNumber(ctx, query)
}

// History returns a page of past searches, newest first.
func (s *CaseService) History(ctx context.Context, page, perPage int) (*models.HistoryResponse, error) {
	cases, total, err := s.store.ListCases(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	return &models.HistoryResponse{
		Cases:   cases,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// Stats summarises the search history.
func (s *CaseService) Stats(ctx context.Context) (*models.StatsResponse, error) {
	counts, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return &models.StatsResponse{
		TotalSearches:      total,
		SuccessfulSearches: counts[models.CaseStatusSuccess],
		FailedSearches:     counts[models.CaseStatusFailed],
	}, nil
}

// DownloadOrder returns the PDF bytes for a stored order link, preferring a
// previously saved local copy. Fresh downloads are written to the download
// directory so repeat requests stay off the court site.
func (s *CaseService) DownloadOrder(ctx context.Context, orderID int64) ([]byte, string, error) {
	order, err := s.store.Order(ctx, orderID)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_order_%d.pdf", utils.SanitizeFilename(order.CaseID), order.ID)

	if order.LocalPath != "" {
		if data, err := os.ReadFile(order.LocalPath); err == nil {
			s.logger.WithField("path", order.LocalPath).Debug("Order served from disk")
			return data, filename, nil
		}
		// The file went missing; fall through to a fresh download.
	}

	data, err := s.fetcher.Fetch(ctx, order.PDFURL)
	if err != nil {
		return nil, "", err
	}

	if err := os.MkdirAll(s.cfg.Download.Dir, 0o755); err == nil {
		path := filepath.Join(s.cfg.Download.Dir, filename)
		if err := os.WriteFile(path, data, 0o644); err == nil {
			if err := s.store.SetOrderLocalPath(ctx, order.ID, path); err != nil {
				s.logger.WithError(err).Warn("Failed to record local PDF path")
			}
		} else {
			s.logger.WithError(err).Warn("Failed to save PDF locally")
		}
	}

	return data, filename, nil
}

// ProbeCaptcha inspects the live search page's challenge widget.
func (s *CaseService) ProbeCaptcha(ctx context.Context) (*models.CaptchaProbe, error) {
	return s.scraper.ProbeCaptcha(ctx)
}

// Health returns service health status
func (s *CaseService) Health() map[string]interface{} {
	health := map[string]interface{}{
		"status": "healthy",
	}
	if _, err := s.store.Stats(context.Background()); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
	}
	return health
}
