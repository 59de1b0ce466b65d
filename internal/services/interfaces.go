package services

import (
	"context"

	"github.com/casefetch/court-api/internal/models"
)

// CaseServiceInterface defines the interface for the case search service
type CaseServiceInterface interface {
	// Search runs (or serves from cache) a case-status search
	Search(ctx context.Context, query models.SearchQuery) (*models.SearchResponse, error)

	// Retry forces a fresh search, bypassing cache and stored results
	Retry(ctx context.Context, query models.SearchQuery) (*models.SearchResponse, error)

	// GetCase returns one stored search by its ID
	GetCase(ctx context.Context, id string) (*models.CaseSummary, error)

	// Lookup returns the most recent recorded search for a case identity,
	// optionally restricted to successful attempts
	Lookup(ctx context.Context, query models.SearchQuery, successfulOnly bool) (*models.CaseSummary, error)

	// History returns a page of past searches
	History(ctx context.Context, page, perPage int) (*models.HistoryResponse, error)

	// Stats summarises the search history
	Stats(ctx context.Context) (*models.StatsResponse, error)

	// DownloadOrder returns the PDF bytes for a stored order link
	DownloadOrder(ctx context.Context, orderID int64) ([]byte, string, error)

	// ProbeCaptcha inspects the live search page's challenge widget
	ProbeCaptcha(ctx context.Context) (*models.CaptchaProbe, error)

	// Health returns service health status
	Health() map[string]interface{}
}

// CaseScraper drives a live browser search against the court site
type CaseScraper interface {
	// Scrape runs the full search flow with bounded retries
	Scrape(ctx context.Context, query models.SearchQuery) *models.ExtractionResult

	// ProbeCaptcha inspects the search page challenge without submitting
	ProbeCaptcha(ctx context.Context) (*models.CaptchaProbe, error)
}

// DocumentFetcher downloads order PDFs
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CacheServiceInterface defines the interface for cache service
type CacheServiceInterface interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value string) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear clears all cache entries
	Clear(ctx context.Context) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// GetStats returns cache statistics
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Health returns cache service health status
	Health() map[string]interface{}
}
