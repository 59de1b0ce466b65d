package scraper

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/config"
	"github.com/casefetch/court-api/internal/models"
)

// Fetcher downloads order PDFs over plain HTTP. The court serves documents
// from the same host as the search pages, so the session browser is not
// involved.
type Fetcher struct {
	client *resty.Client
	logger *logrus.Logger
}

// NewFetcher builds a fetcher from the download configuration.
func NewFetcher(cfg config.DownloadConfig, logger *logrus.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return &Fetcher{client: client, logger: logger}
}

// Fetch downloads the document at url and returns its bytes. Responses whose
// Content-Type is not a PDF are rejected without returning any payload; the
// court occasionally answers document links with an HTML error page.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, models.NewFailure(models.ErrDownloadFailed, "download %s: %v", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, models.NewFailure(models.ErrDownloadFailed, "download %s: status %d", url, resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "application/pdf") {
		f.logger.WithFields(logrus.Fields{
			"url":          url,
			"content_type": contentType,
		}).Warn("Document link did not serve a PDF")
		return nil, models.NewFailure(models.ErrNotAPdf, "expected application/pdf, got %q", contentType)
	}

	f.logger.WithFields(logrus.Fields{
		"url":   url,
		"bytes": len(resp.Body()),
	}).Debug("Document downloaded")
	return resp.Body(), nil
}
