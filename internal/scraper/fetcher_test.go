package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/casefetch/court-api/internal/config"
	"github.com/casefetch/court-api/internal/models"
)

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewFetcher(config.DownloadConfig{
		Timeout:   5 * time.Second,
		UserAgent: "test-agent",
	}, logger)
}

func TestFetchPDF(t *testing.T) {
	payload := []byte("%PDF-1.4 fake document body")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	data, err := f.Fetch(context.Background(), srv.URL+"/order.pdf")
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestFetchRejectsNonPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>session expired</body></html>"))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	data, err := f.Fetch(context.Background(), srv.URL+"/order.pdf")
	require.Error(t, err)
	require.Nil(t, data)
	require.Equal(t, models.ErrNotAPdf, models.AsFailure(err, models.ErrDownloadFailed).Kind)
}

func TestFetchAcceptsPDFWithParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf; charset=binary")
		w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	data, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	require.Equal(t, models.ErrDownloadFailed, models.AsFailure(err, models.ErrParseError).Kind)
}

func TestFetchUnreachableHost(t *testing.T) {
	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/missing.pdf")
	require.Error(t, err)
	require.Equal(t, models.ErrDownloadFailed, models.AsFailure(err, models.ErrParseError).Kind)
}
