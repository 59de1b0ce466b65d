package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/casefetch/court-api/internal/config"
	"github.com/casefetch/court-api/internal/models"
)

type fakeSession struct {
	navigateErr error
	fillErr     error
	captchaErr  error
	submitErr   error
	html        string
	htmlErr     error

	released  bool
	submitted bool
}

func (f *fakeSession) Navigate(context.Context, string) error { return f.navigateErr }
func (f *fakeSession) FillForm(context.Context, models.SearchQuery) error {
	return f.fillErr
}
func (f *fakeSession) ResolveCaptcha(context.Context) error { return f.captchaErr }
func (f *fakeSession) Submit(context.Context) error {
	f.submitted = true
	return f.submitErr
}
func (f *fakeSession) PageHTML(context.Context) (string, error) { return f.html, f.htmlErr }
func (f *fakeSession) OpenOrdersPage(context.Context) (string, error) {
	return "", models.NewFailure(models.ErrParseError, "no orders page")
}
func (f *fakeSession) ProbeCaptcha(context.Context) (*models.CaptchaProbe, error) {
	return &models.CaptchaProbe{}, nil
}
func (f *fakeSession) Release() { f.released = true }

func testConfig() *config.Config {
	return &config.Config{
		Court: config.CourtConfig{
			BaseURL:     "https://delhihighcourt.nic.in",
			SearchURL:   "https://delhihighcourt.nic.in/app/get-case-type-status",
			MaxRetries:  3,
			RetryDelay:  5 * time.Second,
			SettleDelay: 3 * time.Second,
		},
	}
}

// newTestScraper builds a scraper with fake sessions and a counting sleep.
func newTestScraper(t *testing.T, factory SessionFactory) (*Scraper, *[]time.Duration) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	s, err := New(testConfig(), logger)
	require.NoError(t, err)

	s.newSession = factory
	sleeps := &[]time.Duration{}
	s.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return s, sleeps
}

var testQuery = models.SearchQuery{CaseType: "W.P.(C)", CaseNumber: "1234", FilingYear: 2023}

func TestScrapeRetriesUpToLimit(t *testing.T) {
	attempts := 0
	factory := func(context.Context) (Session, error) {
		attempts++
		return nil, models.NewFailure(models.ErrDriverUnavailable, "chrome did not start")
	}

	s, sleeps := newTestScraper(t, factory)
	result := s.Scrape(context.Background(), testQuery)

	require.NotNil(t, result.Failure)
	require.Equal(t, models.ErrDriverUnavailable, result.Failure.Kind)
	require.Equal(t, 3, attempts)
	// One retry delay between each pair of attempts, none after the last.
	require.Len(t, *sleeps, 2)
	for _, d := range *sleeps {
		require.Equal(t, 5*time.Second, d)
	}
}

func TestScrapeSucceedsFirstAttempt(t *testing.T) {
	sess := &fakeSession{html: resultPage}
	attempts := 0
	factory := func(context.Context) (Session, error) {
		attempts++
		return sess, nil
	}

	s, sleeps := newTestScraper(t, factory)
	result := s.Scrape(context.Background(), testQuery)

	require.Nil(t, result.Failure)
	require.NotNil(t, result.Record)
	require.Equal(t, "JOHN DOE", result.Record.Parties.Plaintiff)
	require.Equal(t, 1, attempts)
	require.True(t, sess.submitted)
	require.True(t, sess.released)
	// Only the settle delay, no retry delays.
	require.Equal(t, []time.Duration{3 * time.Second}, *sleeps)
}

func TestScrapeRecoversAfterTransientFailure(t *testing.T) {
	attempts := 0
	factory := func(context.Context) (Session, error) {
		attempts++
		if attempts == 1 {
			return &fakeSession{navigateErr: models.NewFailure(models.ErrNavigationTimeout, "slow site")}, nil
		}
		return &fakeSession{html: resultPage}, nil
	}

	s, _ := newTestScraper(t, factory)
	result := s.Scrape(context.Background(), testQuery)

	require.NotNil(t, result.Record)
	require.Equal(t, 2, attempts)
}

func TestScrapeNoRecordFoundPassesThrough(t *testing.T) {
	factory := func(context.Context) (Session, error) {
		return &fakeSession{html: `<html><body>No Record Found</body></html>`}, nil
	}

	s, _ := newTestScraper(t, factory)
	result := s.Scrape(context.Background(), testQuery)

	require.NotNil(t, result.Failure)
	require.Equal(t, models.ErrNoRecordFound, result.Failure.Kind)
}

func TestScrapeReleasesSessionOnFailure(t *testing.T) {
	sess := &fakeSession{fillErr: models.NewFailure(models.ErrFormFieldNotFound, "field case_type: no selector strategy matched")}
	factory := func(context.Context) (Session, error) { return sess, nil }

	s, _ := newTestScraper(t, factory)
	result := s.Scrape(context.Background(), testQuery)

	require.NotNil(t, result.Failure)
	require.Equal(t, models.ErrFormFieldNotFound, result.Failure.Kind)
	require.True(t, sess.released)
	require.False(t, sess.submitted)
}

func TestScrapeStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	factory := func(context.Context) (Session, error) {
		attempts++
		cancel()
		return nil, models.NewFailure(models.ErrDriverUnavailable, "chrome did not start")
	}

	s, _ := newTestScraper(t, factory)
	result := s.Scrape(ctx, testQuery)

	require.NotNil(t, result.Failure)
	require.Equal(t, 1, attempts)
}

func TestIsNumericChallenge(t *testing.T) {
	require.True(t, isNumericChallenge("1234"))
	require.True(t, isNumericChallenge("007"))
	require.False(t, isNumericChallenge("12"))
	require.False(t, isNumericChallenge("12a4"))
	require.False(t, isNumericChallenge(""))
}

func TestCaptchaSpanPattern(t *testing.T) {
	m := captchaSpanPattern.FindStringSubmatch(`<div><span id="captcha-code" class="c">4527</span></div>`)
	require.NotNil(t, m)
	require.Equal(t, "4527", m[1])

	require.Nil(t, captchaSpanPattern.FindStringSubmatch(`<span>12</span>`))
	require.Nil(t, captchaSpanPattern.FindStringSubmatch(`<span>abcd</span>`))
}
