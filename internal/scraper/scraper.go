package scraper

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/config"
	"github.com/casefetch/court-api/internal/models"
)

// Scraper orchestrates the full search flow against the court site: acquire a
// fresh browser, navigate, fill the form, resolve the CAPTCHA, submit, and
// parse the rendered results. Each attempt runs in its own browser process.
type Scraper struct {
	cfg    *config.Config
	logger *logrus.Logger
	parser *Parser

	// newSession and sleep are swappable so tests run without Chrome or
	// real delays.
	newSession SessionFactory
	sleep      func(time.Duration)
}

// New wires a scraper from configuration.
func New(cfg *config.Config, logger *logrus.Logger) (*Scraper, error) {
	parser, err := NewParser(cfg.Court.BaseURL, logger)
	if err != nil {
		return nil, err
	}
	s := &Scraper{
		cfg:    cfg,
		logger: logger,
		parser: parser,
		sleep:  time.Sleep,
	}
	s.newSession = func(ctx context.Context) (Session, error) {
		return newChromeSession(ctx, cfg.Browser, cfg.Court.Timeout, logger)
	}
	return s, nil
}

// Scrape runs up to MaxRetries attempts and returns the first success or the
// failure of the final attempt. A definitive "no record" answer on the last
// attempt is returned as-is, not converted into a retry exhaustion error.
func (s *Scraper) Scrape(ctx context.Context, query models.SearchQuery) *models.ExtractionResult {
	maxRetries := s.cfg.Court.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var result *models.ExtractionResult
	for attempt := 1; attempt <= maxRetries; attempt++ {
		log := s.logger.WithFields(logrus.Fields{
			"attempt":     attempt,
			"max_retries": maxRetries,
			"case_type":   query.CaseType,
			"case_number": query.CaseNumber,
			"filing_year": query.FilingYear,
		})
		log.Info("Starting scrape attempt")

		result = s.attempt(ctx, query)
		if result.Succeeded() {
			log.Info("Scrape attempt succeeded")
			return result
		}

		log.WithFields(logrus.Fields{
			"kind":  result.Failure.Kind,
			"error": result.Failure.Message,
		}).Warn("Scrape attempt failed")

		if ctx.Err() != nil {
			break
		}
		if attempt < maxRetries {
			s.sleep(s.cfg.Court.RetryDelay)
		}
	}
	return result
}

// attempt performs one complete search flow in a dedicated browser session.
func (s *Scraper) attempt(ctx context.Context, query models.SearchQuery) *models.ExtractionResult {
	sess, err := s.newSession(ctx)
	if err != nil {
		return models.ExtractionFailure(models.AsFailure(err, models.ErrDriverUnavailable))
	}
	defer sess.Release()

	if err := sess.Navigate(ctx, s.cfg.Court.SearchURL); err != nil {
		return models.ExtractionFailure(models.AsFailure(err, models.ErrNavigationTimeout))
	}
	if err := sess.FillForm(ctx, query); err != nil {
		return models.ExtractionFailure(models.AsFailure(err, models.ErrFormFieldNotFound))
	}
	if err := sess.ResolveCaptcha(ctx); err != nil {
		return models.ExtractionFailure(models.AsFailure(err, models.ErrCaptchaUnsolved))
	}
	if err := sess.Submit(ctx); err != nil {
		return models.ExtractionFailure(models.AsFailure(err, models.ErrSubmitButtonNotFound))
	}

	// The results table is rendered client side after submission.
	s.sleep(s.cfg.Court.SettleDelay)

	markup, err := sess.PageHTML(ctx)
	if err != nil {
		return models.ExtractionFailure(models.AsFailure(err, models.ErrParseError))
	}
	return s.parser.Parse(ctx, markup, sess)
}

// ProbeCaptcha loads the search page and inspects the CAPTCHA widget without
// submitting anything. Used by the diagnostics endpoint.
func (s *Scraper) ProbeCaptcha(ctx context.Context) (*models.CaptchaProbe, error) {
	sess, err := s.newSession(ctx)
	if err != nil {
		return nil, models.AsFailure(err, models.ErrDriverUnavailable)
	}
	defer sess.Release()

	if err := sess.Navigate(ctx, s.cfg.Court.SearchURL); err != nil {
		return nil, models.AsFailure(err, models.ErrNavigationTimeout)
	}
	return sess.ProbeCaptcha(ctx)
}
