package scraper

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/config"
	"github.com/casefetch/court-api/internal/models"
)

// Session is one live automated-browser session. A session is owned by a
// single attempt: it is created at the start of the attempt, never shared,
// and released on every exit path.
type Session interface {
	Navigate(ctx context.Context, url string) error
	FillForm(ctx context.Context, query models.SearchQuery) error
	ResolveCaptcha(ctx context.Context) error
	Submit(ctx context.Context) error
	PageHTML(ctx context.Context) (string, error)
	OpenOrdersPage(ctx context.Context) (string, error)
	ProbeCaptcha(ctx context.Context) (*models.CaptchaProbe, error)
	Release()
}

// SessionFactory creates a fresh session for one attempt.
type SessionFactory func(ctx context.Context) (Session, error)

// chromeSession drives a dedicated headless Chrome process via chromedp.
type chromeSession struct {
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  *logrus.Logger
	release sync.Once
}

// newChromeSession spawns an isolated browser process. The caller context is
// the root of the browser context, so closing the HTTP request tears the
// process down with it.
func newChromeSession(ctx context.Context, cfg config.BrowserConfig, timeout time.Duration, logger *logrus.Logger) (Session, error) {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.UserAgent(cfg.UserAgent),
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	s := &chromeSession{
		id:      fmt.Sprintf("session-%d", time.Now().UnixNano()),
		ctx:     browserCtx,
		cancel:  func() { cancelCtx(); cancelAlloc() },
		timeout: timeout,
		logger:  logger,
	}

	// Launch check: a browser that cannot reach about:blank is unusable.
	probeCtx, cancel := context.WithTimeout(browserCtx, 15*time.Second)
	defer cancel()
	if err := chromedp.Run(probeCtx,
		chromedp.Navigate("about:blank"),
		chromedp.Evaluate(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined}); true`, nil),
	); err != nil {
		s.Release()
		return nil, models.NewFailure(models.ErrDriverUnavailable, "browser launch failed: %v", err)
	}

	logger.WithField("session_id", s.id).Debug("Browser session created")
	return s, nil
}

// run executes chromedp actions under the step timeout.
func (s *chromeSession) run(actions ...chromedp.Action) error {
	tctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	return chromedp.Run(tctx, actions...)
}

// evalBool runs a snippet that reports whether it acted on an element.
func (s *chromeSession) evalBool(js string) (bool, error) {
	var ok bool
	if err := s.run(chromedp.Evaluate(js, &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

// Navigate loads the URL and waits for the document body plus a settle delay
// for dynamically rendered content.
func (s *chromeSession) Navigate(_ context.Context, url string) error {
	if err := s.run(
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		return models.NewFailure(models.ErrNavigationTimeout, "navigation to %s failed: %v", url, err)
	}
	return nil
}

// PageHTML returns the full page markup.
func (s *chromeSession) PageHTML(_ context.Context) (string, error) {
	var html string
	if err := s.run(chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("read page markup: %w", err)
	}
	return html, nil
}

func (s *chromeSession) pageTitle() string {
	var title string
	if err := s.run(chromedp.Title(&title)); err != nil {
		return ""
	}
	return strings.TrimSpace(title)
}

// collectTexts returns the trimmed text of every element matching sel.
func (s *chromeSession) collectTexts(sel string) ([]string, error) {
	var texts []string
	if err := s.run(chromedp.Evaluate(collectTextsJS(sel), &texts)); err != nil {
		return nil, err
	}
	return texts, nil
}

// countMatches reports how many elements match sel.
func (s *chromeSession) countMatches(sel string) (int, error) {
	var count int
	if err := s.run(chromedp.Evaluate(fmt.Sprintf(`document.querySelectorAll(%q).length`, sel), &count)); err != nil {
		return 0, err
	}
	return count, nil
}

// Submit locates the submit control through the ranked strategies and fires a
// programmatic click. The site gates native clicks, so the click is always
// dispatched from script after scrolling the element into view.
func (s *chromeSession) Submit(_ context.Context) error {
	for _, c := range submitCandidates {
		ok, err := s.evalBool(c.js)
		if err != nil {
			s.logger.WithField("strategy", c.desc).WithError(err).Debug("Submit strategy errored")
			continue
		}
		if ok {
			s.logger.WithField("strategy", c.desc).Debug("Form submitted")
			return nil
		}
	}
	return models.NewFailure(models.ErrSubmitButtonNotFound, "no submit button matched any strategy")
}

// OpenOrdersPage follows the Orders link from a result row and returns the
// markup of the orders listing once its table has rendered.
func (s *chromeSession) OpenOrdersPage(ctx context.Context) (string, error) {
	clicked := false
	for _, c := range ordersLinkCandidates {
		ok, err := s.evalBool(c.js)
		if err != nil {
			continue
		}
		if ok {
			s.logger.WithField("strategy", c.desc).Debug("Followed orders link")
			clicked = true
			break
		}
	}
	if !clicked {
		return "", fmt.Errorf("no orders link matched any strategy")
	}

	waitCtx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()
	if err := chromedp.Run(waitCtx, chromedp.WaitReady("table")); err != nil {
		return "", fmt.Errorf("orders table did not render: %w", err)
	}
	return s.PageHTML(ctx)
}

// Release tears down the browser process. Idempotent: safe to call from a
// defer and again from an explicit cleanup path.
func (s *chromeSession) Release() {
	s.release.Do(func() {
		s.cancel()
		s.logger.WithField("session_id", s.id).Debug("Browser session released")
	})
}
