package scraper

import (
	"context"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/models"
)

// The court site renders its challenge as plain numeric text and accepts that
// same text as the answer. This echo-back assumption is a quirk of the target
// deployment, not a general technique; if the site ever switches to image or
// distorted challenges, detection here stops working and attempts fail with
// ErrCaptchaUnsolved.

var captchaSpanPattern = regexp.MustCompile(`<span[^>]*>(\d{3,6})</span>`)

const minChallengeLen = 3

func isNumericChallenge(text string) bool {
	if len(text) < minChallengeLen {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// detectChallenge scans the ranked structural locations for numeric challenge
// text, then falls back to a raw-markup regex scan. Returns empty strings when
// the page presents no challenge.
func (s *chromeSession) detectChallenge(ctx context.Context) (challenge, strategy string) {
	for _, c := range captchaTextCandidates {
		texts, err := s.collectTexts(c.sel)
		if err != nil {
			s.logger.WithField("strategy", c.desc).WithError(err).Debug("Captcha strategy errored")
			continue
		}
		for _, text := range texts {
			if isNumericChallenge(text) {
				return text, c.desc
			}
		}
	}

	// Last resort: short numeric span anywhere in the raw markup.
	html, err := s.PageHTML(ctx)
	if err != nil {
		return "", ""
	}
	if m := captchaSpanPattern.FindStringSubmatch(html); m != nil {
		return m[1], "raw markup span scan"
	}
	return "", ""
}

// ResolveCaptcha detects the numeric challenge and echoes it into the captcha
// input. A page without a challenge is not an error: the protected form does
// not always present one, so the attempt proceeds straight to submit.
func (s *chromeSession) ResolveCaptcha(ctx context.Context) error {
	challenge, strategy := s.detectChallenge(ctx)
	if challenge == "" {
		s.logger.Debug("No captcha challenge found, proceeding without it")
		return nil
	}

	s.logger.WithFields(logrus.Fields{
		"strategy": strategy,
		"length":   len(challenge),
	}).Debug("Captcha challenge detected")

	for _, c := range captchaInputCandidates {
		ok, err := s.evalBool(fillInputJS(c, challenge))
		if err != nil {
			s.logger.WithField("strategy", c.desc).WithError(err).Debug("Captcha input strategy errored")
			continue
		}
		if ok {
			s.logger.WithField("strategy", c.desc).Debug("Captcha answer transcribed")
			return nil
		}
	}
	return models.NewFailure(models.ErrCaptchaUnsolved, "challenge detected but no input field matched any strategy")
}

// ProbeCaptcha reports what the challenge detector sees on the current page
// without filling anything. Used by the diagnostics endpoint so operators can
// validate the selectors against the live site after a markup change.
func (s *chromeSession) ProbeCaptcha(ctx context.Context) (*models.CaptchaProbe, error) {
	probe := &models.CaptchaProbe{PageTitle: s.pageTitle()}

	challenge, strategy := s.detectChallenge(ctx)
	if challenge == "" {
		return probe, nil
	}
	probe.ChallengeFound = true
	probe.Challenge = challenge
	probe.Strategy = strategy

	for _, c := range captchaInputCandidates {
		count, err := s.countMatches(c.sel)
		if err != nil {
			continue
		}
		if count > 0 {
			probe.InputFound = true
			break
		}
	}
	return probe, nil
}
