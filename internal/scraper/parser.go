package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/models"
)

// OrdersNavigator loads the secondary orders listing reachable from a result
// row. The live session implements it; parser tests pass nil to skip that
// fallback.
type OrdersNavigator interface {
	OpenOrdersPage(ctx context.Context) (string, error)
}

// noRecordPhrases mark a result page that rendered fine but matched nothing.
var noRecordPhrases = []string{
	"no record found",
	"no data found",
	"record not found",
}

// resultsTableSelectors locate the results table, most specific hint first.
var resultsTableSelectors = []string{
	"table",
	".table",
	"#results-table",
	"[class*='table']",
}

var datePattern = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

// The site does not expose a distinct status column in this row shape.
const defaultStatusText = "Active"

// Parser turns post-submission court markup into a structured case record.
// Parsing is deterministic: the same markup always yields the same result.
type Parser struct {
	baseURL *url.URL
	logger  *logrus.Logger
}

// NewParser creates a parser that resolves relative order links against base.
func NewParser(base string, logger *logrus.Logger) (*Parser, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", base, err)
	}
	return &Parser{baseURL: u, logger: logger}, nil
}

// Parse converts result-page markup into an ExtractionResult. Structural
// surprises inside row extraction are recovered and reported as a parse
// failure instead of propagating.
func (p *Parser) Parse(ctx context.Context, markup string, nav OrdersNavigator) *models.ExtractionResult {
	lower := strings.ToLower(markup)
	for _, phrase := range noRecordPhrases {
		if strings.Contains(lower, phrase) {
			return models.ExtractionFailure(models.NewFailure(
				models.ErrNoRecordFound, "court reports no record for the specified case"))
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return models.ExtractionFailure(models.NewFailure(
			models.ErrParseError, "parse markup: %v", err))
	}

	var table *goquery.Selection
	for _, sel := range resultsTableSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			p.logger.WithField("selector", sel).Debug("Results table located")
			table = found
			break
		}
	}
	if table == nil {
		return models.ExtractionFailure(models.NewFailure(
			models.ErrResultsTableNotFound, "results table not found on the page"))
	}

	rows := table.Find("tr")
	if rows.Length() < 2 {
		return models.ExtractionFailure(models.NewFailure(
			models.ErrNoDataRows, "results table has no data rows"))
	}

	return p.parseRow(ctx, doc, rows.Eq(1), markup, nav)
}

// parseRow extracts parties, dates and order links from the first data row.
func (p *Parser) parseRow(ctx context.Context, doc *goquery.Document, row *goquery.Selection, markup string, nav OrdersNavigator) (result *models.ExtractionResult) {
	// The row layout shifts with site updates; any structural surprise
	// becomes a typed parse failure rather than a panic.
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithField("panic", r).Error("Row extraction panicked")
			result = models.ExtractionFailure(models.NewFailure(
				models.ErrParseError, "row extraction failed: %v", r))
		}
	}()

	cols := row.Find("td")

	record := &models.CaseRecord{
		Status:  defaultStatusText,
		RawHTML: markup,
	}

	partiesText := ""
	if cols.Length() > 2 {
		partiesText = strings.TrimSpace(cols.Eq(2).Text())
	}
	record.Parties = splitParties(partiesText)

	listingText := ""
	if cols.Length() > 3 {
		listingText = strings.TrimSpace(cols.Eq(3).Text())
	}
	dates := datePattern.FindAllString(listingText, -1)
	// First date is the filing date, second the next hearing. A malformed
	// date leaves its field unset, never fails the parse.
	if len(dates) > 0 {
		record.FilingDate = normalizeDate(dates[0])
	}
	if len(dates) > 1 {
		record.NextHearingDate = normalizeDate(dates[1])
	}

	for _, pdfURL := range p.extractPDFLinks(ctx, doc, cols, nav) {
		record.Orders = append(record.Orders, models.OrderLink{
			Date:  record.FilingDate,
			Label: "Order",
			URL:   pdfURL,
		})
	}

	p.logger.WithFields(logrus.Fields{
		"plaintiff": record.Parties.Plaintiff,
		"defendant": record.Parties.Defendant,
		"orders":    len(record.Orders),
	}).Debug("Case record parsed")

	return models.ExtractionSuccess(record)
}

// splitParties splits the parties column on a case-insensitive "VS."
// separator. Without a separator the whole text is the plaintiff.
func splitParties(text string) models.Parties {
	upper := strings.ToUpper(text)
	idx := strings.Index(upper, "VS.")
	if idx < 0 {
		return models.Parties{Plaintiff: strings.TrimSpace(text), Defendant: "N/A"}
	}
	return models.Parties{
		Plaintiff: strings.TrimSpace(text[:idx]),
		Defendant: strings.TrimSpace(text[idx+len("VS."):]),
	}
}

// normalizeDate converts DD/MM/YYYY to YYYY-MM-DD, returning "" for text that
// only looks date-shaped.
func normalizeDate(raw string) string {
	t, err := time.Parse("02/01/2006", raw)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// extractPDFLinks walks three fallback strategies, stopping at the first that
// yields at least one link: anchors inside the parsed row's columns, the
// secondary orders page, then a whole-page scan. Results are absolute URLs
// deduplicated in first-seen order.
func (p *Parser) extractPDFLinks(ctx context.Context, doc *goquery.Document, cols *goquery.Selection, nav OrdersNavigator) []string {
	var links []string

	cols.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && isPDFHref(href) {
			links = append(links, p.absoluteURL(href))
		}
	})

	if len(links) == 0 && nav != nil {
		links = p.ordersPageLinks(ctx, nav)
	}

	if len(links) == 0 {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			if href, ok := a.Attr("href"); ok && isPDFHref(href) {
				links = append(links, p.absoluteURL(href))
			}
		})
	}

	return dedupe(links)
}

// ordersPageLinks navigates to the orders listing and collects its PDF
// anchors. Navigation failure is not fatal: the caller falls through to the
// whole-page scan.
func (p *Parser) ordersPageLinks(ctx context.Context, nav OrdersNavigator) []string {
	markup, err := nav.OpenOrdersPage(ctx)
	if err != nil {
		p.logger.WithError(err).Debug("Orders page not reachable")
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && isPDFHref(href) {
			links = append(links, p.absoluteURL(href))
		}
	})
	return links
}

func isPDFHref(href string) bool {
	return strings.Contains(strings.ToLower(href), ".pdf")
}

// absoluteURL resolves href against the site base.
func (p *Parser) absoluteURL(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return p.baseURL.ResolveReference(ref).String()
}

// dedupe removes duplicate URLs preserving first-seen order.
func dedupe(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	out := links[:0]
	for _, l := range links {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
