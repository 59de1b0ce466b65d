package models

import "time"

// SearchQuery is the immutable input to one extraction attempt. Validation
// (case-number pattern, year range) happens at the handler boundary before a
// query is constructed; the pipeline does not re-validate.
type SearchQuery struct {
	CaseType   string `json:"case_type"`
	CaseNumber string `json:"case_number"`
	FilingYear int    `json:"filing_year"`
}

// Parties holds the two sides of a case as listed by the court.
type Parties struct {
	Plaintiff string `json:"plaintiff"`
	Defendant string `json:"defendant"`
}

// OrderLink is one order/judgment PDF discovered during extraction.
// Links are deduplicated by URL, insertion order preserved.
type OrderLink struct {
	// Date the order is attributed to, YYYY-MM-DD, empty when unknown.
	Date  string `json:"date,omitempty"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// CaseRecord is the structured result of a successful extraction.
// Dates are canonical YYYY-MM-DD strings and empty when the court page did
// not expose them; Orders may be empty even on success.
type CaseRecord struct {
	Parties         Parties     `json:"parties"`
	FilingDate      string      `json:"filing_date,omitempty"`
	NextHearingDate string      `json:"next_hearing_date,omitempty"`
	Status          string      `json:"status"`
	Orders          []OrderLink `json:"orders"`
	RawHTML         string      `json:"-"`
}

// ExtractionResult is the tagged outcome of one orchestrated scrape: exactly
// one of Record or Failure is set.
type ExtractionResult struct {
	Record  *CaseRecord `json:"record,omitempty"`
	Failure *Failure    `json:"failure,omitempty"`
}

// Succeeded reports whether the result carries a record.
func (r *ExtractionResult) Succeeded() bool {
	return r.Record != nil
}

// ExtractionSuccess wraps a record as a successful result.
func ExtractionSuccess(rec *CaseRecord) *ExtractionResult {
	return &ExtractionResult{Record: rec}
}

// ExtractionFailure wraps a typed failure as a failed result.
func ExtractionFailure(f *Failure) *ExtractionResult {
	return &ExtractionResult{Failure: f}
}

// CaseStatus values persisted on a case row.
const (
	CaseStatusPending = "pending"
	CaseStatusSuccess = "success"
	CaseStatusFailed  = "failed"
)

// CaseSummary is a persisted case search as read back from storage.
type CaseSummary struct {
	ID         string       `json:"id"`
	CaseType   string       `json:"case_type"`
	CaseNumber string       `json:"case_number"`
	FilingYear int          `json:"filing_year"`
	Status     string       `json:"status"`
	SearchedAt time.Time    `json:"searched_at"`
	Details    *CaseDetails `json:"details,omitempty"`
	Orders     []OrderRow   `json:"orders"`
}

// CaseDetails is the persisted detail row for a successful case.
type CaseDetails struct {
	Plaintiff       string `json:"parties_plaintiff"`
	Defendant       string `json:"parties_defendant"`
	FilingDate      string `json:"filing_date,omitempty"`
	NextHearingDate string `json:"next_hearing_date,omitempty"`
	CaseStatus      string `json:"case_status"`
}

// OrderRow is a persisted order link, optionally backed by a local PDF copy.
type OrderRow struct {
	ID        int64  `json:"id"`
	CaseID    string `json:"case_id"`
	OrderDate string `json:"order_date,omitempty"`
	OrderType string `json:"order_type"`
	PDFURL    string `json:"pdf_url"`
	LocalPath string `json:"-"`
}
