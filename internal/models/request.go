package models

// SearchRequest is the body of POST /api/v1/cases/search.
type SearchRequest struct {
	// Case type as listed by the court, e.g. "Civil Appeal"
	CaseType string `json:"case_type" binding:"required" example:"Civil Appeal"`
	// Case number, digits with optional / or - separator
	CaseNumber string `json:"case_number" binding:"required" example:"1234"`
	// Filing year between 1950 and the current year
	FilingYear string `json:"filing_year" binding:"required" example:"2023"`
}
