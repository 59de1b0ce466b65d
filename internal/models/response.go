package models

import "time"

// SearchResponse is returned by the search and retry endpoints.
type SearchResponse struct {
	Success bool        `json:"success"`
	CaseID  string      `json:"case_id"`
	Cached  bool        `json:"cached"`
	Record  *CaseRecord `json:"record,omitempty"`
	Failure *Failure    `json:"failure,omitempty"`
	// Wall time spent on the search, milliseconds
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// CaptchaProbe reports what the challenge detector found on the live search
// page. Operators use it to validate detection selectors after markup drift.
type CaptchaProbe struct {
	ChallengeFound bool   `json:"challenge_found"`
	Challenge      string `json:"challenge,omitempty"`
	Strategy       string `json:"strategy,omitempty"`
	InputFound     bool   `json:"input_found"`
	PageTitle      string `json:"page_title,omitempty"`
}

// ErrorResponse is the standard error envelope for all endpoints.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Services  map[string]ServiceInfo `json:"services"`
}

// ServiceInfo holds per-dependency health details.
type ServiceInfo struct {
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	LastCheck time.Time `json:"last_check"`
}

// HistoryResponse is a paginated page of past searches.
type HistoryResponse struct {
	Cases   []CaseSummary `json:"cases"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// StatsResponse summarises the search history.
type StatsResponse struct {
	TotalSearches      int `json:"total_searches"`
	SuccessfulSearches int `json:"successful_searches"`
	FailedSearches     int `json:"failed_searches"`
}
