package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure. The orchestrator retries any kind;
// handlers use it to pick an HTTP status and callers use it to tell
// "court has no such case" apart from "extraction infrastructure failed".
type ErrorKind string

const (
	ErrDriverUnavailable    ErrorKind = "driver_unavailable"
	ErrNavigationTimeout    ErrorKind = "navigation_timeout"
	ErrFormFieldNotFound    ErrorKind = "form_field_not_found"
	ErrCaptchaUnsolved      ErrorKind = "captcha_unsolved"
	ErrSubmitButtonNotFound ErrorKind = "submit_button_not_found"
	ErrResultsTableNotFound ErrorKind = "results_table_not_found"
	ErrNoDataRows           ErrorKind = "no_data_rows"
	ErrNoRecordFound        ErrorKind = "no_record_found"
	ErrParseError           ErrorKind = "parse_error"
	ErrDownloadFailed       ErrorKind = "download_failed"
	ErrNotAPdf              ErrorKind = "not_a_pdf"
)

// Failure is the typed error carried through the extraction pipeline.
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewFailure creates a typed pipeline failure.
func NewFailure(kind ErrorKind, format string, args ...interface{}) *Failure {
	return &Failure{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// AsFailure extracts a *Failure from err, wrapping unclassified errors under
// the given fallback kind.
func AsFailure(err error, fallback ErrorKind) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return NewFailure(fallback, "%s", err.Error())
}
