package models

import "fmt"

// Error codes returned by scrape and API operations.
const (
	ErrCodeTimeout         = "SCRAPE_TIMEOUT"
	ErrCodeNavigation      = "NAVIGATION_FAILED"
	ErrCodeExtraction      = "EXTRACTION_FAILED"
	ErrCodeBrowserCrash    = "BROWSER_CRASH"
	ErrCodeSnapshotMissing = "SNAPSHOT_MISSING"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ScrapeError carries a stable machine-readable code alongside the human
// message, so handlers can map failures to HTTP statuses without string
// matching.
type ScrapeError struct {
	Code    string
	Message string
	Err     error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// NewScrapeError wraps err with a code and message.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}
