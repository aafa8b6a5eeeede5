package report

import "errors"

// ErrNotFound indicates the requested report id is unknown to the store.
var ErrNotFound = errors.New("report not found")

// ErrGenerationUnavailable indicates the AI call failed or returned content
// that does not parse into ReportContent. Surfaced as 503; never masked.
var ErrGenerationUnavailable = errors.New("report generation unavailable")
