package ingest

import (
	"errors"
	"fmt"
)

// ErrYearOutOfRange marks a request for a year the source does not publish.
var ErrYearOutOfRange = errors.New("year outside the published report range")

// AcquisitionError is a structural download failure (transport error,
// non-success status, empty body). Fatal to the ingestion run; the caller's
// scheduler owns retries.
type AcquisitionError struct {
	URL  string
	Year int
	Err  error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to acquire report archive for %d from %s: %v", e.Year, e.URL, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// ExtractionError means the archive held no entry with the expected table
// suffix, or could not be opened at all. The report format is considered
// broken and the run aborts.
type ExtractionError struct {
	Suffix  string
	Entries int
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to extract report table: %v", e.Err)
	}
	return fmt.Sprintf("no archive entry matching %q among %d entries", e.Suffix, e.Entries)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
