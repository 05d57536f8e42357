package service

import "github.com/pkg/errors"

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrPageFetchFailed    = errors.New("page fetch failed")
	ErrUnexpectedStatus   = errors.New("unexpected status")
)

// DatasetError ties a failure to its dataset. It matches both its kind
// (one of the sentinels above) and the underlying cause with errors.Is.
type DatasetError struct {
	Kind    error
	Dataset string
	Err     error
}

func (e *DatasetError) Error() string {
	return e.Kind.Error() + " (" + e.Dataset + "): " + e.Err.Error()
}

func (e *DatasetError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
