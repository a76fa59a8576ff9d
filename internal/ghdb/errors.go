package ghdb

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRecordsTotal means the listing envelope lacks recordsTotal.
	ErrMissingRecordsTotal = errors.New(`listing response has no "recordsTotal"`)

	// ErrMissingData means the listing envelope lacks data.
	ErrMissingData = errors.New(`listing response has no "data"`)

	// ErrInvalidRecord means a listing record lacks its id or url_title.
	ErrInvalidRecord = errors.New("listing record is missing id or url_title")
)

// DecodeError is a listing response that does not have the expected shape.
// It is never retried.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
