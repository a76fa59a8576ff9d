package markup

import (
	"errors"
	"fmt"
)

var (
	// ErrAnchorNotFound means a fragment holds no <a> element.
	ErrAnchorNotFound = errors.New("no anchor element found")

	// ErrElementNotFound means a detail page lacks an expected region.
	ErrElementNotFound = errors.New("element not found")
)

// ExtractionError names the field that could not be located.
type ExtractionError struct {
	Field string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Field, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
