package fetcher

import (
	"errors"
	"fmt"
)

// ErrInvalidDateFormat matches every *InvalidDateFormatError via errors.Is.
var ErrInvalidDateFormat = errors.New("invalid date format")

// InvalidDateFormatError reports a start date that is not YYYY-MM-DD.
type InvalidDateFormatError struct {
	Value string
}

func (e *InvalidDateFormatError) Error() string {
	return fmt.Sprintf("invalid date format, expected YYYY-MM-DD: %q", e.Value)
}

func (e *InvalidDateFormatError) Is(target error) bool {
	return target == ErrInvalidDateFormat
}

// PropertyError reports a page whose properties do not match the Schema.
type PropertyError struct {
	PageID   string
	Property string
	Want     string
	Got      string
}

func (e *PropertyError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("page %s: property %q is missing", e.PageID, e.Property)
	}
	return fmt.Sprintf("page %s: property %q has type %q, expected %q", e.PageID, e.Property, e.Got, e.Want)
}
