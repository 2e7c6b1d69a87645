package content

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a document does not exist, cannot be
	// read, or is a draft.
	ErrNotFound = errors.New("content: not found")

	// ErrUnsupportedLocale is returned for locales outside the configured set.
	ErrUnsupportedLocale = errors.New("content: unsupported locale")

	// ErrMalformedFrontMatter indicates a front-matter block that cannot be
	// split or decoded.
	ErrMalformedFrontMatter = errors.New("content: malformed front-matter")
)

// ParseError reports a document whose front-matter could not be parsed.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("content: parse: %v", e.Err)
	}
	return fmt.Sprintf("content: parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
