package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// New returns a stack-traced error.
func New(msg string) error {
	return cr.New(msg)
}

// Wrap annotates err with msg. Returns nil for a nil err so call sites can
// wrap unconditionally.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark attaches markErr to err so errors.Is(err, markErr) holds while the
// underlying cause stays inspectable. A nil err degrades to the mark itself.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// ExtractStackLines renders the error's stack trace for structured logs,
// truncated to maxLines. maxLines <= 0 means no truncation.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	lines := strings.Split(fmt.Sprintf("%+v", err), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
