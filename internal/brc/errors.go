package brc

import (
	"errors"
	"fmt"
)

// maxQuoted bounds how much of a bad record is kept in a FormatError.
const maxQuoted = 64

var (
	errNoSeparator  = errors.New("record has no ';' separator")
	errEmptyKey     = errors.New("record has an empty key")
	errLineTooLong  = errors.New("record does not fit in the read buffer")
	errTruncatedEOF = errors.New("truncated record at end of file")
)

// FormatError reports input that does not follow the key;value grammar. The
// whole run fails on it.
type FormatError struct {
	Offset int64 // absolute offset of the first byte of the record
	Range  Range // range of the worker that hit it
	Line   []byte
	Err    error
}

func newFormatError(offset int64, line []byte, err error) *FormatError {
	if len(line) > maxQuoted {
		line = line[:maxQuoted]
	}
	return &FormatError{Offset: offset, Line: append([]byte(nil), line...), Err: err}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error at offset %d (worker range %s): %v: %q",
		e.Offset, e.Range, e.Err, e.Line)
}

func (e *FormatError) Unwrap() error { return e.Err }
