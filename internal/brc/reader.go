package brc

import (
	"errors"
	"fmt"
	"io"
)

// DefaultBufferSize is the per-worker read buffer size.
const DefaultBufferSize = 1024 * 1024

// ReadRange aggregates the records owned by r.
//
// Ranges are cut at arbitrary byte offsets. A worker that does not start at
// offset 0 skips through the first newline at or after r.Start, and every
// worker keeps consuming records while it has accounted for at most r.Length
// bytes. The record that straddles the end of a range is therefore finished
// by that range's worker and skipped by the next one, so each record is
// counted exactly once.
func ReadRange(src Source, r Range, bufSize int) (Table, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	f, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("worker %s: open: %w", r, err)
	}
	defer f.Close()
	if _, err := f.Seek(r.Start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("worker %s: seek: %w", r, err)
	}

	s := NewScanner(f, make([]byte, bufSize), r.Start)
	stats := make(Table)
	if r.Start != 0 {
		// The partial line at the start belongs to the previous range.
		if _, err := s.SkipLine(); err != nil {
			if errors.Is(err, io.EOF) {
				return stats, nil
			}
			return nil, rangeError(r, err)
		}
	}
	for s.Consumed() <= r.Length {
		rec, _, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rangeError(r, err)
		}
		stats.Add(rec.Key, rec.Temp)
	}
	return stats, nil
}

func rangeError(r Range, err error) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		fe.Range = r
		return fe
	}
	return fmt.Errorf("worker %s: read: %w", r, err)
}
