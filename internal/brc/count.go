package brc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// CountLines counts the newlines in src with one goroutine per range of
// Plan(src.Size(), workers). It does no parsing: it measures how fast the
// input can be read, and since ranges never overlap it doubles as a check
// that a plan covers every byte exactly once.
func CountLines(src Source, workers, bufSize int) (int64, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	ranges := Plan(src.Size(), workers)

	var total atomic.Int64
	errs := make([]error, len(ranges))
	var wait sync.WaitGroup
	for i, r := range ranges {
		wait.Add(1)
		go func(i int, r Range) {
			defer wait.Done()
			n, err := countRange(src, r, bufSize)
			total.Add(n)
			errs[i] = err
		}(i, r)
	}
	wait.Wait()
	if err := errors.Join(errs...); err != nil {
		return 0, err
	}
	return total.Load(), nil
}

func countRange(src Source, r Range, bufSize int) (int64, error) {
	f, err := src.Open()
	if err != nil {
		return 0, fmt.Errorf("worker %s: open: %w", r, err)
	}
	defer f.Close()
	if _, err := f.Seek(r.Start, io.SeekStart); err != nil {
		return 0, fmt.Errorf("worker %s: seek: %w", r, err)
	}
	in := io.LimitReader(f, r.Length)
	buf := make([]byte, bufSize)
	var lines int64
	for {
		n, err := in.Read(buf)
		lines += int64(bytes.Count(buf[:n], []byte{'\n'}))
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return 0, fmt.Errorf("worker %s: read: %w", r, err)
		}
	}
}
