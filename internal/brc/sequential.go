package brc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Sequential aggregates r on the calling goroutine with bufio and strconv.
// It shares no parsing code with Aggregate and serves as the reference
// result for it.
func Sequential(r io.Reader) (Table, error) {
	stats := make(Table)
	in := bufio.NewReaderSize(r, 64*1024)
	var offset int64
	for {
		line, err := in.ReadSlice('\n')
		if err == io.EOF {
			if len(line) > 0 {
				return nil, fmt.Errorf("offset %d: %w", offset, errTruncatedEOF)
			}
			return stats, nil
		} else if err != nil {
			return nil, fmt.Errorf("offset %d: %w", offset, err)
		}
		key, value, ok := bytes.Cut(line[:len(line)-1], []byte(";"))
		if !ok || len(key) == 0 {
			return nil, fmt.Errorf("offset %d: invalid record %q", offset, line)
		}
		whole, frac, ok := bytes.Cut(value, []byte("."))
		if !ok || len(frac) != 1 || len(whole) == 0 || whole[0] == '+' || string(whole) == "-" {
			return nil, fmt.Errorf("offset %d: invalid value %q", offset, value)
		}
		n, err := strconv.ParseInt(string(whole)+string(frac), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("offset %d: invalid value %q: %w", offset, value, err)
		}
		stats.Add(key, Temp(n))
		offset += int64(len(line))
	}
}
