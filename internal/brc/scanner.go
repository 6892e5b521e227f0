package brc

import (
	"bytes"
	"io"
)

// Record is one parsed line. Key points into the scanner's buffer and is only
// valid until the next call that may refill it.
type Record struct {
	Key  []byte
	Temp Temp
}

// ScanLine parses the first complete record in data. It returns n == 0 and a
// nil error when data holds no newline yet; the caller must read more.
func ScanLine(data []byte) (rec Record, n int, err error) {
	nl := bytes.IndexByte(data, '\n')
	if nl < 0 {
		return Record{}, 0, nil
	}
	line := data[:nl]
	sep := bytes.IndexByte(line, ';')
	switch {
	case sep < 0:
		return Record{}, 0, errNoSeparator
	case sep == 0:
		return Record{}, 0, errEmptyKey
	}
	t, err := ParseTemp(line[sep+1:])
	if err != nil {
		return Record{}, 0, err
	}
	return Record{Key: line[:sep], Temp: t}, nl + 1, nil
}

// Scanner reads records from r through a fixed buffer. Consumed bytes are
// dropped by moving the unconsumed tail to the front before each refill, so
// memory stays at len(buf) whatever the input size.
type Scanner struct {
	r     io.Reader
	buf   []byte
	start int   // first unconsumed byte in buf
	end   int   // end of data in buf
	base  int64 // input offset of the first byte read from r
	total int64 // bytes consumed so far
	eof   bool
}

// NewScanner returns a scanner over r. base is the input offset r starts at
// and is only used to report error offsets.
func NewScanner(r io.Reader, buf []byte, base int64) *Scanner {
	return &Scanner{r: r, buf: buf, base: base}
}

// Offset returns the input offset of the next unconsumed byte.
func (s *Scanner) Offset() int64 {
	return s.base + s.total
}

// Consumed returns the number of bytes consumed by Next and SkipLine.
func (s *Scanner) Consumed() int64 {
	return s.total
}

// Next returns the next record and the number of bytes it occupied, newline
// included. It returns io.EOF once the input ends on a record boundary.
func (s *Scanner) Next() (Record, int, error) {
	for {
		if s.end > s.start {
			rec, n, err := ScanLine(s.buf[s.start:s.end])
			if err != nil {
				return Record{}, 0, newFormatError(s.Offset(), s.pending(), err)
			}
			if n > 0 {
				s.start += n
				s.total += int64(n)
				return rec, n, nil
			}
		}
		if s.eof {
			if s.end > s.start {
				return Record{}, 0, newFormatError(s.Offset(), s.pending(), errTruncatedEOF)
			}
			return Record{}, 0, io.EOF
		}
		if err := s.fill(); err != nil {
			return Record{}, 0, err
		}
	}
}

// SkipLine consumes everything up to and including the next newline. It
// returns io.EOF if the input ends first.
func (s *Scanner) SkipLine() (int, error) {
	skipped := 0
	for {
		if i := bytes.IndexByte(s.buf[s.start:s.end], '\n'); i >= 0 {
			skipped += i + 1
			s.start += i + 1
			s.total += int64(i + 1)
			return skipped, nil
		}
		// Nothing here is needed, drop it all.
		skipped += s.end - s.start
		s.total += int64(s.end - s.start)
		s.start, s.end = 0, 0
		if s.eof {
			return skipped, io.EOF
		}
		if err := s.fill(); err != nil {
			return skipped, err
		}
	}
}

// fill compacts the buffer and reads more input into it.
func (s *Scanner) fill() error {
	if s.start > 0 {
		copy(s.buf, s.buf[s.start:s.end])
		s.end -= s.start
		s.start = 0
	}
	if s.end == len(s.buf) {
		return newFormatError(s.Offset(), s.pending(), errLineTooLong)
	}
	n, err := s.r.Read(s.buf[s.end:])
	s.end += n
	if err == io.EOF {
		s.eof = true
		return nil
	}
	return err
}

func (s *Scanner) pending() []byte {
	line := s.buf[s.start:s.end]
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return line
}
