package brc

import "fmt"

// Range is a contiguous byte range of the input assigned to one worker.
type Range struct {
	Start  int64
	Length int64
}

// End returns the first offset past the range.
func (r Range) End() int64 { return r.Start + r.Length }

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End())
}

// Plan splits size bytes into n contiguous ranges of size/n bytes. The last
// range runs to the end of the input, so the remainder of the division is
// never dropped. When size < n a single range is returned: zero-length
// ranges would all start at 0 and claim the same records.
func Plan(size int64, n int) []Range {
	if n < 1 {
		n = 1
	}
	per := size / int64(n)
	if per == 0 {
		return []Range{{Start: 0, Length: size}}
	}
	ranges := make([]Range, n)
	for i := range ranges {
		ranges[i] = Range{Start: int64(i) * per, Length: per}
	}
	last := &ranges[n-1]
	last.Length = size - last.Start
	return ranges
}
