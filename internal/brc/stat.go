package brc

// Stat summarizes all values seen for one key.
type Stat struct {
	Min   Temp
	Max   Temp
	Sum   int64
	Count uint64
}

// NewStat returns the summary of a single value.
func NewStat(t Temp) Stat {
	return Stat{Min: t, Max: t, Sum: int64(t), Count: 1}
}

// Add adds a new value to the summary.
func (s *Stat) Add(t Temp) {
	s.Min = min(s.Min, t)
	s.Max = max(s.Max, t)
	s.Sum += int64(t)
	s.Count++
}

// Merge merges other into s. Merge is associative and commutative, so
// partial summaries can be combined in any order.
func (s *Stat) Merge(other Stat) {
	s.Min = min(s.Min, other.Min)
	s.Max = max(s.Max, other.Max)
	s.Sum += other.Sum
	s.Count += other.Count
}

// Table maps a key to its summary.
type Table map[string]*Stat

// Add records t under key. key may be a view into a scan buffer: it is only
// copied when the key is seen for the first time.
func (t Table) Add(key []byte, v Temp) {
	// The compiler does not allocate for a string(key) map index.
	if s, ok := t[string(key)]; ok {
		s.Add(v)
		return
	}
	s := NewStat(v)
	t[string(key)] = &s
}

// Merge folds other into t. Stats from other are copied, never shared.
func (t Table) Merge(other Table) {
	for k, o := range other {
		if s, ok := t[k]; ok {
			s.Merge(*o)
			continue
		}
		s := *o
		t[k] = &s
	}
}

// Records returns the number of values summarized by the table.
func (t Table) Records() uint64 {
	var n uint64
	for _, s := range t {
		n += s.Count
	}
	return n
}

// Merge folds tables into a new table.
func Merge(tables ...Table) Table {
	out := make(Table)
	for _, t := range tables {
		out.Merge(t)
	}
	return out
}
