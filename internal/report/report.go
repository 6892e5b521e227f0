// Package report renders aggregation results as
// {key=min/mean/max, key=min/mean/max, ...}.
package report

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"

	"github.com/dhartunian/brcgo/internal/brc"
)

// FormatTemp returns t with exactly one decimal, e.g. -3.2. Negative zero is
// printed as 0.0.
func FormatTemp(t brc.Temp) string {
	return decimal.New(int64(t), -1).StringFixed(1)
}

// Mean returns the mean of s rounded to one decimal, half away from zero:
// 0.15 becomes 0.2 and -0.15 becomes -0.2. The division is exact, so the
// result never depends on float rounding.
func Mean(s brc.Stat) decimal.Decimal {
	return decimal.New(s.Sum, -1).DivRound(decimal.NewFromInt(int64(s.Count)), 1)
}

// FormatStat returns min/mean/max.
func FormatStat(s brc.Stat) string {
	return FormatTemp(s.Min) + "/" + Mean(s).StringFixed(1) + "/" + FormatTemp(s.Max)
}

// Keys returns the keys of stats in ascending byte order.
func Keys(stats brc.Table) []string {
	keys := maps.Keys(stats)
	sort.Strings(keys)
	return keys
}

// Write writes stats to w as a single line.
func Write(w io.Writer, stats brc.Table) error {
	out := bufio.NewWriter(w)
	out.WriteByte('{')
	for i, k := range Keys(stats) {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(k)
		out.WriteByte('=')
		out.WriteString(FormatStat(*stats[k]))
	}
	out.WriteString("}\n")
	return out.Flush()
}

// String returns the rendering of stats, trailing newline included.
func String(stats brc.Table) string {
	var sb strings.Builder
	_ = Write(&sb, stats)
	return sb.String()
}
