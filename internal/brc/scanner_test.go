package brc

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanLine(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		key     string
		temp    Temp
		n       int
		wantErr error
	}{
		{name: "simple", in: "x;1.2\n", key: "x", temp: 12, n: 6},
		{name: "negative", in: "x;-12.3\nnext", key: "x", temp: -123, n: 8},
		{name: "multibyte key", in: "São Paulo;25.1\n", key: "São Paulo", temp: 251, n: 16},
		{name: "no newline", in: "x;1.2", n: 0},
		{name: "no separator yet", in: "Hamb", n: 0},
		{name: "empty", in: "", n: 0},
		{name: "missing separator", in: "x1.2\n", wantErr: errNoSeparator},
		{name: "blank line", in: "\nx;1.2\n", wantErr: errNoSeparator},
		{name: "empty key", in: ";1.2\n", wantErr: errEmptyKey},
		{name: "bad value", in: "x;1.2.3\n", wantErr: errMisplacedDot},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, n, err := ScanLine([]byte(tc.in))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.n, n)
			if n > 0 {
				assert.Equal(t, tc.key, string(rec.Key))
				assert.Equal(t, tc.temp, rec.Temp)
			}
		})
	}
}

func TestScanLineKeyIsView(t *testing.T) {
	data := []byte("abc;1.0\n")
	rec, _, err := ScanLine(data)
	require.NoError(t, err)
	data[0] = 'z'
	assert.Equal(t, "zbc", string(rec.Key))
}

func scanAll(t *testing.T, s *Scanner) (keys []string, temps []Temp) {
	t.Helper()
	for {
		rec, _, err := s.Next()
		if err == io.EOF {
			return keys, temps
		}
		require.NoError(t, err)
		keys = append(keys, string(rec.Key))
		temps = append(temps, rec.Temp)
	}
}

func TestScannerRefills(t *testing.T) {
	input := "Hamburg;12.0\nBulawayo;8.9\nPalembang;38.8\nSt. John's;15.2\nCracow;12.6\n"
	wantKeys := []string{"Hamburg", "Bulawayo", "Palembang", "St. John's", "Cracow"}
	wantTemps := []Temp{120, 89, 388, 152, 126}

	readers := map[string]func() io.Reader{
		"plain":    func() io.Reader { return strings.NewReader(input) },
		"one byte": func() io.Reader { return iotest.OneByteReader(strings.NewReader(input)) },
		"half":     func() io.Reader { return iotest.HalfReader(strings.NewReader(input)) },
		"data eof": func() io.Reader { return iotest.DataErrReader(strings.NewReader(input)) },
	}
	for name, r := range readers {
		for _, size := range []int{16, 17, 32, 1024} {
			s := NewScanner(r(), make([]byte, size), 0)
			keys, temps := scanAll(t, s)
			assert.Equal(t, wantKeys, keys, "%s/%d", name, size)
			assert.Equal(t, wantTemps, temps, "%s/%d", name, size)
			assert.Equal(t, int64(len(input)), s.Consumed())
		}
	}
}

func TestScannerSkipLine(t *testing.T) {
	s := NewScanner(iotest.OneByteReader(strings.NewReader("burg;12.0\nCracow;12.6\n")), make([]byte, 16), 100)
	n, err := s.SkipLine()
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, int64(110), s.Offset())

	rec, n, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "Cracow", string(rec.Key))
	assert.Equal(t, 12, n)

	_, err = s.SkipLine()
	assert.Equal(t, io.EOF, err)
}

func TestScannerSkipLineLongerThanBuffer(t *testing.T) {
	s := NewScanner(strings.NewReader("a very long partial line;1.0\nx;2.0\n"), make([]byte, 8), 0)
	n, err := s.SkipLine()
	require.NoError(t, err)
	assert.Equal(t, 29, n)
	rec, _, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "x", string(rec.Key))
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		bufSize int
		offset  int64
		wantErr error
	}{
		{name: "truncated last line", in: "a;1.0\nb;2.0", bufSize: 64, offset: 1006, wantErr: errTruncatedEOF},
		{name: "line too long", in: "a;1.0\nabcdefghijkl;2.0\n", bufSize: 10, offset: 1006, wantErr: errLineTooLong},
		{name: "bad value", in: "a;1.0\nb;2,0\n", bufSize: 64, offset: 1006},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScanner(strings.NewReader(tc.in), make([]byte, tc.bufSize), 1000)
			_, _, err := s.Next()
			require.NoError(t, err)
			_, _, err = s.Next()
			var fe *FormatError
			require.True(t, errors.As(err, &fe), "%v", err)
			assert.Equal(t, tc.offset, fe.Offset)
			assert.True(t, bytes.HasPrefix([]byte(tc.in[6:]), fe.Line))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestScannerReadError(t *testing.T) {
	boom := errors.New("boom")
	s := NewScanner(iotest.ErrReader(boom), make([]byte, 16), 0)
	_, _, err := s.Next()
	assert.ErrorIs(t, err, boom)
}

func BenchmarkScanner(b *testing.B) {
	var sb strings.Builder
	for sb.Len() < 1<<20 {
		sb.WriteString("Hamburg;12.0\nBulawayo;-8.9\nSt. John's;15.2\n")
	}
	data := []byte(sb.String())
	buf := make([]byte, 64*1024)
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := NewScanner(bytes.NewReader(data), buf, 0)
		for {
			if _, _, err := s.Next(); err != nil {
				if err != io.EOF {
					b.Fatal(err)
				}
				break
			}
		}
	}
}
