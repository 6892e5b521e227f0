package brc

import (
	"errors"
	"fmt"
)

// Temp is a measurement stored as an integer 10x the value, so "-3.2" is -32.
type Temp int64

// maxDigits keeps n*10+d inside an int64.
const maxDigits = 18

var (
	errEmptyValue    = errors.New("empty value")
	errMisplacedDot  = errors.New("value must have exactly one digit after a single '.'")
	errNoIntDigits   = errors.New("value has no integer digits")
	errTooManyDigits = errors.New("value has too many digits")
)

// ParseTemp parses the value grammar -?[0-9]+\.[0-9] into a Temp. It never
// allocates on success.
func ParseTemp(b []byte) (Temp, error) {
	if len(b) == 0 {
		return 0, errEmptyValue
	}
	var (
		n      int64
		sign   int64 = 1
		digits int
		dot    = -1
	)
	for i, c := range b {
		switch {
		case c >= '0' && c <= '9':
			n = n*10 + int64(c-'0')
			digits++
		case c == '.':
			if dot >= 0 {
				return 0, errMisplacedDot
			}
			dot = i
		case c == '-' && i == 0:
			sign = -1
		default:
			return 0, fmt.Errorf("invalid char %q in value", c)
		}
	}
	// The dot must be followed by exactly one digit.
	if dot < 0 || dot != len(b)-2 {
		return 0, errMisplacedDot
	}
	if digits < 2 {
		return 0, errNoIntDigits
	}
	if digits > maxDigits {
		return 0, errTooManyDigits
	}
	return Temp(n * sign), nil
}
