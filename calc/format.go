package calc

import (
	"math"
	"strconv"
	"strings"
)

// exactDigits is enough fraction digits to print any float64 exactly.
const exactDigits = 1074

// FormatNumber renders v the way the display shows it. Integral values have no
// fraction; anything else is rounded to precision fraction digits and printed
// in shortest form, so 2.50 becomes "2.5".
func FormatNumber(v float64, precision int) string {
	if v == 0 {
		// covers negative zero
		return "0"
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	rounded := roundHalfAway(v, precision)
	if rounded == 0 {
		return "0"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// roundHalfAway rounds the exact binary value of v to precision fraction
// digits, ties away from zero. 0.125 rounds to 0.13 while 1.005, which is
// stored as 1.00499..., rounds to 1.
func roundHalfAway(v float64, precision int) float64 {
	exact := strconv.FormatFloat(math.Abs(v), 'f', exactDigits, 64)
	cut := strings.IndexByte(exact, '.') + 1 + precision
	if cut >= len(exact) {
		return v
	}
	kept := strings.TrimSuffix(exact[:cut], ".")
	if exact[cut] >= '5' {
		kept = incrementDecimal(kept)
	}
	r, err := strconv.ParseFloat(kept, 64)
	if err != nil {
		return v
	}
	return math.Copysign(r, v)
}

// incrementDecimal adds one unit in the last place of a non-negative decimal string.
func incrementDecimal(s string) string {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		switch {
		case b[i] == '.':
			continue
		case b[i] < '9':
			b[i]++
			return string(b)
		default:
			b[i] = '0'
		}
	}
	return "1" + string(b)
}

// parseOperand converts operand text into a number. Text as typed is
// accepted ("3.", ".5", "007"); text without a digit is not.
func parseOperand(text string) (float64, bool) {
	if text == "" || text == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// digitCount counts the digits of an operand, ignoring sign and decimal point.
func digitCount(text string) int {
	n := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
