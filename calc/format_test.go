package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		value     float64
		precision int
		expected  string
	}{
		{2, 2, "2"},
		{0.25, 2, "0.25"},
		{10.0 / 3, 2, "3.33"},
		{10.0 / 3, 4, "3.3333"},
		{2.5, 2, "2.5"},
		{-7.125, 1, "-7.1"},
		{0.001, 2, "0"},
		{-0.001, 2, "0"},
		{math.Copysign(0, -1), 2, "0"},
		{1e12, 2, "1000000000000"},
		{2.0 / 3, 0, "1"},
		{0.125, 2, "0.13"},
		{-0.125, 2, "-0.13"},
		{1.005, 2, "1"},
		{9.996, 2, "10"},
		{3.5, 0, "4"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, FormatNumber(test.value, test.precision),
			"FormatNumber(%v, %d)", test.value, test.precision)
	}
}

func TestIncrementDecimal(t *testing.T) {
	assert.Equal(t, "0.13", incrementDecimal("0.12"))
	assert.Equal(t, "1.00", incrementDecimal("0.99"))
	assert.Equal(t, "10", incrementDecimal("9"))
}

func TestParseOperand(t *testing.T) {
	tests := []struct {
		text     string
		expected float64
		ok       bool
	}{
		{"12", 12, true},
		{"3.", 3, true},
		{".5", 0.5, true},
		{"007", 7, true},
		{".", 0, false},
		{"-0.5", -0.5, true},
		{"", 0, false},
		{"-", 0, false},
	}

	for _, test := range tests {
		v, ok := parseOperand(test.text)
		assert.Equal(t, test.ok, ok, "parseOperand(%q)", test.text)
		assert.Equal(t, test.expected, v, "parseOperand(%q)", test.text)
	}
}

func TestDigitCount(t *testing.T) {
	assert.Equal(t, 0, digitCount(""))
	assert.Equal(t, 3, digitCount("-1.23"))
	assert.Equal(t, 9, digitCount("123456789"))
}
