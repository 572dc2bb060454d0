package tape

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bond-kaneko/go-calculator/calc"
	"github.com/bond-kaneko/go-calculator/render"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tp, err := Parse("inline", strings.NewReader("3 + 4 # sum\n\n  = m+\n"))
	require.NoError(t, err)
	require.Len(t, tp.Steps, 5)
	assert.Equal(t, Step{Line: 1, Token: "3", Actions: []calc.Action{calc.Digit('3')}}, tp.Steps[0])
	assert.Equal(t, 3, tp.Steps[3].Line)
	assert.Equal(t, "m+", tp.Steps[4].Token)
}

func TestParseUnknownToken(t *testing.T) {
	_, err := Parse("bad.calc", strings.NewReader("1 +\n2 ^ 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.calc:2")
	assert.Contains(t, err.Error(), `"^"`)
}

func TestReplayFile(t *testing.T) {
	tp, err := ReadFile("testdata/receipt.calc")
	require.NoError(t, err)

	s, err := tp.Replay(calc.New(), nil)
	require.NoError(t, err)
	// 22.75 + 36
	assert.Equal(t, "58.75", s.Result)
	assert.Equal(t, "M58.75", s.Memory)
}

func TestReplayRendersEachStep(t *testing.T) {
	tp, err := Parse("inline", strings.NewReader("8 / 0 ="))
	require.NoError(t, err)

	var buf bytes.Buffer
	s, err := tp.Replay(calc.New(), render.NewPlain(&buf, false))
	require.NoError(t, err)
	assert.True(t, errors.Is(s.Err, calc.ErrDivideByZero))
	assert.Equal(t, "8\n8 / | 0\n8 / | 0\nCannot divide by zero\n", buf.String())
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile("testdata/missing.calc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening tape")
}
