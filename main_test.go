package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTape(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tape.calc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "", "run", writeTape(t, "3 + 4 =\n"))
	require.NoError(t, err)
	assert.Equal(t, "3 + 4 = | 7\n", out)
}

func TestRunCommandTrace(t *testing.T) {
	out, err := execute(t, "", "run", "--trace", writeTape(t, "3 + 4 =\n"))
	require.NoError(t, err)
	assert.Equal(t, "3\n3 + | 0\n3 + | 4\n3 + 4 = | 7\n", out)
}

func TestRunCommandPrecision(t *testing.T) {
	out, err := execute(t, "", "run", "-p", "3", writeTape(t, "2 sqrt\n"))
	require.NoError(t, err)
	assert.Equal(t, "1.414\n", out)
}

func TestRunCommandConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "calc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("precision: 1\n"), 0644))

	out, err := execute(t, "", "run", "--config", cfgPath, writeTape(t, "10 / 4 =\n"))
	require.NoError(t, err)
	assert.Equal(t, "10 / 4 = | 2.5\n", out)
}

func TestRunCommandErrors(t *testing.T) {
	_, err := execute(t, "", "run", writeTape(t, "1 + nope\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown token")

	_, err = execute(t, "", "run", "--precision", "99", writeTape(t, "1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precision must be between")

	_, err = execute(t, "", "run")
	require.Error(t, err)
}

func TestInteractiveLineMode(t *testing.T) {
	out, err := execute(t, "8 / 0 =\n5\n")
	require.NoError(t, err)
	assert.Equal(t, "0\nCannot divide by zero\n5\n", out)
}
