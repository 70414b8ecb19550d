package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"DEFAULT_PRESET", "HORIZON_DAYS", "SEASONALITY_FILE"} {
		t.Setenv(k, "")
	}
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestProjectCommand(t *testing.T) {
	out, err := execute(t, "project", "--preset", "reference", "--months", "3", "--start-month", "4", "--name", "Test Co")
	require.NoError(t, err)

	assert.Contains(t, out, "TEST CO")
	assert.Contains(t, out, "Break-even")
	assert.Contains(t, out, "90 days from Apr")
	assert.Contains(t, out, "Monthly")
}

func TestProjectCommand_CrewsCappedInSummary(t *testing.T) {
	// GIVEN: More crew additions than the reference business allows (4)
	// THEN: The summary reports the capped crew count

	args := []string{"project", "--preset", "reference", "--months", "3"}
	for _, d := range []string{"5", "10", "15", "20", "25"} {
		args = append(args, "--crew-day", d)
	}
	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Regexp(t, `Crews[^\n]*\s4\n`, out)
}

func TestRootRunsProjectByDefault(t *testing.T) {
	out, err := execute(t, "--months", "1", "--region", "pacific")
	require.NoError(t, err)
	assert.Contains(t, out, "workable weeks")
}

func TestProjectCommand_Errors(t *testing.T) {
	_, err := execute(t, "--tier", "Reckless")
	assert.Error(t, err)

	_, err = execute(t, "--start-month", "13")
	assert.Error(t, err)
}

func TestRegionsCommand(t *testing.T) {
	out, err := execute(t, "regions")
	require.NoError(t, err)
	assert.Contains(t, out, "northeast")
	assert.Contains(t, out, "pacific")
}

func TestExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := execute(t, "export", "--format", "xlsx", "-o", path, "--months", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = execute(t, "export", "--format", "csv", "-o", path)
	assert.Error(t, err)
}
