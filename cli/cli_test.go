package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift-calendar/cli"
)

const templateYAML = `
code: 2S
name: Two shifts
definitions:
  - id: shift1
    name: Early
    startTime: "08:00"
    endTime: "16:00"
    days: [mon, tue, wed, thu, fri]
    breaks:
      - id: lunch
        startTime: "12:00"
        endTime: "12:30"
  - id: shift2
    name: Late
    startTime: "16:00"
    endTime: "24:00"
    days: [mon, tue, wed, thu, fri]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		out, _, err := run("validate", "--template", writeFile(t, "t.yaml", templateYAML))
		require.NoError(t, err)
		assert.Equal(t, "2S: ok (2 definitions)\n", out)
	})

	t.Run("Invalid", func(t *testing.T) {
		out, _, err := run("validate", "--template", writeFile(t, "t.yaml", "code: X\nname: \"\"\ndefinitions: []\n"))
		require.Error(t, err)
		assert.Contains(t, out, "name")
		assert.Contains(t, out, "definitions")
	})

	t.Run("Missing_Flag", func(t *testing.T) {
		_, _, err := run("validate")
		assert.Error(t, err)
	})
}

func TestSummary(t *testing.T) {
	out, _, err := run("summary", "--format", "csv", "--template", writeFile(t, "t.yaml", templateYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "shift1,7.50,7.50,7.50,7.50,7.50,0.00,0.00,37.50\n")
	assert.Contains(t, out, "Total,15.50,15.50,15.50,15.50,15.50,0.00,0.00,77.50\n")
}

func TestClassify(t *testing.T) {
	tmpl := writeFile(t, "t.yaml", templateYAML)

	t.Run("Text", func(t *testing.T) {
		intervals := writeFile(t, "runs.csv", `# Machine, Start, End, State
press-01, 2026-10-19 07:00, 2026-10-19 10:00, running
press-01, 2026-10-19 10:00, 2026-10-19 10:30, stopped
press-01, 2026-10-19 10:30, 2026-10-19 12:00, running
`)
		out, _, err := run("classify", "--tz", "UTC",
			"--template", tmpl, "--intervals", intervals,
			"--set", "mergeCase4ToShift1=true")
		require.NoError(t, err)
		assert.Contains(t, out, "2026-10-19 press-01 (monday)")
		assert.Contains(t, out, "[shift1, merged]")
		assert.Contains(t, out, "case 1=30m")
		assert.Contains(t, out, "case 4=60m")
	})

	t.Run("Failed_Unit", func(t *testing.T) {
		intervals := writeFile(t, "runs.csv", `a, 2026-10-19 07:00, 2026-10-19 10:00, running
b, 2026-10-19 07:00, 2026-10-19 10:00, running
b, 2026-10-19 09:00, 2026-10-19 11:00, stopped
`)
		out, errOut, err := run("classify", "--tz", "UTC", "--format", "json",
			"--template", tmpl, "--intervals", intervals)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 machine-days failed")
		assert.Contains(t, out, `"machineId": "a"`)
		assert.Contains(t, errOut, "failed: b 2026-10-19")
	})

	t.Run("Bad_Format", func(t *testing.T) {
		_, _, err := run("classify", "--format", "xml", "--template", tmpl, "--intervals", tmpl)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})
}
