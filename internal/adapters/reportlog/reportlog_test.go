package reportlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeCell(t *testing.T) {
	assert.Equal(t, "N/A", sanitizeCell(""))
	assert.Equal(t, "a / b", sanitizeCell("a | b"))
	assert.Equal(t, "line one line two", sanitizeCell("line one\nline two"))
	assert.Equal(t, "crlf here", sanitizeCell("crlf\r\nhere"))
	assert.Equal(t, "padded", sanitizeCell("  padded  "))
}

func TestFormatRows(t *testing.T) {
	rows := formatRows([]Entry{
		{Date: "2026-08-28", Metric: "Total users", Value: "42", Change: "N/A", Notes: "note|with pipe"},
		{Date: "2026-08-28", Metric: "Signups", Value: "", Change: "+5.00%", Notes: "ok"},
	})

	assert.Equal(t,
		"| 2026-08-28 | Total users | 42 | N/A | note/with pipe |\n"+
			"| 2026-08-28 | Signups | N/A | +5.00% | ok |",
		rows)
}

func TestGenerateIssueID(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 34, 56, 789_000_000, time.UTC)
	id := generateIssueID(at)
	assert.Equal(t, "EVT-202608281234567", id)
}

func TestLogger_AppendsToFiles(t *testing.T) {
	dir := t.TempDir()

	l, err := New(dir, 16)
	require.NoError(t, err)

	l.LogUserReport([]Entry{{Date: "2026-08-28", Metric: "Total users", Value: "3", Change: "N/A", Notes: "test"}})
	l.LogSecurityEvent("admin@example.com accessed /api/reports/users", "Info")
	l.Close()

	userReport, err := os.ReadFile(filepath.Join(dir, "reports", "analytics", "USER_REPORT.md"))
	require.NoError(t, err)
	assert.Contains(t, string(userReport), "| 2026-08-28 | Total users | 3 | N/A | test |")

	secReport, err := os.ReadFile(filepath.Join(dir, "reports", "security", "SECURITY_REPORT.md"))
	require.NoError(t, err)
	assert.Contains(t, string(secReport), "admin@example.com accessed /api/reports/users")
	assert.Contains(t, string(secReport), "EVT-")
	assert.Contains(t, string(secReport), "| Info |")
}

func TestLogger_DropsWhenQueueFull(t *testing.T) {
	// No worker draining this queue, so the second offer must be refused
	// rather than block.
	l := &Logger{jobs: make(chan job, 1)}

	assert.True(t, l.enqueue(job{path: "a", content: "x"}))
	assert.False(t, l.enqueue(job{path: "b", content: "y"}))
}
