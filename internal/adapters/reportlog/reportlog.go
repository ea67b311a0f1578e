// Package reportlog appends audit and metrics rows to markdown report files.
// Writes go through a bounded queue serviced by a single worker goroutine so
// disk stalls never block request handling; when the queue is full new rows
// are dropped and logged, not waited on.
package reportlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/observability"
)

const (
	userReportFile    = "USER_REPORT.md"
	trafficReportFile = "TRAFFIC_REPORT.md"
	adReportFile      = "AD_REPORT.md"
	securityFile      = "SECURITY_REPORT.md"

	defaultQueueSize = 256
)

// Entry is one metrics row in an analytics report table.
type Entry struct {
	Date   string
	Metric string
	Value  string
	Change string
	Notes  string
}

type job struct {
	path    string
	content string
}

// Logger is the asynchronous markdown report writer.
type Logger struct {
	analyticsDir string
	securityDir  string
	jobs         chan job
	wg           sync.WaitGroup
	closeOnce    sync.Once
}

// New creates a report logger rooted at baseDir and starts its worker.
// Report directories are created up front so appends never race mkdir.
func New(baseDir string, queueSize int) (*Logger, error) {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	l := &Logger{
		analyticsDir: filepath.Join(baseDir, "reports", "analytics"),
		securityDir:  filepath.Join(baseDir, "reports", "security"),
		jobs:         make(chan job, queueSize),
	}

	if err := os.MkdirAll(l.analyticsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create analytics report directory: %w", err)
	}
	if err := os.MkdirAll(l.securityDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create security report directory: %w", err)
	}

	l.wg.Add(1)
	go l.worker()

	return l, nil
}

// Close stops accepting rows and waits for queued writes to finish.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		close(l.jobs)
	})
	l.wg.Wait()
}

// LogUserReport appends metrics rows to USER_REPORT.md.
func (l *Logger) LogUserReport(entries []Entry) {
	l.appendRows(userReportFile, entries)
}

// LogTrafficReport appends metrics rows to TRAFFIC_REPORT.md.
func (l *Logger) LogTrafficReport(entries []Entry) {
	l.appendRows(trafficReportFile, entries)
}

// LogAdReport appends metrics rows to AD_REPORT.md.
func (l *Logger) LogAdReport(entries []Entry) {
	l.appendRows(adReportFile, entries)
}

// LogSecurityEvent appends one audit row to SECURITY_REPORT.md. Severity
// defaults to Info.
func (l *Logger) LogSecurityEvent(description, severity string) {
	if severity == "" {
		severity = "Info"
	}
	row := fmt.Sprintf("| %s | %s | %s | %s | N/A | %s |\n",
		generateIssueID(time.Now()),
		sanitizeCell(description),
		sanitizeCell(severity),
		time.Now().UTC().Format(time.RFC3339),
		"Logged",
	)
	l.enqueue(job{path: filepath.Join(l.securityDir, securityFile), content: row})
}

func (l *Logger) appendRows(fileName string, entries []Entry) {
	if len(entries) == 0 {
		return
	}
	l.enqueue(job{
		path:    filepath.Join(l.analyticsDir, fileName),
		content: "\n" + formatRows(entries) + "\n",
	})
}

// enqueue offers the job to the queue without blocking. Returns false when
// the row was dropped because the queue is full.
func (l *Logger) enqueue(j job) bool {
	select {
	case l.jobs <- j:
		return true
	default:
		observability.GetLogger().Warn().
			Str("file", filepath.Base(j.path)).
			Msg("Report queue full, dropping row")
		return false
	}
}

func (l *Logger) worker() {
	defer l.wg.Done()
	for j := range l.jobs {
		f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			observability.GetLogger().Error().Err(err).
				Str("file", filepath.Base(j.path)).
				Msg("Failed to open report file")
			continue
		}
		if _, err := f.WriteString(j.content); err != nil {
			observability.GetLogger().Error().Err(err).
				Str("file", filepath.Base(j.path)).
				Msg("Failed to append report row")
		}
		f.Close()
	}
}

// sanitizeCell makes a value safe for a single markdown table cell. Pipes
// become slashes and newlines become spaces so a row can never break the
// table; empty values render as N/A.
func sanitizeCell(value string) string {
	if value == "" {
		return "N/A"
	}
	value = strings.ReplaceAll(value, "|", "/")
	value = strings.ReplaceAll(value, "\r\n", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}

func formatRows(entries []Entry) string {
	rows := make([]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, fmt.Sprintf("| %s | %s | %s | %s | %s |",
			sanitizeCell(e.Date),
			sanitizeCell(e.Metric),
			sanitizeCell(e.Value),
			sanitizeCell(e.Change),
			sanitizeCell(e.Notes),
		))
	}
	return strings.Join(rows, "\n")
}

// generateIssueID yields IDs like EVT-202608281234567: the UTC timestamp
// digits down to tenths of a second.
func generateIssueID(now time.Time) string {
	s := now.UTC().Format("20060102150405.000")
	s = strings.ReplaceAll(s, ".", "")
	return "EVT-" + s[:15]
}
