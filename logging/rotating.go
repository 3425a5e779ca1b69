// Package logging configures structured slog logging for the cases API:
// console text output plus a weekly rotating JSON log file with size caps
// and retention cleanup.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RotatingWriter writes log output to one file per ISO week, starting a
// numbered continuation file when the current one reaches maxFileSize, and
// deletes files older than the retention period.
type RotatingWriter struct {
	logDir      string
	retention   time.Duration
	maxFileSize int64

	mu       sync.Mutex
	file     *os.File
	week     string
	size     int64
	sequence int
	done     chan struct{}
	stopOnce sync.Once
}

// NewRotatingWriter creates a rotating writer storing logs under logDir.
func NewRotatingWriter(logDir string, retentionWeeks int, maxFileSize int64) *RotatingWriter {
	return &RotatingWriter{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		done:        make(chan struct{}),
	}
}

// weekKey returns the ISO week key, e.g. 2026-W34.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Write appends to the current week's file, rotating on week change or when
// the size cap would be exceeded.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	week := weekKey(time.Now())
	if rw.file == nil || rw.week != week {
		if err := rw.open(week, 0); err != nil {
			return 0, err
		}
	} else if rw.maxFileSize > 0 && rw.size+int64(len(p)) > rw.maxFileSize {
		if err := rw.open(week, rw.sequence+1); err != nil {
			return 0, err
		}
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

// open switches to the log file for the given week and sequence number
// (sequence 0 is the unnumbered base file). Caller must hold mu.
func (rw *RotatingWriter) open(week string, sequence int) error {
	if rw.file != nil {
		if err := rw.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
		rw.file = nil
	}

	name := fmt.Sprintf("app-%s.log", week)
	if sequence > 0 {
		name = fmt.Sprintf("app-%s_%02d.log", week, sequence)
	}
	path := filepath.Join(rw.logDir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	size := int64(0)
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}

	rw.file = file
	rw.week = week
	rw.sequence = sequence
	rw.size = size
	return nil
}

// startCleanup removes expired log files once a day until Close.
func (rw *RotatingWriter) startCleanup() {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-rw.done:
				return
			case <-ticker.C:
				if err := rw.cleanupOldLogs(); err != nil {
					// Console only, to avoid recursing into the writer.
					fmt.Fprintf(os.Stderr, "log cleanup failed: %v\n", err)
				}
			}
		}
	}()
}

// cleanupOldLogs deletes app-*.log files older than the retention period.
func (rw *RotatingWriter) cleanupOldLogs() error {
	entries, err := os.ReadDir(rw.logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-rw.retention)
	deleted := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(rw.logDir, name)); err == nil {
				deleted++
			}
		}
	}

	if deleted > 0 {
		fmt.Printf("Cleaned up %d old log files\n", deleted)
	}
	return nil
}

// Close stops the cleanup goroutine and closes the current file.
func (rw *RotatingWriter) Close() error {
	rw.stopOnce.Do(func() { close(rw.done) })

	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.file != nil {
		err := rw.file.Close()
		rw.file = nil
		return err
	}
	return nil
}

// multiHandler fans a log record out to every wrapped handler.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: hs}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: hs}
}

// SetupLogger configures slog to log to both console (text) and a weekly
// rotating file (JSON). An empty logDir or a directory that cannot be
// created falls back to console-only logging.
func SetupLogger(logDir string) *slog.Logger {
	return SetupLoggerWithRetention(logDir, 4, 100*1024*1024)
}

// SetupLoggerWithRetention configures slog with a custom retention period
// and file size cap.
func SetupLoggerWithRetention(logDir string, retentionWeeks int, maxFileSize int64) *slog.Logger {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if logDir == "" {
		return slog.New(consoleHandler)
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to create logs directory", "error", err)
		return logger
	}

	writer := NewRotatingWriter(logDir, retentionWeeks, maxFileSize)
	writer.startCleanup()

	fileHandler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
}
