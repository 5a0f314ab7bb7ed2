package server

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
)

// csvLog appends rows to a CSV file, writing the header on first creation.
// Appends are serialized so concurrent requests do not interleave rows.
type csvLog struct {
	mu     sync.Mutex
	path   string
	header []string
}

func newCSVLog(path string, header []string) *csvLog {
	return &csvLog{path: path, header: header}
}

func (l *csvLog) Append(fields ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, statErr := os.Stat(l.path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("server: opening log %s: %w", l.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(l.header); err != nil {
			return fmt.Errorf("server: writing log header: %w", err)
		}
	}
	if err := w.Write(fields); err != nil {
		return fmt.Errorf("server: writing log row: %w", err)
	}
	w.Flush()
	return w.Error()
}
