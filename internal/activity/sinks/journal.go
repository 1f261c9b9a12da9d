package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fitfindr/fitfindr-server/internal/activity"
)

// JournalSink appends events as JSON lines to activity.log in the data
// directory, preserving the original file-based activity audit trail.
type JournalSink struct {
	mu   sync.Mutex
	file *os.File
}

// NewJournalSink opens (or creates) the journal file under dir.
func NewJournalSink(dir string) (*JournalSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("journal directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	path := filepath.Join(dir, "activity.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &JournalSink{file: f}, nil
}

// Consume appends one JSON line per event.
func (s *JournalSink) Consume(ctx context.Context, batch []activity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, evt := range batch {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context canceled: %w", err)
		}
		line, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		if _, err := s.file.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("append journal: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the journal file.
func (s *JournalSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}
