package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/dayplanner/internal/task"
)

// CompletionLog appends one line per completed task to a text file. The file
// is opened for each entry and never truncated.
type CompletionLog struct {
	Path string
}

// NewCompletionLog returns a completion log writing to path. A relative path
// is resolved against workDir.
func NewCompletionLog(path, workDir string) (*CompletionLog, error) {
	if path == "" {
		return nil, fmt.Errorf("completion log path is empty")
	}
	if !filepath.IsAbs(path) {
		if workDir == "" {
			workDir = "."
		}
		path = filepath.Join(workDir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &CompletionLog{Path: filepath.Clean(path)}, nil
}

// LogCompletion appends "Completed: <description> at HH:MM".
func (c *CompletionLog) LogCompletion(t task.Task) error {
	f, err := os.OpenFile(c.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("open completion log: %w", err)
	}
	if _, err := fmt.Fprintf(f, "Completed: %s at %s\n", t.Description, t.Due); err != nil {
		f.Close()
		return fmt.Errorf("write completion log: %w", err)
	}
	return f.Close()
}
