package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nibzard/dayplanner/internal/config"
	"github.com/nibzard/dayplanner/internal/task"
)

// exportCommand writes the task list as JSON to a file or stdout.
func exportCommand(cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("dayplanner export", flag.ContinueOnError)
	fs.SetOutput(std.err)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return s.store.Export(std.out, time.Now())
	}

	path := fs.Arg(0)
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.WorkDir, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := s.store.Export(f, time.Now()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	fmt.Fprintf(std.out, "Exported %d tasks to %s\n", s.store.Len(), path)
	return nil
}

// importCommand replaces the task list with a validated JSON export.
func importCommand(cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("dayplanner import", flag.ContinueOnError)
	fs.SetOutput(std.err)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("import requires exactly one file argument")
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.WorkDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	n, err := s.store.Import(f)
	if err != nil {
		var ve *task.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%s is not a valid export:\n%w", path, err)
		}
		return err
	}
	fmt.Fprintf(std.out, "Imported %d tasks.\n", n)
	return nil
}
