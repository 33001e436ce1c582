package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var exportSchema []byte

const exportSchemaURL = "https://github.com/nibzard/dayplanner/tasks.schema.json"

// ExportVersion is the schema_version written by Export.
const ExportVersion = 1

const (
	exportStatusPending = "pending"
	exportStatusDone    = "done"
)

// ExportFile is the JSON form of a task list.
type ExportFile struct {
	SchemaVersion int          `json:"schema_version"`
	ExportedAt    *time.Time   `json:"exported_at,omitempty"`
	Tasks         []ExportTask `json:"tasks"`
}

// ExportTask is the JSON form of a single task.
type ExportTask struct {
	Number      int    `json:"number,omitempty"`
	Description string `json:"description"`
	Time        string `json:"time"`
	Status      string `json:"status"`
	Carried     bool   `json:"carried"`
}

// ValidationError is a schema violation at a location in an import document.
type ValidationError struct {
	Path string // dotted path to the offending value
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Export writes the task list as indented JSON with a trailing newline.
func (s *Store) Export(w io.Writer, now time.Time) error {
	stamp := now.UTC()
	f := ExportFile{
		SchemaVersion: ExportVersion,
		ExportedAt:    &stamp,
		Tasks:         make([]ExportTask, 0, len(s.tasks)),
	}
	for _, t := range s.tasks {
		status := exportStatusPending
		if t.Completed {
			status = exportStatusDone
		}
		f.Tasks = append(f.Tasks, ExportTask{
			Number:      t.Number,
			Description: t.Description,
			Time:        t.Due.String(),
			Status:      status,
			Carried:     t.Carried,
		})
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Import replaces the task list with a validated export document and saves.
// It returns the number of tasks imported.
func (s *Store) Import(r io.Reader) (int, error) {
	tasks, err := DecodeExport(r)
	if err != nil {
		return 0, err
	}
	if err := s.Replace(tasks); err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// DecodeExport validates an export document against the embedded schema and
// converts it to tasks in document order.
func DecodeExport(r io.Reader) ([]Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}

	schema, err := compileExportSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaErrors(err)
	}

	var f ExportFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}

	tasks := make([]Task, 0, len(f.Tasks))
	for i, et := range f.Tasks {
		due, err := ParseClock(et.Time)
		if err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("tasks[%d].time", i), Err: err}
		}
		tasks = append(tasks, Task{
			Number:      i + 1,
			Description: et.Description,
			Due:         due,
			Completed:   et.Status == exportStatusDone,
			Carried:     et.Carried,
		})
	}
	return tasks, nil
}

func compileExportSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(exportSchemaURL, bytes.NewReader(exportSchema)); err != nil {
		return nil, fmt.Errorf("load export schema: %w", err)
	}
	schema, err := compiler.Compile(exportSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile export schema: %w", err)
	}
	return schema, nil
}

// schemaErrors flattens a jsonschema error tree into leaf ValidationErrors.
func schemaErrors(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	if len(errs) == 0 {
		return &ValidationError{Err: errors.New(ve.Message)}
	}
	return errors.Join(errs...)
}

func collectSchemaErrors(errs *[]error, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: pointerToPath(ve.InstanceLocation),
			Err:  errors.New(ve.Message),
		})
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// pointerToPath turns a JSON pointer like "/tasks/0/time" into "tasks[0].time".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
