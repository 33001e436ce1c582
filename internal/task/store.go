package task

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// CompletionLogger records a task that was marked done.
type CompletionLogger interface {
	LogCompletion(t Task) error
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity sets the maximum number of tasks. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithReminderLead sets how long before the due time a reminder fires.
func WithReminderLead(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.lead = d
		}
	}
}

// WithCompletionLog sets where MarkDone records completed tasks.
func WithCompletionLog(cl CompletionLogger) Option {
	return func(s *Store) {
		s.completions = cl
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store holds the ordered task list and mirrors it to the task file after
// every mutation. A Store is not safe for concurrent use.
type Store struct {
	path        string
	tasks       []Task
	capacity    int
	lead        time.Duration
	completions CompletionLogger
	logger      *log.Logger
}

// NewStore returns an empty store backed by path. Call Load to read the file.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		capacity: DefaultCapacity,
		lead:     DefaultReminderLead,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Capacity returns the maximum number of tasks.
func (s *Store) Capacity() int {
	return s.capacity
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Tasks returns a copy of the task list.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

// Get returns the task with the given number.
func (s *Store) Get(number int) (Task, error) {
	i := s.index(number)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %d", ErrNotFound, number)
	}
	return s.tasks[i], nil
}

// Load replaces the in-memory list with the contents of the task file.
// A missing file yields an empty list. Parsing stops at the first malformed
// block and keeps the tasks read before it.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.tasks = nil
			s.logger.Debug("no task file, starting empty", "path", s.path)
			return nil
		}
		return fmt.Errorf("%w: read %s: %w", ErrPersistence, s.path, err)
	}

	tasks, err := Decode(bytes.NewReader(data), s.capacity)
	if err != nil {
		s.logger.Warn("task file read stopped early", "path", s.path, "err", err)
	}
	renumber(tasks)
	s.tasks = tasks
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(tasks))
	return nil
}

// Save writes the full list to the task file, replacing its contents. The
// list is written to a temporary file in the same directory and renamed over
// the task file.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %w", ErrPersistence, dir, err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Chmod(0644); err != nil {
		s.logger.Debug("chmod temp task file", "path", tmpPath, "err", err)
	}

	if err := Encode(tmp, s.tasks); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write %s: %w", ErrPersistence, s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close %s: %w", ErrPersistence, tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: replace %s: %w", ErrPersistence, s.path, err)
	}
	s.logger.Debug("saved tasks", "path", s.path, "count", len(s.tasks))
	return nil
}

// Add appends a pending task and saves. A failed save leaves the list as it
// was.
func (s *Store) Add(description string, due Clock) (Task, error) {
	if err := due.Validate(); err != nil {
		return Task{}, err
	}
	if err := validateDescription(description); err != nil {
		return Task{}, err
	}
	if len(s.tasks) >= s.capacity {
		return Task{}, fmt.Errorf("%w: limit is %d", ErrCapacityExceeded, s.capacity)
	}

	t := Task{
		Number:      len(s.tasks) + 1,
		Description: description,
		Due:         due,
	}
	prev := slices.Clone(s.tasks)
	s.tasks = append(s.tasks, t)
	if err := s.commit(prev); err != nil {
		return Task{}, err
	}
	s.logger.Info("task added", "number", t.Number, "due", t.Due)
	return t, nil
}

// Edit replaces the description and due time of a task and saves. Completion
// and carry-over state are kept.
func (s *Store) Edit(number int, description string, due Clock) (Task, error) {
	if err := due.Validate(); err != nil {
		return Task{}, err
	}
	if err := validateDescription(description); err != nil {
		return Task{}, err
	}
	i := s.index(number)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %d", ErrNotFound, number)
	}

	prev := slices.Clone(s.tasks)
	s.tasks[i].Description = description
	s.tasks[i].Due = due
	if err := s.commit(prev); err != nil {
		return Task{}, err
	}
	s.logger.Info("task updated", "number", number, "due", due)
	return s.tasks[i], nil
}

// Delete removes a task, renumbers the tasks after it and saves.
func (s *Store) Delete(number int) error {
	i := s.index(number)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, number)
	}

	prev := slices.Clone(s.tasks)
	s.tasks = slices.Delete(s.tasks, i, i+1)
	renumber(s.tasks)
	if err := s.commit(prev); err != nil {
		return err
	}
	s.logger.Info("task deleted", "number", number, "remaining", len(s.tasks))
	return nil
}

// MarkDone marks a task completed, saves, and appends it to the completion
// log. Completion log failures are logged and never returned.
func (s *Store) MarkDone(number int) (Task, error) {
	i := s.index(number)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %d", ErrNotFound, number)
	}

	prev := slices.Clone(s.tasks)
	s.tasks[i].Completed = true
	t := s.tasks[i]
	if err := s.commit(prev); err != nil {
		return Task{}, err
	}
	if s.completions != nil {
		if err := s.completions.LogCompletion(t); err != nil {
			s.logger.Warn("completion log not written", "number", number, "err", err)
		}
	}
	s.logger.Info("task done", "number", number)
	return t, nil
}

// View yields the tasks whose completion state equals completed, in order.
func (s *Store) View(completed bool) iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, t := range s.tasks {
			if t.Completed != completed {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// CarryOver flags every pending task as carried and saves once.
func (s *Store) CarryOver() error {
	prev := slices.Clone(s.tasks)
	carried := 0
	for i := range s.tasks {
		if !s.tasks[i].Completed {
			s.tasks[i].Carried = true
			carried++
		}
	}
	if err := s.commit(prev); err != nil {
		return err
	}
	s.logger.Debug("carried over pending tasks", "count", carried)
	return nil
}

// CheckReminders returns a reminder for every pending task whose alert time
// equals now. It does not modify the store.
func (s *Store) CheckReminders(now Clock) []Reminder {
	var reminders []Reminder
	for _, t := range s.tasks {
		if t.Completed {
			continue
		}
		at, ok := alertClock(t.Due, s.lead)
		if !ok {
			continue
		}
		if at == now {
			reminders = append(reminders, Reminder{Task: t, At: at})
		}
	}
	return reminders
}

// Replace swaps the whole list for tasks, renumbering them by position, and
// saves. Every task is validated before anything changes.
func (s *Store) Replace(tasks []Task) error {
	if len(tasks) > s.capacity {
		return fmt.Errorf("%w: %d tasks, limit is %d", ErrCapacityExceeded, len(tasks), s.capacity)
	}
	for i, t := range tasks {
		if err := t.Due.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
		if err := validateDescription(t.Description); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
	}

	prev := s.tasks
	next := slices.Clone(tasks)
	renumber(next)
	s.tasks = next
	if err := s.commit(prev); err != nil {
		return err
	}
	s.logger.Info("tasks replaced", "count", len(next))
	return nil
}

// commit saves the list, restoring prev when the save fails so memory never
// holds a change the task file does not.
func (s *Store) commit(prev []Task) error {
	if err := s.Save(); err != nil {
		s.tasks = prev
		return err
	}
	return nil
}

func (s *Store) index(number int) int {
	for i := range s.tasks {
		if s.tasks[i].Number == number {
			return i
		}
	}
	return -1
}

// renumber makes numbers match positions.
func renumber(tasks []Task) {
	for i := range tasks {
		tasks[i].Number = i + 1
	}
}

// alertClock returns due minus lead, borrowing hours as needed. ok is false
// when the result falls before midnight.
func alertClock(due Clock, lead time.Duration) (Clock, bool) {
	hour := due.Hour
	minute := due.Minute - int(lead/time.Minute)
	for minute < 0 {
		minute += 60
		hour--
	}
	if hour < 0 {
		return Clock{}, false
	}
	return Clock{Hour: hour, Minute: minute}, true
}
