package task

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultCapacity is the maximum number of tasks a Store holds unless
// configured otherwise.
const DefaultCapacity = 100

// MaxDescriptionBytes is the longest description a task can hold.
const MaxDescriptionBytes = 255

// DefaultReminderLead is how long before a task's due time its reminder fires.
const DefaultReminderLead = 15 * time.Minute

var (
	// ErrNotFound is returned when no task has the requested number.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidTime is returned for an hour or minute out of range.
	ErrInvalidTime = errors.New("invalid time")
	// ErrInvalidDescription is returned for a description the task file cannot hold.
	ErrInvalidDescription = errors.New("invalid description")
	// ErrCapacityExceeded is returned when adding to a full list.
	ErrCapacityExceeded = errors.New("too many tasks")
	// ErrPersistence is returned when the task file cannot be written or read.
	ErrPersistence = errors.New("task file not saved")
)

// Clock is a time of day with minute granularity.
type Clock struct {
	Hour   int
	Minute int
}

// ClockOf returns the wall clock of t in t's location.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseClock parses "H:M" or "HH:MM" and validates the ranges.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return Clock{}, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidTime, s)
	}
	hour, err := parseTwoDigits(hh)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: hour %q", ErrInvalidTime, hh)
	}
	minute, err := parseTwoDigits(mm)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: minute %q", ErrInvalidTime, mm)
	}
	c := Clock{Hour: hour, Minute: minute}
	if err := c.Validate(); err != nil {
		return Clock{}, err
	}
	return c, nil
}

func parseTwoDigits(s string) (int, error) {
	if len(s) == 0 || len(s) > 2 {
		return 0, fmt.Errorf("want 1 or 2 digits, got %q", s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
	}
	return strconv.Atoi(s)
}

// Validate reports ErrInvalidTime unless 0 <= Hour < 24 and 0 <= Minute < 60.
func (c Clock) Validate() error {
	if c.Hour < 0 || c.Hour >= 24 {
		return fmt.Errorf("%w: hour %d out of range 0-23", ErrInvalidTime, c.Hour)
	}
	if c.Minute < 0 || c.Minute >= 60 {
		return fmt.Errorf("%w: minute %d out of range 0-59", ErrInvalidTime, c.Minute)
	}
	return nil
}

// String renders the clock as zero-padded HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Task is a single entry in the day's list.
type Task struct {
	Number      int
	Description string
	Due         Clock
	Completed   bool
	Carried     bool // survived a carry-over without being completed
}

// StatusLabel returns "Done" or "Pending".
func (t Task) StatusLabel() string {
	if t.Completed {
		return statusDone
	}
	return statusPending
}

// Reminder is a notification that a pending task is due soon.
type Reminder struct {
	Task Task
	At   Clock // when the reminder fires
}

func validateDescription(desc string) error {
	if strings.ContainsAny(desc, "\r\n") {
		return fmt.Errorf("%w: must be a single line", ErrInvalidDescription)
	}
	if len(desc) > MaxDescriptionBytes {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrInvalidDescription, len(desc), MaxDescriptionBytes)
	}
	return nil
}

// Lead returns how long before the task's due time the reminder fires.
func (r Reminder) Lead() time.Duration {
	due := r.Task.Due.Hour*60 + r.Task.Due.Minute
	at := r.At.Hour*60 + r.At.Minute
	return time.Duration(due-at) * time.Minute
}
