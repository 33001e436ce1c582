package task

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

type recordingLog struct {
	entries []Task
	err     error
}

func (r *recordingLog) LogCompletion(t Task) error {
	r.entries = append(r.entries, t)
	return r.err
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.txt")
	return NewStore(path, opts...)
}

func mustAdd(t *testing.T, s *Store, desc string, hour, minute int) Task {
	t.Helper()
	task, err := s.Add(desc, Clock{Hour: hour, Minute: minute})
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", desc, err)
	}
	return task
}

func numbers(tasks []Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Number)
	}
	return out
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Errorf("Load should not create the task file, stat err = %v", err)
	}
}

func TestAddAssignsDenseNumbers(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 7; i++ {
		mustAdd(t, s, "task", 9, i)
	}

	want := []int{1, 2, 3, 4, 5, 6, 7}
	if got := numbers(s.Tasks()); !slices.Equal(got, want) {
		t.Errorf("numbers: got %v, want %v", got, want)
	}
	for _, task := range s.Tasks() {
		if task.Completed || task.Carried {
			t.Errorf("task %d: new tasks should be pending and not carried", task.Number)
		}
	}
}

func TestAddInvalidTime(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
	}{
		{"hour 24", 24, 0},
		{"negative hour", -1, 0},
		{"minute 60", 10, 60},
		{"negative minute", 10, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			_, err := s.Add("x", Clock{Hour: tt.hour, Minute: tt.minute})
			if !errors.Is(err, ErrInvalidTime) {
				t.Fatalf("Add error: got %v, want ErrInvalidTime", err)
			}
			if s.Len() != 0 {
				t.Errorf("Len: got %d, want 0", s.Len())
			}
			if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
				t.Errorf("rejected Add should not write the task file")
			}
		})
	}
}

func TestAddRejectsMultilineDescription(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add("line one\nline two", Clock{Hour: 9})
	if !errors.Is(err, ErrInvalidDescription) {
		t.Fatalf("Add error: got %v, want ErrInvalidDescription", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
}

func TestDescriptionLengthLimit(t *testing.T) {
	s := newTestStore(t)
	longest := strings.Repeat("a", MaxDescriptionBytes)
	mustAdd(t, s, longest, 9, 0)
	mustAdd(t, s, "second", 10, 0)

	tooLong := longest + "a"
	if _, err := s.Add(tooLong, Clock{Hour: 11}); !errors.Is(err, ErrInvalidDescription) {
		t.Errorf("Add error: got %v, want ErrInvalidDescription", err)
	}
	if _, err := s.Edit(2, tooLong, Clock{Hour: 11}); !errors.Is(err, ErrInvalidDescription) {
		t.Errorf("Edit error: got %v, want ErrInvalidDescription", err)
	}
	if err := s.Replace([]Task{{Description: tooLong, Due: Clock{Hour: 11}}}); !errors.Is(err, ErrInvalidDescription) {
		t.Errorf("Replace error: got %v, want ErrInvalidDescription", err)
	}

	loaded := NewStore(s.Path())
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !slices.Equal(loaded.Tasks(), s.Tasks()) {
		t.Errorf("round trip:\n got  %d tasks\n want %d tasks", loaded.Len(), s.Len())
	}
}

func TestAddCapacityExceeded(t *testing.T) {
	s := newTestStore(t, WithCapacity(2))
	mustAdd(t, s, "a", 9, 0)
	mustAdd(t, s, "b", 9, 30)

	_, err := s.Add("c", Clock{Hour: 10})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Add error: got %v, want ErrCapacityExceeded", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len: got %d, want 2", s.Len())
	}
}

func TestDefaultCapacity(t *testing.T) {
	s := newTestStore(t)
	if s.Capacity() != DefaultCapacity {
		t.Errorf("Capacity: got %d, want %d", s.Capacity(), DefaultCapacity)
	}
	s = newTestStore(t, WithCapacity(0))
	if s.Capacity() != DefaultCapacity {
		t.Errorf("WithCapacity(0) should be ignored, got %d", s.Capacity())
	}
}

func TestEdit(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "A", 9, 0)
	mustAdd(t, s, "B", 10, 0)
	if _, err := s.MarkDone(2); err != nil {
		t.Fatalf("MarkDone failed: %v", err)
	}

	got, err := s.Edit(2, "B2", Clock{Hour: 11, Minute: 5})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	want := Task{Number: 2, Description: "B2", Due: Clock{Hour: 11, Minute: 5}, Completed: true}
	if got != want {
		t.Errorf("Edit: got %+v, want %+v", got, want)
	}

	reloaded := NewStore(s.Path())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if task, _ := reloaded.Get(2); task != want {
		t.Errorf("persisted: got %+v, want %+v", task, want)
	}
}

func TestEditNotFound(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "A", 9, 0)

	_, err := s.Edit(2, "B2", Clock{Hour: 11})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Edit error: got %v, want ErrNotFound", err)
	}
}

func TestEditInvalidTimeLeavesTask(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "A", 9, 0)

	_, err := s.Edit(1, "A2", Clock{Hour: 9, Minute: 75})
	if !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("Edit error: got %v, want ErrInvalidTime", err)
	}
	if task, _ := s.Get(1); task.Description != "A" {
		t.Errorf("Description: got %q, want A", task.Description)
	}
}

func TestDeleteRenumbers(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "A", 9, 0)
	mustAdd(t, s, "B", 10, 0)

	if err := s.Delete(1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	want := []Task{{Number: 1, Description: "B", Due: Clock{Hour: 10}}}
	if got := s.Tasks(); !slices.Equal(got, want) {
		t.Errorf("Tasks: got %+v, want %+v", got, want)
	}
}

func TestDeleteRoundTripDense(t *testing.T) {
	for k := 1; k <= 5; k++ {
		s := newTestStore(t)
		for i := 0; i < 5; i++ {
			mustAdd(t, s, "task", 8+i, 0)
		}
		if err := s.Delete(k); err != nil {
			t.Fatalf("Delete(%d) failed: %v", k, err)
		}

		reloaded := NewStore(s.Path())
		if err := reloaded.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		want := []int{1, 2, 3, 4}
		if got := numbers(reloaded.Tasks()); !slices.Equal(got, want) {
			t.Errorf("Delete(%d): numbers after reload got %v, want %v", k, got, want)
		}
		for _, task := range reloaded.Tasks() {
			if task.Due.Hour == 8+k-1 {
				t.Errorf("Delete(%d): deleted task still present: %+v", k, task)
			}
		}
	}
}

func TestDeleteNotFound(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "A", 9, 0)
	if err := s.Delete(3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete error: got %v, want ErrNotFound", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len: got %d, want 1", s.Len())
	}
}

func TestMarkDoneIdempotent(t *testing.T) {
	completions := &recordingLog{}
	s := newTestStore(t, WithCompletionLog(completions))
	mustAdd(t, s, "Write report", 14, 30)

	for i := 0; i < 2; i++ {
		task, err := s.MarkDone(1)
		if err != nil {
			t.Fatalf("MarkDone #%d failed: %v", i+1, err)
		}
		if !task.Completed {
			t.Errorf("MarkDone #%d: task not completed", i+1)
		}
	}
	if len(completions.entries) != 2 {
		t.Errorf("completion entries: got %d, want 2", len(completions.entries))
	}
}

func TestMarkDoneIgnoresCompletionLogFailure(t *testing.T) {
	completions := &recordingLog{err: errors.New("disk full")}
	s := newTestStore(t, WithCompletionLog(completions))
	mustAdd(t, s, "A", 9, 0)

	if _, err := s.MarkDone(1); err != nil {
		t.Fatalf("MarkDone should not fail on completion log errors: %v", err)
	}
	if task, _ := s.Get(1); !task.Completed {
		t.Error("task should be completed")
	}
}

func TestMarkDoneNotFound(t *testing.T) {
	completions := &recordingLog{}
	s := newTestStore(t, WithCompletionLog(completions))
	if _, err := s.MarkDone(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("MarkDone error: got %v, want ErrNotFound", err)
	}
	if len(completions.entries) != 0 {
		t.Errorf("completion entries: got %d, want 0", len(completions.entries))
	}
}

func TestView(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "A", 9, 0)
	mustAdd(t, s, "B", 10, 0)
	mustAdd(t, s, "C", 11, 0)
	if _, err := s.MarkDone(2); err != nil {
		t.Fatalf("MarkDone failed: %v", err)
	}

	pending := slices.Collect(s.View(false))
	if got := numbers(pending); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("pending: got %v, want [1 3]", got)
	}
	done := slices.Collect(s.View(true))
	if got := numbers(done); !slices.Equal(got, []int{2}) {
		t.Errorf("done: got %v, want [2]", got)
	}

	// Early break must stop iteration.
	count := 0
	for range s.View(false) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("early break: got %d iterations, want 1", count)
	}
}

func TestCarryOverIdempotent(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "A", 9, 0)
	mustAdd(t, s, "B", 10, 0)
	if _, err := s.MarkDone(1); err != nil {
		t.Fatalf("MarkDone failed: %v", err)
	}

	if err := s.CarryOver(); err != nil {
		t.Fatalf("CarryOver failed: %v", err)
	}
	once := s.Tasks()
	if err := s.CarryOver(); err != nil {
		t.Fatalf("CarryOver failed: %v", err)
	}
	twice := s.Tasks()

	if !slices.Equal(once, twice) {
		t.Errorf("CarryOver not idempotent: %+v vs %+v", once, twice)
	}
	if once[0].Carried {
		t.Error("completed task should not be carried")
	}
	if !once[1].Carried {
		t.Error("pending task should be carried")
	}
}

func TestCheckReminders(t *testing.T) {
	tests := []struct {
		name string
		due  Clock
		now  Clock
		want bool
	}{
		{"exactly fifteen before", Clock{14, 30}, Clock{14, 15}, true},
		{"one minute late", Clock{14, 30}, Clock{14, 16}, false},
		{"one minute early", Clock{14, 30}, Clock{14, 14}, false},
		{"at due time", Clock{14, 30}, Clock{14, 30}, false},
		{"borrow hour", Clock{10, 5}, Clock{9, 50}, true},
		{"borrow at quarter past", Clock{10, 15}, Clock{10, 0}, true},
		{"no wrap before midnight", Clock{0, 10}, Clock{23, 55}, false},
		{"first reminder of day", Clock{0, 15}, Clock{0, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			mustAdd(t, s, "task", tt.due.Hour, tt.due.Minute)

			got := s.CheckReminders(tt.now)
			if tt.want && len(got) != 1 {
				t.Fatalf("CheckReminders(%s): got %d reminders, want 1", tt.now, len(got))
			}
			if !tt.want && len(got) != 0 {
				t.Fatalf("CheckReminders(%s): got %d reminders, want 0", tt.now, len(got))
			}
			if tt.want && got[0].At != tt.now {
				t.Errorf("At: got %s, want %s", got[0].At, tt.now)
			}
		})
	}
}

func TestCheckRemindersSkipsCompleted(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Write report", 14, 30)
	mustAdd(t, s, "Call home", 14, 30)
	if _, err := s.MarkDone(1); err != nil {
		t.Fatalf("MarkDone failed: %v", err)
	}

	got := s.CheckReminders(Clock{14, 15})
	if len(got) != 1 || got[0].Task.Description != "Call home" {
		t.Errorf("CheckReminders: got %+v, want only Call home", got)
	}
}

func TestCheckRemindersCustomLead(t *testing.T) {
	s := newTestStore(t, WithReminderLead(90*time.Minute))
	mustAdd(t, s, "Standup", 10, 0)

	if got := s.CheckReminders(Clock{8, 30}); len(got) != 1 {
		t.Errorf("CheckReminders(08:30): got %d reminders, want 1", len(got))
	}
	if got := s.CheckReminders(Clock{9, 45}); len(got) != 0 {
		t.Errorf("CheckReminders(09:45): got %d reminders, want 0", len(got))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Write report", 14, 30)
	mustAdd(t, s, "  padded  description ", 0, 5)
	mustAdd(t, s, "", 23, 59)
	mustAdd(t, s, "Buy milk: 2%", 7, 0)
	if _, err := s.MarkDone(2); err != nil {
		t.Fatalf("MarkDone failed: %v", err)
	}
	if err := s.CarryOver(); err != nil {
		t.Fatalf("CarryOver failed: %v", err)
	}

	reloaded := NewStore(s.Path())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !slices.Equal(reloaded.Tasks(), s.Tasks()) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", reloaded.Tasks(), s.Tasks())
	}
}

func TestLoadStopsAtMalformedBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	content := "Task 1\nDescription: A\nTime: 09:00\nStatus: Pending\nCarried: No\n---\n" +
		"Task 2\nDescription: B\nTime: 10:00\nStatus: Done\nCarried: Yes\n---\n" +
		"Task 3\nDescription: C\nTime: 1"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []Task{
		{Number: 1, Description: "A", Due: Clock{9, 0}},
		{Number: 2, Description: "B", Due: Clock{10, 0}, Completed: true, Carried: true},
	}
	if got := s.Tasks(); !slices.Equal(got, want) {
		t.Errorf("Tasks: got %+v, want %+v", got, want)
	}
}

func TestLoadRenumbersAndCaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	content := "Task 4\nDescription: A\nTime: 09:00\nStatus: Pending\nCarried: No\n---\n" +
		"Task 9\nDescription: B\nTime: 10:00\nStatus: Pending\nCarried: No\n---\n" +
		"Task 12\nDescription: C\nTime: 11:00\nStatus: Pending\nCarried: No\n---\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore(path, WithCapacity(2))
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := numbers(s.Tasks()); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("numbers: got %v, want [1 2]", got)
	}
}

func TestSaveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "tasks.txt")
	s := NewStore(path)

	_, err := s.Add("A", Clock{Hour: 9})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("Add error: got %v, want ErrPersistence", err)
	}
	if s.Len() != 0 {
		t.Errorf("failed Add should not keep the task, Len = %d", s.Len())
	}
}

func TestFailedSaveLeavesListUnchanged(t *testing.T) {
	completions := &recordingLog{}
	s := newTestStore(t, WithCompletionLog(completions))
	mustAdd(t, s, "A", 9, 0)
	mustAdd(t, s, "B", 10, 0)
	want := s.Tasks()

	s.path = filepath.Join(t.TempDir(), "missing-dir", "tasks.txt")

	tests := []struct {
		name string
		op   func() error
	}{
		{"add", func() error { _, err := s.Add("C", Clock{Hour: 11}); return err }},
		{"edit", func() error { _, err := s.Edit(1, "A2", Clock{Hour: 8}); return err }},
		{"delete", func() error { return s.Delete(1) }},
		{"mark done", func() error { _, err := s.MarkDone(2); return err }},
		{"carry over", s.CarryOver},
		{"replace", func() error { return s.Replace([]Task{{Description: "Z", Due: Clock{Hour: 12}}}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, ErrPersistence) {
				t.Fatalf("error: got %v, want ErrPersistence", err)
			}
			if got := s.Tasks(); !slices.Equal(got, want) {
				t.Errorf("tasks after failed save:\n got  %+v\n want %+v", got, want)
			}
		})
	}
	if len(completions.entries) != 0 {
		t.Errorf("failed MarkDone should not log a completion, got %d entries", len(completions.entries))
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "tasks.txt"))
	mustAdd(t, s, "A", 9, 0)
	mustAdd(t, s, "B", 9, 30)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "tasks.txt" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries: got %v, want [tasks.txt]", names)
	}
}

func TestReplace(t *testing.T) {
	s := newTestStore(t, WithCapacity(3))
	mustAdd(t, s, "old", 8, 0)

	err := s.Replace([]Task{
		{Number: 7, Description: "x", Due: Clock{9, 0}},
		{Number: 3, Description: "y", Due: Clock{10, 0}, Completed: true},
	})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if got := numbers(s.Tasks()); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("numbers: got %v, want [1 2]", got)
	}

	err = s.Replace(make([]Task, 4))
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Replace over capacity: got %v, want ErrCapacityExceeded", err)
	}
	err = s.Replace([]Task{{Description: "bad", Due: Clock{25, 0}}})
	if !errors.Is(err, ErrInvalidTime) {
		t.Errorf("Replace invalid time: got %v, want ErrInvalidTime", err)
	}
	if s.Len() != 2 {
		t.Errorf("failed Replace should keep the list, Len = %d", s.Len())
	}
}
