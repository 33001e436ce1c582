package task

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	statusDone    = "Done"
	statusPending = "Pending"
	carriedYes    = "Yes"
	carriedNo     = "No"

	blockSeparator = "---"
)

// maxLineBytes bounds a single line in the task file.
const maxLineBytes = 1 << 20

// Encode writes tasks to w in the block format, in slice order.
func Encode(w io.Writer, tasks []Task) error {
	bw := bufio.NewWriter(w)
	for _, t := range tasks {
		carried := carriedNo
		if t.Carried {
			carried = carriedYes
		}
		if _, err := fmt.Fprintf(bw, "Task %d\nDescription: %s\nTime: %s\nStatus: %s\nCarried: %s\n%s\n",
			t.Number, t.Description, t.Due, t.StatusLabel(), carried, blockSeparator); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads blocks from r until EOF or the first block that fails to
// parse. It returns the tasks read so far; a malformed block is not an error.
// Only I/O errors from r are returned. At most limit tasks are read when
// limit > 0.
func Decode(r io.Reader, limit int) ([]Task, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	var tasks []Task
	for limit <= 0 || len(tasks) < limit {
		t, ok := decodeBlock(sc)
		if !ok {
			break
		}
		tasks = append(tasks, t)
	}
	if err := sc.Err(); err != nil {
		return tasks, err
	}
	return tasks, nil
}

// decodeBlock reads one six-line block. ok is false at EOF or on any
// deviation from the format.
func decodeBlock(sc *bufio.Scanner) (Task, bool) {
	var t Task

	line, ok := nextLine(sc)
	if !ok {
		return t, false
	}
	num, ok := cutField(line, "Task ")
	if !ok {
		return t, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n <= 0 {
		return t, false
	}
	t.Number = n

	if line, ok = nextLine(sc); !ok {
		return t, false
	}
	desc, ok := cutField(line, "Description:")
	if !ok {
		return t, false
	}
	t.Description = strings.TrimPrefix(desc, " ")

	if line, ok = nextLine(sc); !ok {
		return t, false
	}
	clock, ok := cutField(line, "Time:")
	if !ok {
		return t, false
	}
	due, err := ParseClock(clock)
	if err != nil {
		return t, false
	}
	t.Due = due

	if line, ok = nextLine(sc); !ok {
		return t, false
	}
	status, ok := cutField(line, "Status:")
	if !ok {
		return t, false
	}
	t.Completed = strings.TrimSpace(status) == statusDone

	if line, ok = nextLine(sc); !ok {
		return t, false
	}
	carried, ok := cutField(line, "Carried:")
	if !ok {
		return t, false
	}
	t.Carried = strings.TrimSpace(carried) == carriedYes

	if line, ok = nextLine(sc); !ok || strings.TrimSpace(line) != blockSeparator {
		return t, false
	}
	return t, true
}

func nextLine(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSuffix(sc.Text(), "\r"), true
}

func cutField(line, prefix string) (string, bool) {
	return strings.CutPrefix(line, prefix)
}
