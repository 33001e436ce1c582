// Package quotes reads the quote file and picks a quote to show at startup.
package quotes

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
)

// DefaultMax is the number of quotes read from a file unless configured.
const DefaultMax = 100

// Load reads up to max non-blank lines from path. A missing file yields no
// quotes and no error.
func Load(path string, max int) ([]string, error) {
	if max <= 0 {
		max = DefaultMax
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open quotes: %w", err)
	}
	defer f.Close()

	var quotes []string
	sc := bufio.NewScanner(f)
	for len(quotes) < max && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		quotes = append(quotes, line)
	}
	if err := sc.Err(); err != nil {
		return quotes, fmt.Errorf("read quotes: %w", err)
	}
	return quotes, nil
}

// Picker chooses quotes at random.
type Picker struct {
	rng *rand.Rand
}

// NewPicker returns a picker seeded from the runtime's random source.
func NewPicker() *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededPicker returns a deterministic picker.
func NewSeededPicker(seed1, seed2 uint64) *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Pick returns a random quote, or "" and false when there are none.
func (p *Picker) Pick(quotes []string) (string, bool) {
	if len(quotes) == 0 {
		return "", false
	}
	return quotes[p.rng.IntN(len(quotes))], true
}

// Random loads path and picks one quote.
func Random(path string, max int) (string, bool, error) {
	quotes, err := Load(path, max)
	if err != nil {
		return "", false, err
	}
	q, ok := NewPicker().Pick(quotes)
	return q, ok, nil
}
