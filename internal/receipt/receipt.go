// Package receipt defines the receipt number scheme shared by every sale
// store implementation.
//
// Numbers look like POS-20260901-000042: a date prefix followed by a per-day
// sequence. The date prefix makes values time-sortable and lets reporting
// query receipts by range; the sequence comes from a counter incremented
// inside the same transaction that commits the sale, so two sales can never
// allocate the same number.
package receipt

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	prefix    = "POS"
	dayLayout = "20060102"
)

// DayKey returns the counter bucket for t, in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// Format renders a receipt number from a day key and sequence.
func Format(dayKey string, seq int64) string {
	return fmt.Sprintf("%s-%s-%06d", prefix, dayKey, seq)
}

// Parse splits a receipt number into its day and sequence.
func Parse(number string) (time.Time, int64, error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != prefix {
		return time.Time{}, 0, fmt.Errorf("malformed receipt number %q", number)
	}
	day, err := time.ParseInLocation(dayLayout, parts[1], time.UTC)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("malformed receipt number %q: %w", number, err)
	}
	seq, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || seq < 1 {
		return time.Time{}, 0, fmt.Errorf("malformed receipt number %q", number)
	}
	return day, seq, nil
}

// Counter is the in-memory allocator used by the memory store. The postgres
// store keeps the equivalent state in the receipt_counters table.
type Counter struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func NewCounter() *Counter {
	return &Counter{seqs: make(map[string]int64)}
}

// Next allocates the next receipt number for the given instant.
func (c *Counter) Next(t time.Time) string {
	day := DayKey(t)

	c.mu.Lock()
	c.seqs[day]++
	seq := c.seqs[day]
	c.mu.Unlock()

	return Format(day, seq)
}
