// Package progress implements named, concurrency-safe counters for
// human-readable progress lines.
package progress

import (
	"strconv"
	"strings"
	"sync"
)

// Meter holds a set of independent named counters, each with a fixed
// total set at Init time.
type Meter struct {
	mu       sync.Mutex
	counters map[string]*counter
}

type counter struct {
	n     int64
	total int64
}

// New creates an empty Meter.
func New() *Meter {
	return &Meter{counters: make(map[string]*counter)}
}

// Init (re)registers id with the given total and resets its count to 0.
func (m *Meter) Init(id string, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[id] = &counter{total: total}
}

// Increment atomically advances id's counter and returns the new value,
// strictly increasing per id.
func (m *Meter) Increment(id string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counters[id]
	if !ok {
		c = &counter{}
		m.counters[id] = c
	}
	c.n++
	return c.n
}

// Snapshot returns a consistent (n, total) pair for id.
func (m *Meter) Snapshot(id string) (n, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counters[id]
	if !ok {
		return 0, 0
	}
	return c.n, c.total
}

// Format substitutes {n}, {t} and {p} (percentage, 0 when total is 0) into
// template using a consistent (n, total) snapshot for id.
func (m *Meter) Format(id, template string) string {
	n, total := m.Snapshot(id)
	percent := int64(0)
	if total > 0 {
		percent = n * 100 / total
	}
	r := strings.NewReplacer(
		"{n}", strconv.FormatInt(n, 10),
		"{t}", strconv.FormatInt(total, 10),
		"{p}", strconv.FormatInt(percent, 10),
	)
	return r.Replace(template)
}

// String renders every registered counter, one per line, for diagnostic
// dumps (not the per-file progress line, which callers build via Format).
func (m *Meter) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	for id, c := range m.counters {
		b.WriteString(id)
		b.WriteString(": ")
		b.WriteString(strconv.FormatInt(c.n, 10))
		b.WriteString("/")
		b.WriteString(strconv.FormatInt(c.total, 10))
		b.WriteString("\n")
	}
	return b.String()
}

// Log renders every counter through the caller-supplied printf-style logf
// (for example an ilog level function).
func (m *Meter) Log(logf func(format string, args ...any)) {
	logf("%s", m.String())
}
