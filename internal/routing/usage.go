package routing

import (
	"sync"
	"time"
)

// UsageEntry is one recorded model call.
type UsageEntry struct {
	Task         string
	Model        string
	Tier         Tier
	InputTokens  int
	OutputTokens int
	Cost         float64
	At           time.Time
}

// UsageStats summarizes recorded usage.
type UsageStats struct {
	Calls        int
	InputTokens  int
	OutputTokens int
	Cost         float64
	ByTask       map[string]int
	ByModel      map[string]int
}

// UsageRecorder receives one entry per model call.
type UsageRecorder interface {
	Record(entry UsageEntry)
}

// maxUsageEntries bounds the in-memory usage log so a long-lived worker
// does not grow without bound.
const maxUsageEntries = 1000

// UsageLog is a thread-safe, bounded log of model calls. Once full, the
// oldest entries are evicted; aggregate stats still cover every call
// ever recorded.
type UsageLog struct {
	mu      sync.Mutex
	entries []UsageEntry
	start   int
	stats   UsageStats
}

// NewUsageLog creates an empty usage log.
func NewUsageLog() *UsageLog {
	return &UsageLog{
		stats: UsageStats{
			ByTask:  make(map[string]int),
			ByModel: make(map[string]int),
		},
	}
}

// Record appends an entry, evicting the oldest when the log is full.
func (l *UsageLog) Record(entry UsageEntry) {
	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) < maxUsageEntries {
		l.entries = append(l.entries, entry)
	} else {
		l.entries[l.start] = entry
		l.start = (l.start + 1) % maxUsageEntries
	}

	l.stats.Calls++
	l.stats.InputTokens += entry.InputTokens
	l.stats.OutputTokens += entry.OutputTokens
	l.stats.Cost += entry.Cost
	l.stats.ByTask[entry.Task]++
	l.stats.ByModel[entry.Model]++
}

// Entries returns the retained entries, oldest first.
func (l *UsageLog) Entries() []UsageEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]UsageEntry, 0, len(l.entries))
	for i := 0; i < len(l.entries); i++ {
		out = append(out, l.entries[(l.start+i)%len(l.entries)])
	}
	return out
}

// Stats returns aggregate usage over every call ever recorded.
func (l *UsageLog) Stats() UsageStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.stats
	out.ByTask = make(map[string]int, len(l.stats.ByTask))
	for k, v := range l.stats.ByTask {
		out.ByTask[k] = v
	}
	out.ByModel = make(map[string]int, len(l.stats.ByModel))
	for k, v := range l.stats.ByModel {
		out.ByModel[k] = v
	}
	return out
}

// multiRecorder fans one entry out to several recorders.
type multiRecorder []UsageRecorder

func (m multiRecorder) Record(entry UsageEntry) {
	for _, r := range m {
		r.Record(entry)
	}
}

// MultiRecorder combines recorders into one. Nil recorders are skipped.
func MultiRecorder(recorders ...UsageRecorder) UsageRecorder {
	out := make(multiRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
