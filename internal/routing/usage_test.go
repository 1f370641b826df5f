package routing

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageLog_RecordAndStats(t *testing.T) {
	log := NewUsageLog()
	log.Record(UsageEntry{Task: TaskQualifyMatch, Model: "m1", InputTokens: 100, OutputTokens: 50, Cost: 0.01})
	log.Record(UsageEntry{Task: TaskQualifyMatch, Model: "m2", InputTokens: 200, OutputTokens: 25, Cost: 0.02})

	stats := log.Stats()
	assert.Equal(t, 2, stats.Calls)
	assert.Equal(t, 300, stats.InputTokens)
	assert.Equal(t, 75, stats.OutputTokens)
	assert.InDelta(t, 0.03, stats.Cost, 1e-9)
	assert.Equal(t, 2, stats.ByTask[TaskQualifyMatch])
	assert.Equal(t, 1, stats.ByModel["m1"])
}

func TestUsageLog_EvictsOldestAtCapacity(t *testing.T) {
	log := NewUsageLog()
	for i := 0; i < maxUsageEntries+5; i++ {
		log.Record(UsageEntry{Task: fmt.Sprintf("t%d", i), Model: "m"})
	}

	entries := log.Entries()
	require.Len(t, entries, maxUsageEntries)
	assert.Equal(t, "t5", entries[0].Task, "oldest entries evicted first")
	assert.Equal(t, fmt.Sprintf("t%d", maxUsageEntries+4), entries[len(entries)-1].Task)

	// Aggregates still count evicted calls.
	assert.Equal(t, maxUsageEntries+5, log.Stats().Calls)
}

func TestUsageLog_EntryOrderBeforeWraparound(t *testing.T) {
	log := NewUsageLog()
	log.Record(UsageEntry{Task: "first"})
	log.Record(UsageEntry{Task: "second"})

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Task)
	assert.Equal(t, "second", entries[1].Task)
	assert.False(t, entries[0].At.IsZero(), "timestamp stamped at record time")
}

func TestMultiRecorder_FansOutAndSkipsNil(t *testing.T) {
	a := NewUsageLog()
	b := NewUsageLog()
	rec := MultiRecorder(a, nil, b)

	rec.Record(UsageEntry{Task: "t", Model: "m"})
	assert.Equal(t, 1, a.Stats().Calls)
	assert.Equal(t, 1, b.Stats().Calls)
}

func TestPromRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPromRecorder(reg)

	rec.Record(UsageEntry{Task: TaskGTMContent, Model: "m", InputTokens: 10, OutputTokens: 4, Cost: 0.5})
	rec.Record(UsageEntry{Task: TaskGTMContent, Model: "m", InputTokens: 5, OutputTokens: 1, Cost: 0.25})

	assert.Equal(t, float64(2), testutil.ToFloat64(rec.calls.WithLabelValues(TaskGTMContent, "m")))
	assert.Equal(t, float64(15), testutil.ToFloat64(rec.tokens.WithLabelValues("m", "input")))
	assert.Equal(t, float64(5), testutil.ToFloat64(rec.tokens.WithLabelValues("m", "output")))
	assert.InDelta(t, 0.75, testutil.ToFloat64(rec.cost.WithLabelValues("m")), 1e-9)
}
