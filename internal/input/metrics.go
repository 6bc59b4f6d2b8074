package input

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const maxLatencySamples = 1000

// Metrics tracks dispatch counters and latencies.
type Metrics struct {
	keysTotal        atomic.Uint64
	commandsTotal    atomic.Uint64
	badCommands      atomic.Uint64
	mappingsApplied  atomic.Uint64
	sequenceTimeouts atomic.Uint64
	recursionLimits  atomic.Uint64
	hookConsumptions atomic.Uint64

	mu               sync.Mutex
	keyLatencies     []time.Duration
	commandLatencies []time.Duration
	keyIdx           int
	commandIdx       int

	peakKeyLatency atomic.Int64

	startTime time.Time
	enabled   atomic.Bool
}

// NewMetrics creates an enabled metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		keyLatencies:     make([]time.Duration, maxLatencySamples),
		commandLatencies: make([]time.Duration, maxLatencySamples),
		startTime:        time.Now(),
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// RecordKey records one dispatched key with its processing time.
func (m *Metrics) RecordKey(latency time.Duration) {
	if !m.enabled.Load() {
		return
	}
	m.keysTotal.Add(1)

	ns := latency.Nanoseconds()
	for {
		current := m.peakKeyLatency.Load()
		if ns <= current || m.peakKeyLatency.CompareAndSwap(current, ns) {
			break
		}
	}

	m.mu.Lock()
	m.keyLatencies[m.keyIdx] = latency
	m.keyIdx = (m.keyIdx + 1) % maxLatencySamples
	m.mu.Unlock()
}

// RecordCommand records one executed command.
func (m *Metrics) RecordCommand(latency time.Duration) {
	if !m.enabled.Load() {
		return
	}
	m.commandsTotal.Add(1)

	m.mu.Lock()
	m.commandLatencies[m.commandIdx] = latency
	m.commandIdx = (m.commandIdx + 1) % maxLatencySamples
	m.mu.Unlock()
}

func (m *Metrics) count(c *atomic.Uint64) {
	if m.enabled.Load() {
		c.Add(1)
	}
}

// RecordBadCommand records keys that formed no command.
func (m *Metrics) RecordBadCommand() { m.count(&m.badCommands) }

// RecordMapping records an applied mapping.
func (m *Metrics) RecordMapping() { m.count(&m.mappingsApplied) }

// RecordSequenceTimeout records a mapping timeout.
func (m *Metrics) RecordSequenceTimeout() { m.count(&m.sequenceTimeouts) }

// RecordRecursionLimit records a key dropped at the mapping depth limit.
func (m *Metrics) RecordRecursionLimit() { m.count(&m.recursionLimits) }

// RecordHookConsumption records a key or command consumed by a hook.
func (m *Metrics) RecordHookConsumption() { m.count(&m.hookConsumptions) }

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	KeysTotal        uint64
	CommandsTotal    uint64
	BadCommands      uint64
	MappingsApplied  uint64
	SequenceTimeouts uint64
	RecursionLimits  uint64
	HookConsumptions uint64

	AvgKeyLatency  time.Duration
	P99KeyLatency  time.Duration
	PeakKeyLatency time.Duration

	AvgCommandLatency time.Duration
	P99CommandLatency time.Duration

	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	keys := append([]time.Duration(nil), m.keyLatencies...)
	commands := append([]time.Duration(nil), m.commandLatencies...)
	start := m.startTime
	m.mu.Unlock()

	snap := MetricsSnapshot{
		KeysTotal:        m.keysTotal.Load(),
		CommandsTotal:    m.commandsTotal.Load(),
		BadCommands:      m.badCommands.Load(),
		MappingsApplied:  m.mappingsApplied.Load(),
		SequenceTimeouts: m.sequenceTimeouts.Load(),
		RecursionLimits:  m.recursionLimits.Load(),
		HookConsumptions: m.hookConsumptions.Load(),
		PeakKeyLatency:   time.Duration(m.peakKeyLatency.Load()),
		Uptime:           time.Since(start),
	}
	snap.AvgKeyLatency, snap.P99KeyLatency = latencyStats(keys)
	snap.AvgCommandLatency, snap.P99CommandLatency = latencyStats(commands)
	return snap
}

// latencyStats computes the average and p99 of the recorded samples.
// Unused slots of the ring are zero and skipped.
func latencyStats(samples []time.Duration) (avg, p99 time.Duration) {
	valid := samples[:0]
	for _, l := range samples {
		if l > 0 {
			valid = append(valid, l)
		}
	}
	if len(valid) == 0 {
		return 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
	}
	avg = sum / time.Duration(len(valid))

	sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })
	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	return avg, valid[idx]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Uint64{
		&m.keysTotal, &m.commandsTotal, &m.badCommands, &m.mappingsApplied,
		&m.sequenceTimeouts, &m.recursionLimits, &m.hookConsumptions,
	} {
		c.Store(0)
	}
	m.peakKeyLatency.Store(0)

	m.mu.Lock()
	m.keyLatencies = make([]time.Duration, maxLatencySamples)
	m.commandLatencies = make([]time.Duration, maxLatencySamples)
	m.keyIdx = 0
	m.commandIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}

// Timer measures one key or command.
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// StartKeyTimer starts timing a key.
func (m *Metrics) StartKeyTimer() *Timer {
	return &Timer{start: time.Now(), metrics: m}
}

// StartCommandTimer starts timing a command.
func (m *Metrics) StartCommandTimer() *Timer {
	return &Timer{start: time.Now(), metrics: m}
}

// Stop records the elapsed time as key latency.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.RecordKey(elapsed)
	return elapsed
}

// StopCommand records the elapsed time as command latency.
func (t *Timer) StopCommand() time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.RecordCommand(elapsed)
	return elapsed
}
