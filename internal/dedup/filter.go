// Package dedup removes replicate records from a stream using 64-bit
// content fingerprints.
//
// The first record carrying a given payload is kept and every later record
// whose payload hashes to the same fingerprint is dropped. Only fingerprints
// are held in memory, so the footprint grows with the number of distinct
// payloads rather than with the number of bases. Two distinct payloads that
// collide are treated as replicates; with a 64-bit hash this is rare enough
// to be accepted.
package dedup

import (
	"time"

	"go.uber.org/zap"

	"github.com/inodb/fastx-tools/internal/metrics"
)

// State is the lifecycle position of a Filter.
type State int

const (
	StateIdle State = iota
	StateReading
	StateHashing
	StateLookup
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateHashing:
		return "hashing"
	case StateLookup:
		return "lookup"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further processing is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Stats holds the counters of one run. Read always equals Written + Removed.
type Stats struct {
	Read    uint64
	Written uint64
	Removed uint64

	// Phase timings, only collected when profiling is enabled.
	HashTime   time.Duration
	LookupTime time.Duration
	InsertTime time.Duration
}

// Filter owns the fingerprint index of a single run.
type Filter struct {
	hasher  Hasher
	index   Index
	profile bool
	logger  *zap.Logger

	state State
	stats Stats
}

// NewFilter creates a filter using h to fingerprint payloads and idx to
// remember them. A nil idx selects an unbounded SetIndex.
func NewFilter(h Hasher, idx Index) *Filter {
	if idx == nil {
		idx = NewSetIndex(0, 0)
	}
	return &Filter{
		hasher: h,
		index:  idx,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and diagnostic messages.
func (f *Filter) SetLogger(l *zap.Logger) {
	f.logger = l
}

// SetProfile enables per-phase timing in Stats.
func (f *Filter) SetProfile(enabled bool) {
	f.profile = enabled
}

// Hasher returns the hash function in use.
func (f *Filter) Hasher() Hasher {
	return f.hasher
}

// Stats returns a snapshot of the counters.
func (f *Filter) Stats() Stats {
	return f.stats
}

// State returns the current lifecycle state.
func (f *Filter) State() State {
	return f.state
}

// Distinct returns the number of fingerprints in the index.
func (f *Filter) Distinct() int {
	return f.index.Len()
}

func (f *Filter) start() error {
	if f.state != StateIdle {
		return ErrFinished
	}
	f.state = StateReading
	return nil
}

func (f *Filter) finish() {
	f.state = StateDone
	metrics.DedupIndexEntries.Set(float64(f.index.Len()))
	if f.profile {
		metrics.DedupPhaseSeconds.WithLabelValues("hash").Add(f.stats.HashTime.Seconds())
		metrics.DedupPhaseSeconds.WithLabelValues("lookup").Add(f.stats.LookupTime.Seconds())
		metrics.DedupPhaseSeconds.WithLabelValues("insert").Add(f.stats.InsertTime.Seconds())
	}
	f.logger.Debug("dedup finished",
		zap.Uint64("read", f.stats.Read),
		zap.Uint64("written", f.stats.Written),
		zap.Uint64("removed", f.stats.Removed),
		zap.Int("distinct", f.index.Len()))
}

func (f *Filter) fail(err error) {
	f.state = StateFailed
	metrics.DedupIndexEntries.Set(float64(f.index.Len()))
	f.logger.Debug("dedup aborted",
		zap.Uint64("read", f.stats.Read),
		zap.Error(err))
}

// fingerprint hashes payload, recording hash time when profiling.
func (f *Filter) fingerprint(payload []byte) uint64 {
	f.state = StateHashing
	if !f.profile {
		return f.hasher.Sum64(payload)
	}
	start := time.Now()
	fp := f.hasher.Sum64(payload)
	f.stats.HashTime += time.Since(start)
	return fp
}

// classify looks fp up and inserts it when absent. It reports whether the
// record carrying fp is a first occurrence.
func (f *Filter) classify(fp uint64) (bool, error) {
	f.state = StateLookup

	var seen bool
	if f.profile {
		start := time.Now()
		seen = f.index.Contains(fp)
		f.stats.LookupTime += time.Since(start)
	} else {
		seen = f.index.Contains(fp)
	}
	if seen {
		return false, nil
	}

	if f.profile {
		start := time.Now()
		err := f.index.Insert(fp)
		f.stats.InsertTime += time.Since(start)
		return true, err
	}
	return true, f.index.Insert(fp)
}

// kept counts a first occurrence that reached the sink.
func (f *Filter) kept() {
	f.stats.Read++
	f.stats.Written++
	metrics.DedupRecordsRead.Inc()
	metrics.DedupRecordsWritten.Inc()
}

// dropped counts a replicate.
func (f *Filter) dropped() {
	f.stats.Read++
	f.stats.Removed++
	metrics.DedupRecordsRead.Inc()
	metrics.DedupRecordsRemoved.Inc()
}
