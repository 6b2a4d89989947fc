// Package stats provides a minimal metrics interface backed by go-metrics.
// We wrap go-metrics so callers get a StatsReceiver that can be passed down
// a call tree and scoped at each level, without leaking the underlying
// registry to anyone pulling in bsched as a library.
package stats

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
)

// Stats users can either reference this global receiver or construct their own.
var CurrentStatsReceiver StatsReceiver = NilStatsReceiver()

// Counter and Gauge come straight from go-metrics.
type Counter = metrics.Counter
type Gauge = metrics.Gauge

// Latency records callsite latency into a histogram, in nanoseconds.
// Usage: defer stat.Latency(name).Time().Stop()
type Latency interface {
	Time() Latency
	Stop()
}

// A registry wrapper for metrics collected about the scheduler.
//
// Hierarchical names are stored using a '/' path separator. Variadic name
// elements have '/' characters replaced by "_SLASH_" before use, instead of
// failing, because counter names can be dynamically generated (e.g. from
// event kinds) and stripping is better than panicking.
type StatsReceiver interface {
	// Return a stats receiver that will automatically namespace elements with
	// the given scope args.
	//
	//   statsReceiver.Scope("foo", "bar").Counter("baz")  // is equivalent to
	//   statsReceiver.Counter("foo", "bar", "baz")
	//
	Scope(scope ...string) StatsReceiver

	// Provides an event counter.
	Counter(name ...string) Counter

	// Provides a gauge, which holds an int64 value that can be set arbitrarily.
	Gauge(name ...string) Gauge

	// Provides a latency histogram. Values are recorded in nanoseconds.
	Latency(name ...string) Latency

	// Removes the given named stats item if it exists.
	Remove(name ...string)

	// Construct a JSON string by marshaling the registry.
	Render(pretty bool) []byte
}

// DefaultStatsReceiver is a small wrapper around a go-metrics registry.
func DefaultStatsReceiver() StatsReceiver {
	return &defaultStatsReceiver{registry: metrics.NewRegistry()}
}

type defaultStatsReceiver struct {
	registry metrics.Registry
	scope    []string
}

func (s *defaultStatsReceiver) Scope(scope ...string) StatsReceiver {
	return &defaultStatsReceiver{s.registry, s.scoped(scope...)}
}

func (s *defaultStatsReceiver) Counter(name ...string) Counter {
	return s.registry.GetOrRegister(s.scopedName(name...), metrics.NewCounter).(Counter)
}

func (s *defaultStatsReceiver) Gauge(name ...string) Gauge {
	return s.registry.GetOrRegister(s.scopedName(name...), metrics.NewGauge).(Gauge)
}

func (s *defaultStatsReceiver) Latency(name ...string) Latency {
	newHist := func() metrics.Histogram { return metrics.NewHistogram(metrics.NewUniformSample(1028)) }
	h := s.registry.GetOrRegister(s.scopedName(name...), newHist).(metrics.Histogram)
	return &latency{hist: h}
}

func (s *defaultStatsReceiver) Remove(name ...string) {
	s.registry.Unregister(s.scopedName(name...))
}

func (s *defaultStatsReceiver) Render(pretty bool) []byte {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(s.registry, "", "  ")
	} else {
		b, err = json.Marshal(s.registry)
	}
	if err != nil {
		panic("StatsRegistry bug, cannot be marshaled")
	}
	return b
}

// Append to existing scope and scrub slashes.
func (s *defaultStatsReceiver) scoped(scope ...string) []string {
	for i, sc := range scope {
		scope[i] = strings.Replace(sc, "/", "_SLASH_", -1)
	}
	return append(s.scope[:len(s.scope):len(s.scope)], scope...)
}

// Append to the existing scope and convert to slash-delimited string.
func (s *defaultStatsReceiver) scopedName(scope ...string) string {
	return strings.Join(s.scoped(scope...), "/")
}

type latency struct {
	hist  metrics.Histogram
	start time.Time
}

func (l *latency) Time() Latency {
	l.start = time.Now()
	return l
}

func (l *latency) Stop() {
	l.hist.Update(int64(time.Since(l.start)))
}

// NilStatsReceiver ignores all stats operations.
func NilStatsReceiver(scope ...string) StatsReceiver {
	return &nilStatsReceiver{}
}

type nilStatsReceiver struct{}

func (s *nilStatsReceiver) Scope(scope ...string) StatsReceiver { return s }
func (s *nilStatsReceiver) Counter(name ...string) Counter      { return metrics.NilCounter{} }
func (s *nilStatsReceiver) Gauge(name ...string) Gauge          { return metrics.NilGauge{} }
func (s *nilStatsReceiver) Latency(name ...string) Latency      { return &nilLatency{} }
func (s *nilStatsReceiver) Remove(name ...string)               {}
func (s *nilStatsReceiver) Render(pretty bool) []byte           { return []byte("{}") }

type nilLatency struct{}

func (l *nilLatency) Time() Latency { return l }
func (l *nilLatency) Stop()         {}
