// Package logger provides structured logging and in-run metrics for the
// frankenevents pipeline.
//
// Logging is backed by zap. Components obtain named loggers via Get, so log
// lines carry the component name ("source.rss", "resolver", ...). Metrics
// are simple in-process counters and timings that the run summary reads at
// the end of a batch; they are not exported anywhere.
package logger

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.Mutex
	root *zap.Logger
)

// Init configures the process-wide logger. Verbose enables debug output.
// Safe to call more than once; the last call wins.
func Init(verbose bool) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)

	mu.Lock()
	defer mu.Unlock()
	root = zap.New(core)
}

// Get returns a named logger. Init is called lazily with defaults if the
// caller never configured logging (useful in tests).
func Get(name string) *zap.SugaredLogger {
	mu.Lock()
	if root == nil {
		mu.Unlock()
		Init(false)
		mu.Lock()
	}
	l := root
	mu.Unlock()
	return l.Named(name).Sugar()
}

// Metrics tracks counters and timings for a single run. Thread-safe.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

// NewMetrics creates an empty metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

// Incr increments a counter by one.
func (m *Metrics) Incr(name string) {
	m.Add(name, 1)
}

// Add increments a counter by n.
func (m *Metrics) Add(name string, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += n
}

// Counter returns the current value of a counter (zero if never touched).
func (m *Metrics) Counter(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// RecordTiming records one duration measurement under name.
func (m *Metrics) RecordTiming(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], d)
}

// TimingTotal returns the summed duration recorded under name.
func (m *Metrics) TimingTotal(name string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total time.Duration
	for _, d := range m.timings[name] {
		total += d
	}
	return total
}
