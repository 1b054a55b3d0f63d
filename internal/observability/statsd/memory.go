package statsd

import (
	"maps"
	"sync"
	"time"
)

// Metric is one observation captured by a MemorySink.
type Metric struct {
	Kind  string
	Name  string
	Value float64
	Tags  map[string]string
}

// MemorySink records metrics in memory. Tests use it to assert emissions.
type MemorySink struct {
	mu      sync.Mutex
	metrics []Metric
}

var _ Sink = (*MemorySink)(nil)

func (m *MemorySink) Count(name string, value int64, tags map[string]string) {
	m.add(Metric{Kind: "c", Name: name, Value: float64(value), Tags: maps.Clone(tags)})
}

func (m *MemorySink) Gauge(name string, value float64, tags map[string]string) {
	m.add(Metric{Kind: "g", Name: name, Value: value, Tags: maps.Clone(tags)})
}

func (m *MemorySink) Timing(name string, value time.Duration, tags map[string]string) {
	m.add(Metric{Kind: "ms", Name: name, Value: float64(value) / float64(time.Millisecond), Tags: maps.Clone(tags)})
}

func (m *MemorySink) add(metric Metric) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = append(m.metrics, metric)
}

// Metrics returns a copy of everything recorded so far.
func (m *MemorySink) Metrics() []Metric {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Metric, len(m.metrics))
	copy(out, m.metrics)
	return out
}

// Named returns the recorded metrics with the given name.
func (m *MemorySink) Named(name string) []Metric {
	var out []Metric
	for _, metric := range m.Metrics() {
		if metric.Name == name {
			out = append(out, metric)
		}
	}
	return out
}
