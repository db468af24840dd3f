package measure

import (
	"sync"
)

type DefaultMeasure struct {
	mu    sync.Mutex
	steps map[string]Metric
	names []string
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		steps: make(map[string]Metric),
	}
}

// AddMetric registers a metric for name. Adding an existing name returns the existing metric.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.steps[name]; ok {
		return mt
	}

	mt := &DefaultMetric{
		mu: &sync.Mutex{},
	}
	m.steps[name] = mt
	m.names = append(m.names, name)

	return mt
}

// GetMetric returns nil when name has not been added.
func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt, ok := m.steps[name]
	if !ok {
		return nil
	}

	return mt
}

func (m *DefaultMeasure) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.names...)
}

var _ Measure = (*DefaultMeasure)(nil)
