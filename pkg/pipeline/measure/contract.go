package measure

import "time"

// Measure keeps one metric per stage.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	// Names returns the metric names in the order they were added.
	Names() []string
}

// Metric accumulates the executions of one stage.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddFailure()
	AVGDuration() time.Duration
	TotalDuration() time.Duration
	Executions() int64
	Failures() int64
}
