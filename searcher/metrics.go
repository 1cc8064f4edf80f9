package searcher

import (
	"sync/atomic"
	"time"
)

type SearchMetrics struct {
	StartTime  time.Time
	Duration   time.Duration
	Candidates int64
	BestScore  int
}

type MetricsCollector interface {
	Start()
	AddCandidate()
	Complete(bestScore int) SearchMetrics
}

type metricsCollector struct {
	startTime  time.Time
	candidates atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
	m.candidates.Store(0)
}

func (m *metricsCollector) AddCandidate() {
	m.candidates.Add(1)
}

func (m *metricsCollector) Complete(bestScore int) SearchMetrics {
	return SearchMetrics{
		StartTime:  m.startTime,
		Duration:   time.Since(m.startTime),
		Candidates: m.candidates.Load(),
		BestScore:  bestScore,
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                     {}
func (m *noMetricsCollector) AddCandidate()              {}
func (m *noMetricsCollector) Complete(int) SearchMetrics { return SearchMetrics{} }
