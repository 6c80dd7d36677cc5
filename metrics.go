package fmgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after each index construction.
	// n is the number of indexed bases, err is nil if successful.
	RecordBuild(n int, duration time.Duration, err error)

	// RecordRange is called after each backward search.
	// queryLen is the query length in bases.
	RecordRange(queryLen int, duration time.Duration, err error)

	// RecordOffsets is called after each positional decode.
	// count is the number of suffix-array rows resolved.
	RecordOffsets(count int, duration time.Duration, err error)

	// RecordSave is called after each serialization.
	RecordSave(duration time.Duration, err error)

	// RecordLoad is called after each deserialization.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordRange(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordOffsets(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(time.Duration, error)         {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount        atomic.Int64
	BuildErrors       atomic.Int64
	BuildTotalNanos   atomic.Int64
	RangeCount        atomic.Int64
	RangeErrors       atomic.Int64
	RangeTotalNanos   atomic.Int64
	OffsetsCount      atomic.Int64
	OffsetsRows       atomic.Int64
	OffsetsTotalNanos atomic.Int64
	SaveCount         atomic.Int64
	SaveErrors        atomic.Int64
	LoadCount         atomic.Int64
	LoadErrors        atomic.Int64
}

func (m *BasicMetricsCollector) RecordBuild(n int, d time.Duration, err error) {
	m.BuildCount.Add(1)
	m.BuildTotalNanos.Add(int64(d))
	if err != nil {
		m.BuildErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordRange(queryLen int, d time.Duration, err error) {
	m.RangeCount.Add(1)
	m.RangeTotalNanos.Add(int64(d))
	if err != nil {
		m.RangeErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordOffsets(count int, d time.Duration, err error) {
	m.OffsetsCount.Add(1)
	m.OffsetsRows.Add(int64(count))
	m.OffsetsTotalNanos.Add(int64(d))
}

func (m *BasicMetricsCollector) RecordSave(d time.Duration, err error) {
	m.SaveCount.Add(1)
	if err != nil {
		m.SaveErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordLoad(d time.Duration, err error) {
	m.LoadCount.Add(1)
	if err != nil {
		m.LoadErrors.Add(1)
	}
}

// Stats is a point-in-time snapshot of a BasicMetricsCollector.
type Stats struct {
	BuildCount     int64
	BuildErrors    int64
	BuildAvgNanos  int64
	RangeCount     int64
	RangeErrors    int64
	RangeAvgNanos  int64
	OffsetsCount   int64
	OffsetsRows    int64
	SaveCount      int64
	SaveErrors     int64
	LoadCount      int64
	LoadErrors     int64
}

// GetStats returns a snapshot of the collected metrics.
func (m *BasicMetricsCollector) GetStats() Stats {
	s := Stats{
		BuildCount:   m.BuildCount.Load(),
		BuildErrors:  m.BuildErrors.Load(),
		RangeCount:   m.RangeCount.Load(),
		RangeErrors:  m.RangeErrors.Load(),
		OffsetsCount: m.OffsetsCount.Load(),
		OffsetsRows:  m.OffsetsRows.Load(),
		SaveCount:    m.SaveCount.Load(),
		SaveErrors:   m.SaveErrors.Load(),
		LoadCount:    m.LoadCount.Load(),
		LoadErrors:   m.LoadErrors.Load(),
	}
	if s.BuildCount > 0 {
		s.BuildAvgNanos = m.BuildTotalNanos.Load() / s.BuildCount
	}
	if s.RangeCount > 0 {
		s.RangeAvgNanos = m.RangeTotalNanos.Load() / s.RangeCount
	}
	return s
}
