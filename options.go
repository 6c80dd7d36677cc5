package fmgo

import (
	"log/slog"

	"github.com/hupe1980/fmgo/resource"
)

// Config holds the build-time layout parameters of an index. The same
// values are recorded in the persisted header, so a loaded index reports
// the configuration it was built with.
type Config struct {
	// LookupLen is the k-mer lookup table prefix length. The table has
	// 4^LookupLen entries of 16 bytes each; see WithMaxLookupTableBytes.
	LookupLen int

	// L1 is the coarse occurrence checkpoint interval in BWT positions.
	L1 int

	// L2 is the fine occurrence checkpoint interval. It must divide L1;
	// rank queries scan fewer than L2 BWT symbols.
	L2 int

	// SAInterval is the suffix-array sampling interval. 1 retains the full
	// array, trading memory for zero walk-back cost under heavy query load;
	// that is deliberately the default.
	SAInterval int
}

// DefaultConfig is the configuration used when no option overrides it.
var DefaultConfig = Config{
	LookupLen:  8,
	L1:         256,
	L2:         32,
	SAInterval: 1,
}

const defaultMaxLookupTableBytes = 1 << 30

type options struct {
	config              Config
	workers             int
	maxLookupTableBytes uint64
	controller          *resource.Controller
	logger              *Logger
	metrics             MetricsCollector
}

// Option configures Build and Load behavior.
type Option func(*options)

// WithLookupLen sets the k-mer lookup table prefix length.
func WithLookupLen(k int) Option {
	return func(o *options) {
		o.config.LookupLen = k
	}
}

// WithOccIntervals sets the coarse (L1) and fine (L2) occurrence checkpoint
// intervals. L2 must divide L1. Smaller intervals cost memory and speed up
// rank queries; they never change query results.
func WithOccIntervals(l1, l2 int) Option {
	return func(o *options) {
		o.config.L1 = l1
		o.config.L2 = l2
	}
}

// WithSAInterval sets the suffix-array sampling interval. Positions that are
// multiples of the interval keep their suffix-array value; other rows are
// reconstructed at query time by LF walk-back.
func WithSAInterval(interval int) Option {
	return func(o *options) {
		o.config.SAInterval = interval
	}
}

// WithWorkers bounds the worker pool used for suffix-array and lookup-table
// construction. Zero or negative means GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithMaxLookupTableBytes sets the hard ceiling for the k-mer lookup table.
// A LookupLen whose table would exceed the ceiling fails the build before
// any suffix-array work begins.
func WithMaxLookupTableBytes(maxBytes uint64) Option {
	return func(o *options) {
		if maxBytes > 0 {
			o.maxLookupTableBytes = maxBytes
		}
	}
}

// WithResourceController attaches a resource.Controller. Build reserves its
// transient and resident memory through the controller and fails fast when
// the reservation is denied.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		config:              DefaultConfig,
		maxLookupTableBytes: defaultMaxLookupTableBytes,
		logger:              NoopLogger(),
		metrics:             NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
