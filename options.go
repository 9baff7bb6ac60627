package orrery

import "github.com/gogpu/orrery/internal/parallel"

// Option configures a generator during creation.
// Options that do not apply to a generator are ignored by it.
//
// Example:
//
//	// Defaults: GOMAXPROCS workers, default storm, default thresholds
//	surf := orrery.NewSurfaceGenerator()
//
//	// Sequential generation with a calmer surface
//	surf := orrery.NewSurfaceGenerator(orrery.WithWorkers(1), orrery.WithJitter(0))
type Option func(*options)

// options holds optional configuration shared by both generators.
type options struct {
	workers  int
	maxBytes int64

	// surface
	bands  int
	jitter float64
	storm  Storm

	// starfield
	thresholds StarThresholds
}

// defaultOptions returns the default generator options.
func defaultOptions() options {
	return options{
		workers:    0, // GOMAXPROCS
		maxBytes:   DefaultMaxBytes,
		bands:      DefaultBands,
		jitter:     DefaultJitter,
		storm:      DefaultStorm(),
		thresholds: DefaultStarThresholds(),
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithWorkers sets the number of goroutines used to fill rows.
// 0 uses GOMAXPROCS; 1 generates on the calling goroutine.
// Output is identical for every worker count.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMaxBytes sets the largest buffer a generator may allocate.
// Requests above it fail with ErrAllocationFailure before allocating.
func WithMaxBytes(n int64) Option {
	return func(o *options) {
		o.maxBytes = n
	}
}

// WithBands sets how many palette bands the surface ramp crosses from
// the top to the bottom row. Surface generator only.
func WithBands(n int) Option {
	return func(o *options) {
		o.bands = n
	}
}

// WithJitter sets the amplitude of the zero-mean per-pixel noise.
// 0 disables jitter. Surface generator only.
func WithJitter(amplitude float64) Option {
	return func(o *options) {
		o.jitter = amplitude
	}
}

// WithStorm replaces the storm description. Use Storm{} for no storm.
// Surface generator only.
func WithStorm(s Storm) Option {
	return func(o *options) {
		o.storm = s
	}
}

// WithThresholds sets the star tier thresholds. Starfield generator only.
func WithThresholds(th StarThresholds) Option {
	return func(o *options) {
		o.thresholds = th
	}
}

// pool builds the worker pool for one generation call. A nil pool means
// sequential generation on the caller's goroutine.
func (o options) pool() (*parallel.WorkerPool, int) {
	if o.workers == 1 {
		return nil, 1
	}
	p := parallel.NewWorkerPool(o.workers)
	return p, p.Workers()
}
