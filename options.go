package jvector

import (
	"github.com/dlg99/jvector/distance"
	"github.com/dlg99/jvector/graph"
)

type options struct {
	maxDegree        int
	beamWidth        int
	overflowFactor   float32
	alpha            float32
	metric           distance.Metric
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures Index constructor behavior.
type Option func(*options)

// WithMaxDegree configures the graph degree bound M. Each node keeps at most
// M diversity-pruned neighbors (the entry node keeps up to 2*M). Higher values
// improve recall at the cost of memory and construction time.
func WithMaxDegree(m int) Option {
	return func(o *options) {
		o.maxDegree = m
	}
}

// WithBeamWidth configures the construction search list size (beamWidth in
// DiskANN terms, comparable to efConstruction in HNSW). Higher values improve
// graph quality at the cost of construction time.
func WithBeamWidth(w int) Option {
	return func(o *options) {
		o.beamWidth = w
	}
}

// WithOverflowFactor configures the transient degree slack: a neighbor list
// may grow to maxDegree*factor before a pruning pass is forced. Must be >= 1.
func WithOverflowFactor(f float32) Option {
	return func(o *options) {
		o.overflowFactor = f
	}
}

// WithAlpha configures the diversity pruning slack. alpha = 1.0 prunes most
// aggressively; larger values keep more redundant edges, improving recall on
// clustered data. Must be >= 1.
func WithAlpha(a float32) Option {
	return func(o *options) {
		o.alpha = a
	}
}

// WithMetric selects the similarity metric used for both construction and
// search. Defaults to distance.MetricDot, which assumes normalized vectors.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithLogger configures structured logging. Pass nil to keep the default
// (no-op) logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(c MetricsCollector) Option {
	return func(o *options) {
		if c == nil {
			c = NoopMetricsCollector{}
		}
		o.metricsCollector = c
	}
}

func defaultOptions() options {
	return options{
		maxDegree:        graph.DefaultMaxDegree,
		beamWidth:        graph.DefaultBeamWidth,
		overflowFactor:   graph.DefaultOverflowFactor,
		alpha:            graph.DefaultAlpha,
		metric:           distance.MetricDot,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}
