// Package sink forwards metrics and logs to the observability backend.
package sink

import "context"

// LogItem is one structured log entry. Message is the JSON-encoded payload.
type LogItem struct {
	Source  string
	Tags    string
	Message string
	Service string
}

// MetricPoint is one point-in-time value of a gauge-like metric.
type MetricPoint struct {
	Name      string
	Timestamp int64
	Value     float64
}

type Sink interface {
	SubmitLog(ctx context.Context, item LogItem) error
	SubmitMetric(ctx context.Context, point MetricPoint) error
}
