// Package metrics は MetricsRecorder を OpenTelemetry のメーターで実装します。
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/touka-aoi/boss-director/application/state"
)

const instrumentationName = "github.com/touka-aoi/boss-director"

// Recorder はレイテンシとロック待ちをヒストグラム、その他をカウンターとして記録する。
// MeterProvider が設定されていなければ otel のグローバル既定 (no-op) に流れる。
type Recorder struct {
	meter      metric.Meter
	latency    metric.Float64Histogram
	contention metric.Float64Histogram

	mu       sync.Mutex
	counters map[string]metric.Int64Counter
}

func NewRecorder(meter metric.Meter) (*Recorder, error) {
	latency, err := meter.Float64Histogram("boss_director.request.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("Time spent handling one engine request."))
	if err != nil {
		return nil, fmt.Errorf("metrics: latency histogram: %w", err)
	}
	contention, err := meter.Float64Histogram("boss_director.lock.wait",
		metric.WithUnit("ms"),
		metric.WithDescription("Time spent waiting for the store lock."))
	if err != nil {
		return nil, fmt.Errorf("metrics: contention histogram: %w", err)
	}
	return &Recorder{
		meter:      meter,
		latency:    latency,
		contention: contention,
		counters:   make(map[string]metric.Int64Counter),
	}, nil
}

// NewGlobalRecorder はグローバル MeterProvider からメーターを取得する。
func NewGlobalRecorder() (*Recorder, error) {
	return NewRecorder(otel.Meter(instrumentationName))
}

func (r *Recorder) RecordLatency(ctx context.Context, endpoint string, d time.Duration) {
	r.latency.Record(ctx, milliseconds(d), metric.WithAttributes(attribute.String("endpoint", endpoint)))
}

func (r *Recorder) RecordContention(ctx context.Context, endpoint string, wait time.Duration) {
	r.contention.Record(ctx, milliseconds(wait), metric.WithAttributes(attribute.String("endpoint", endpoint)))
}

func (r *Recorder) IncrementCounter(ctx context.Context, name string, delta int) {
	c, err := r.counter(name)
	if err != nil {
		otel.Handle(err)
		return
	}
	c.Add(ctx, int64(delta))
}

func (r *Recorder) counter(name string) (metric.Int64Counter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c, nil
	}
	c, err := r.meter.Int64Counter("boss_director." + name)
	if err != nil {
		return nil, fmt.Errorf("metrics: counter %s: %w", name, err)
	}
	r.counters[name] = c
	return c, nil
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

var _ state.MetricsRecorder = (*Recorder)(nil)
