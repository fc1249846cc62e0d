package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Status values recorded on metrics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the instruments of the transcription pipeline and the vault
// client.
type Metrics struct {
	runTotal      metric.Int64Counter
	runDuration   metric.Float64Histogram
	stageDuration metric.Float64Histogram
	payloadBytes  metric.Int64Histogram
	noteTotal     metric.Int64Counter
}

// NewMetrics creates the instruments on mp, or on the global provider when
// mp is nil.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(InstrumentationName)

	runTotal, err := meter.Int64Counter("transcription.runs",
		metric.WithDescription("Transcription runs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.runs counter: %w", err)
	}
	runDuration, err := meter.Float64Histogram("transcription.run.duration",
		metric.WithDescription("Duration of transcription runs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.run.duration histogram: %w", err)
	}
	stageDuration, err := meter.Float64Histogram("transcription.stage.duration",
		metric.WithDescription("Duration of each pipeline stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.stage.duration histogram: %w", err)
	}
	payloadBytes, err := meter.Int64Histogram("transcription.payload.size",
		metric.WithDescription("Size of the audio sent to the tool server"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.payload.size histogram: %w", err)
	}
	noteTotal, err := meter.Int64Counter("vault.notes.synced",
		metric.WithDescription("Notes uploaded to the vault by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating vault.notes.synced counter: %w", err)
	}

	return &Metrics{
		runTotal:      runTotal,
		runDuration:   runDuration,
		stageDuration: stageDuration,
		payloadBytes:  payloadBytes,
		noteTotal:     noteTotal,
	}, nil
}

// RecordRun records a finished run. A nil Metrics records nothing.
func (m *Metrics) RecordRun(ctx context.Context, err error, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(outcome(err)...)
	m.runTotal.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordStage records the duration of one pipeline stage.
func (m *Metrics) RecordStage(ctx context.Context, stage string, err error, d time.Duration) {
	if m == nil {
		return
	}
	attrs := append([]attribute.KeyValue{attribute.String(AttrStage, stage)}, outcome(err)...)
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
}

// RecordPayload records the size of an audio payload.
func (m *Metrics) RecordPayload(ctx context.Context, bytes int) {
	if m == nil {
		return
	}
	m.payloadBytes.Record(ctx, int64(bytes))
}

// RecordNote records one vault upload.
func (m *Metrics) RecordNote(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.noteTotal.Add(ctx, 1, metric.WithAttributes(outcome(err)...))
}

func outcome(err error) []attribute.KeyValue {
	if err == nil {
		return []attribute.KeyValue{attribute.String(AttrStatus, StatusOK)}
	}
	return []attribute.KeyValue{
		attribute.String(AttrStatus, StatusError),
		attribute.String(AttrErrorCode, ErrorCode(err)),
	}
}
