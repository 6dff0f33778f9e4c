package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/allisson/keychain/internal/errors"
)

// Outcome labels attached to every recorded operation.
const (
	OutcomeSuccess      = "success"
	OutcomeNotFound     = "not_found"
	OutcomeInvalidInput = "invalid_input"
	OutcomeUnavailable  = "unavailable"
	OutcomeError        = "error"
)

// operationBuckets covers a single sealed read or write, from an in-process sqlite hit to a slow
// network database round trip.
var operationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Outcome classifies err by its domain error kind.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case apperrors.Is(err, apperrors.ErrNotFound):
		return OutcomeNotFound
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return OutcomeInvalidInput
	case apperrors.Is(err, apperrors.ErrUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}

// BusinessMetrics records finished keychain operations.
type BusinessMetrics interface {
	// Observe counts one operation under domain ("keychain", "rotation") labelled with the
	// outcome of err, and records how long it took.
	Observe(ctx context.Context, domain, operation string, duration time.Duration, err error)
}

type businessMetrics struct {
	operations metric.Int64Counter
	latency    metric.Float64Histogram
}

// NewBusinessMetrics creates the operation counter <namespace>_operations_total and the
// latency histogram <namespace>_operation_duration_seconds.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Keychain operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Latency of keychain operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(operationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &businessMetrics{operations: operations, latency: latency}, nil
}

func (b *businessMetrics) Observe(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	err error,
) {
	op := attribute.NewSet(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
	)

	b.operations.Add(ctx, 1,
		metric.WithAttributeSet(op),
		metric.WithAttributes(attribute.String("outcome", Outcome(err))),
	)
	b.latency.Record(ctx, duration.Seconds(), metric.WithAttributeSet(op))
}

// NoOpBusinessMetrics discards every observation. It is used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return NoOpBusinessMetrics{}
}

func (NoOpBusinessMetrics) Observe(context.Context, string, string, time.Duration, error) {}
