package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterCipherAvailability exports a <namespace>_cipher_available gauge that reads 1 while
// available reports true and 0 otherwise. The gauge is observed at every scrape.
func RegisterCipherAvailability(
	meterProvider metric.MeterProvider,
	namespace string,
	available func() bool,
) error {
	meter := meterProvider.Meter(namespace)

	_, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_cipher_available", namespace),
		metric.WithDescription("Whether the vault cipher has an active master key (1) or not (0)"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			var v int64
			if available() {
				v = 1
			}
			o.Observe(v)
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create cipher availability gauge: %w", err)
	}
	return nil
}
