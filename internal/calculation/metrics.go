package calculation

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments — initialized once via InitMetrics().
var (
	opsCounter     metric.Int64Counter
	opsHistogram   metric.Float64Histogram
	errorCounter   metric.Int64Counter
	invalidCounter metric.Int64Counter
	resultGauge    metric.Float64Gauge
)

// InitMetrics registers the OTel metric instruments for the calculation
// domain. Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculation")

	var err error

	opsCounter, err = meter.Int64Counter("calculations.operations.total",
		metric.WithDescription("Total number of calculation resource operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return fmt.Errorf("creating ops counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("calculations.operation.duration",
		metric.WithDescription("Duration of calculation resource operations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 50, 100, 500),
	)
	if err != nil {
		return fmt.Errorf("creating ops histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculations.errors.total",
		metric.WithDescription("Total number of calculation resource failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	invalidCounter, err = meter.Int64Counter("calculations.rejected.total",
		metric.WithDescription("Total number of submissions rejected by validation"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("creating rejection counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculations.last_result",
		metric.WithDescription("The result of the most recently computed calculation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}
