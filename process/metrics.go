package process

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/sorki/pipes-cliff/fault"
)

const instrumentationName = "github.com/sorki/pipes-cliff/process"

var (
	tracer = otel.Tracer(instrumentationName)

	spawnCounter metric.Int64Counter
	byteCounter  metric.Int64Counter
)

func init() {
	meter := otel.Meter(instrumentationName)
	spawnCounter, _ = meter.Int64Counter("process.spawns",
		metric.WithDescription("Subprocesses spawned"))
	byteCounter, _ = meter.Int64Counter("process.stream.bytes",
		metric.WithDescription("Bytes pumped per standard stream"),
		metric.WithUnit("By"))
}

// startSpan opens the per-process span. It is a noop unless the caller
// installed a global tracer provider.
func startSpan(ctx context.Context, cmdStr, runID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "process.run", trace.WithAttributes(
		attribute.String("process.command", cmdStr),
		attribute.String("process.run_id", runID),
	))
}

func recordSpawn(ctx context.Context, shell bool) {
	spawnCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("process.shell", shell),
	))
}

func recordBytes(ctx context.Context, role fault.Role, n int) {
	byteCounter.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("stream", role.String()),
	))
}
