// Package telemetry records how long nested operations take and prints them
// as a tree.
//
// Collectors travel in a context so that instrumented code does not need an
// extra parameter. Without a collector every call is a no-op:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.FromContext(ctx).Start("rules.build")
//	child := timer.Child("rules.validate")
//	child.End()
//	timer.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

type contextKey struct{}

// Collector gathers timings.
type Collector interface {
	// Start times a top-level operation, nested under the operation that is
	// currently running if any.
	Start(name string) Timer
	// Report writes the collected timings to w.
	Report(w io.Writer)
}

// Timer times a single operation.
type Timer interface {
	End()
	// Child times an operation nested under this one.
	Child(name string) Timer
}

// WithCollector returns a copy of ctx carrying c.
func WithCollector(ctx context.Context, c Collector) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the collector of ctx, or a no-op collector.
func FromContext(ctx context.Context) Collector {
	if c, ok := ctx.Value(contextKey{}).(Collector); ok {
		return c
	}
	return noOpCollector{}
}
