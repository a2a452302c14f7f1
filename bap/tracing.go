// SPDX-License-Identifier: MIT

package bap

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/branchprice/colgen"
)

const tracerName = "github.com/katalvlaran/branchprice/bap"

func newTracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return tp.Tracer(tracerName)
}

func startRunSpan(ctx context.Context, t trace.Tracer, runID string, open int) (context.Context, trace.Span) {
	return t.Start(ctx, "bap.run",
		trace.WithAttributes(
			attribute.String("bap.run_id", runID),
			attribute.Int("bap.open_nodes", open),
		),
	)
}

func startNodeSpan[C colgen.Column](ctx context.Context, t trace.Tracer, n *Node[C]) (context.Context, trace.Span) {
	return t.Start(ctx, "bap.node",
		trace.WithAttributes(
			attribute.Int("bap.node_id", n.ID),
			attribute.Int("bap.node_depth", n.Depth()),
			attribute.Int("bap.node_parent", n.ParentID()),
		),
	)
}

// endSpan records err (time limits are not errors) and ends span.
func endSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	if err != nil && !errors.Is(err, colgen.ErrTimeLimit) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
