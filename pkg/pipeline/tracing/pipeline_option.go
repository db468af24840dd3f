// Package tracing records pipeline stages with OpenTelemetry.
package tracing

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/askiada/go-model-chain/pkg/pipeline/model"
)

const (
	// InstrumentationName is the scope name of the tracer and meter used by the CLI.
	InstrumentationName = "github.com/askiada/go-model-chain/pkg/pipeline"

	stageDurationMetric = "modelchain.stage.duration"
)

type pipelineTracing struct {
	model.NopOption
	tracer   trace.Tracer
	meter    metric.Meter
	duration metric.Float64Histogram
}

func (pt *pipelineTracing) New() error {
	if pt.meter == nil {
		return nil
	}

	hist, err := pt.meter.Float64Histogram(stageDurationMetric,
		metric.WithDescription("Duration of a pipeline stage model call."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return errors.Wrap(err, "unable to create stage duration histogram")
	}
	pt.duration = hist

	return nil
}

func (pt *pipelineTracing) OnStageStart(ctx context.Context, stage *model.StageInfo) context.Context {
	ctx, _ = pt.tracer.Start(ctx, "stage "+stage.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("pipeline.stage.name", stage.Name),
			attribute.Int("pipeline.stage.index", stage.Index),
			attribute.String("pipeline.stage.model", stage.Model),
		),
	)

	return ctx
}

func (pt *pipelineTracing) OnStageEnd(ctx context.Context, stage *model.StageInfo, outcome *model.StageOutcome) error {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Bool("pipeline.stage.success", outcome.Result.Success),
		attribute.Int("pipeline.stage.output_bytes", len(outcome.Output)),
	)
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, outcome.Err.Error())
	}
	span.End()

	if pt.duration != nil {
		pt.duration.Record(ctx, outcome.Result.Duration.Seconds(), metric.WithAttributes(
			attribute.String("pipeline.stage.name", stage.Name),
			attribute.String("pipeline.stage.model", stage.Model),
			attribute.Bool("pipeline.stage.success", outcome.Result.Success),
		))
	}

	return nil
}

// PipelineTracing opens one span per stage with tracer and records stage durations in a histogram
// created from meter. meter may be nil.
func PipelineTracing(tracer trace.Tracer, meter metric.Meter) model.PipelineOption {
	return &pipelineTracing{tracer: tracer, meter: meter}
}
