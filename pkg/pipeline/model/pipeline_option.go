package model

import "context"

// PipelineOption defines the interface for pipeline options.
// Hooks are called from the goroutine running the pipeline, except Finish which may run
// concurrently with the Finish hook of other options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// PrepareStage runs for every stage, in order, before the first stage is executed.
	PrepareStage(parentStage, stage *StageInfo) error
	// OnStageStart runs before the stage calls its agent. The returned context is used for the call.
	OnStageStart(ctx context.Context, stage *StageInfo) context.Context
	// OnStageEnd runs once the stage has succeeded or failed.
	OnStageEnd(ctx context.Context, stage *StageInfo, outcome *StageOutcome) error
	// Finish runs after the pipeline is finished, successfully or not.
	Finish(report *Report) error
}

// NopOption implements every hook as a no-op. Options embed it and override what they need.
type NopOption struct{}

func (NopOption) New() error { return nil }

func (NopOption) PrepareStage(_, _ *StageInfo) error { return nil }

func (NopOption) OnStageStart(ctx context.Context, _ *StageInfo) context.Context { return ctx }

func (NopOption) OnStageEnd(_ context.Context, _ *StageInfo, _ *StageOutcome) error { return nil }

func (NopOption) Finish(_ *Report) error { return nil }

var _ PipelineOption = NopOption{}
