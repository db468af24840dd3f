package measure

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-model-chain/pkg/pipeline/model"
)

var ErrUnknownStage = errors.New("stage has no metric")

type pipelineMeasure struct {
	model.NopOption
	Measure
}

func (pm *pipelineMeasure) PrepareStage(_, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name)

	return nil
}

func (pm *pipelineMeasure) OnStageEnd(_ context.Context, stage *model.StageInfo, outcome *model.StageOutcome) error {
	mt := pm.GetMetric(stage.Name)
	if mt == nil {
		return errors.Wrap(ErrUnknownStage, stage.Name)
	}

	mt.AddDuration(outcome.Result.Duration)
	if !outcome.Result.Success {
		mt.AddFailure()
	}

	return nil
}

// PipelineMeasure records the duration and failures of every stage into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
