package drawer

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-model-chain/pkg/pipeline/measure"
	"github.com/askiada/go-model-chain/pkg/pipeline/model"
)

type pipelineDrawer struct {
	model.NopOption
	Drawer
	m    measure.Measure
	last string
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStage(model.StartStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start stage to drawer")
	}
	err = pd.AddStage(model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end stage to drawer")
	}
	pd.last = model.StartStage.Name

	return nil
}

func (pd *pipelineDrawer) PrepareStage(parentStage, stage *model.StageInfo) error {
	err := pd.AddStage(stage.Name)
	if err != nil {
		return err
	}
	err = pd.AddLink(parentStage.Name, stage.Name)
	if err != nil {
		return err
	}
	pd.last = stage.Name

	return nil
}

// Finish links the last stage to the end marker and draws the graph, including the stages that
// were never reached when the run failed.
func (pd *pipelineDrawer) Finish(report *model.Report) error {
	err := pd.AddLink(pd.last, model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to link end stage")
	}

	err = pd.SetTotalTime(model.EndStage.Name, report.Total)
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}

	if pd.m != nil {
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the stages of the pipeline once it is finished. When msr is set, it must
// also be registered with measure.PipelineMeasure so that stage durations end up on the graph.
func PipelineDrawer(drawer Drawer, msr measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: msr}
}
