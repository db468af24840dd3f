package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-model-chain/pkg/pipeline/model"
)

// Pipeline runs an ordered list of stages, once.
type Pipeline struct {
	opts []model.PipelineOption
	ran  bool
}

// New creates a new pipeline.
func New(opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		opts: opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// Run executes the stages in order, starting from request.
//
// Each stage receives the output of its predecessor, the first one receives request. The first
// failing stage stops the run: its error is returned as a *StageError and the following stages
// are never called. The report is returned whenever at least one stage was started, so callers
// can render partial timings.
func (p *Pipeline) Run(ctx context.Context, request string, stages ...Stage) (*model.Report, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if p.ran {
		return nil, ErrPipelineAlreadyRun
	}
	p.ran = true

	infos, err := p.prepareStages(stages)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		RunID:   uuid.NewString(),
		Results: make([]model.StageResult, 0, len(stages)),
	}

	start := time.Now()
	current := request
	var runErr error

	for idx, stage := range stages {
		out, err := p.runStage(ctx, stage, infos[idx], current, report)
		if err != nil {
			runErr = err

			break
		}
		current = out
	}

	report.Total = time.Since(start)
	if runErr == nil {
		report.Output = current
	}

	finishErr := p.finishRun(report)
	if runErr != nil {
		return report, runErr
	}
	if finishErr != nil {
		return report, finishErr
	}

	return report, nil
}

// IsReservedName reports whether name is taken by the start or end marker handed to the options.
func IsReservedName(name string) bool {
	return name == model.StartStage.Name || name == model.EndStage.Name
}

func (p *Pipeline) prepareStages(stages []Stage) ([]*model.StageInfo, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}

	seen := make(map[string]struct{}, len(stages))
	infos := make([]*model.StageInfo, len(stages))
	for idx, stage := range stages {
		if stage.Name == "" {
			return nil, errors.Wrapf(ErrStageNameMustBeSet, "stage %d", idx+1)
		}
		if IsReservedName(stage.Name) {
			return nil, errors.Wrapf(ErrReservedStageName, "stage %s", stage.Name)
		}
		if stage.Agent == nil {
			return nil, errors.Wrapf(ErrAgentMustBeSet, "stage %s", stage.Name)
		}
		if _, ok := seen[stage.Name]; ok {
			return nil, errors.Wrapf(ErrDuplicateStage, "stage %s", stage.Name)
		}
		seen[stage.Name] = struct{}{}

		infos[idx] = &model.StageInfo{
			Index: idx,
			Name:  stage.Name,
			Model: stage.Model,
			Total: len(stages),
		}
	}

	parent := model.StartStage
	for _, info := range infos {
		for _, opt := range p.opts {
			err := opt.PrepareStage(parent, info)
			if err != nil {
				return nil, errors.Wrap(err, "unable to prepare stage")
			}
		}
		parent = info
	}

	return infos, nil
}

// runStage executes one stage and appends its result to the report.
func (p *Pipeline) runStage(ctx context.Context, stage Stage, info *model.StageInfo, previous string, report *model.Report) (string, error) {
	stageCtx := ctx
	for _, opt := range p.opts {
		stageCtx = opt.OnStageStart(stageCtx, info)
	}

	outcome := &model.StageOutcome{}

	input, err := stage.prompt(previous)
	if err != nil {
		err = errors.Wrap(err, "unable to build stage input")
	} else {
		outcome.Input = input
		startStage := time.Now()
		outcome.Output, err = stage.Agent.Invoke(stageCtx, input)
		outcome.Result.Duration = time.Since(startStage)
	}

	outcome.Result.Name = stage.Name
	outcome.Result.Success = err == nil
	outcome.Err = err
	if err != nil {
		outcome.Output = ""
	}
	report.Results = append(report.Results, outcome.Result)

	for _, opt := range p.opts {
		hookErr := opt.OnStageEnd(stageCtx, info, outcome)
		if hookErr != nil && err == nil {
			err = errors.Wrap(hookErr, "unable to run stage end hook")
		}
	}

	if err != nil {
		// the report never shows success for a stage that stopped the run
		report.Results[len(report.Results)-1].Success = false

		return "", &StageError{Index: info.Index, Name: stage.Name, Err: err}
	}

	return outcome.Output, nil
}

// finishRun runs the Finish hook of every option concurrently and returns the first error.
func (p *Pipeline) finishRun(report *model.Report) error {
	var errGrp errgroup.Group
	for _, opt := range p.opts {
		opt := opt
		errGrp.Go(func() error {
			err := opt.Finish(report)
			if err != nil {
				return errors.Wrap(err, "unable to finish pipeline option")
			}

			return nil
		})
	}

	return errGrp.Wait()
}
