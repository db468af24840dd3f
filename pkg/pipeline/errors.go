package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet  = errors.New("pipeline must be set")
	ErrPipelineAlreadyRun = errors.New("pipeline has already run")
	ErrNoStages           = errors.New("at least one stage must be set")
	ErrStageNameMustBeSet = errors.New("stage name must be set")
	ErrAgentMustBeSet     = errors.New("stage agent must be set")
	ErrDuplicateStage     = errors.New("stage name must be unique")
	ErrReservedStageName  = errors.New("stage name is reserved")
)

// StageError identifies the stage that stopped a run.
type StageError struct {
	// Index is the zero based position of the stage.
	Index int
	Name  string
	Err   error
}

func (e *StageError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error, for github.com/pkg/errors.Cause.
func (e *StageError) Cause() error {
	return e.Err
}
