package pipeline

import "context"

// Agent is the model call wrapped by a stage.
type Agent interface {
	Invoke(ctx context.Context, input string) (string, error)
}

// PromptFunc builds the input of a stage from the output of the previous stage, or from the
// pipeline request for the first stage.
type PromptFunc func(previous string) (string, error)

// Stage is one step of the pipeline.
type Stage struct {
	Name string
	// Model is informational: it is passed to the options and shows up in reports and traces.
	Model  string
	Agent  Agent
	Prompt PromptFunc
}

func (s Stage) prompt(previous string) (string, error) {
	if s.Prompt == nil {
		return previous, nil
	}

	return s.Prompt(previous)
}
