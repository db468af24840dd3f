package model

import "time"

// StageInfo describes a stage to the pipeline options.
type StageInfo struct {
	// Index is the zero based position of the stage. Start and end markers use -1.
	Index int
	Name  string
	Model string
	// Total is the number of stages in the run.
	Total int
}

var (
	StartStage = &StageInfo{Index: -1, Name: "start"}
	EndStage   = &StageInfo{Index: -1, Name: "end"}
)

// StageResult is the timing record of one executed stage.
type StageResult struct {
	Name     string
	Duration time.Duration
	Success  bool
}

// StageOutcome is handed to OnStageEnd. Output is empty and Err is set when the stage failed.
type StageOutcome struct {
	Result StageResult
	Input  string
	Output string
	Err    error
}

// Report is the result of a pipeline run.
type Report struct {
	RunID   string
	Results []StageResult
	// Total is the wall-clock time of the whole run.
	Total time.Duration
	// Output is the text produced by the last stage. It is empty when the run failed.
	Output string
}

// Succeeded reports whether every stage of the run succeeded.
func (r *Report) Succeeded() bool {
	if r == nil || len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if !res.Success {
			return false
		}
	}

	return true
}

// StagesDuration is the sum of the recorded stage durations.
func (r *Report) StagesDuration() time.Duration {
	var total time.Duration
	for _, res := range r.Results {
		total += res.Duration
	}

	return total
}
