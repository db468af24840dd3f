package pipeline_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/askiada/go-model-chain/pkg/pipeline"
	"github.com/askiada/go-model-chain/pkg/pipeline/model"
)

// fakeAgent echoes its input with a suffix, after an optional delay.
type fakeAgent struct {
	mu     sync.Mutex
	suffix string
	delay  time.Duration
	err    error
	inputs []string
}

func (f *fakeAgent) Invoke(_ context.Context, input string) (string, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return "", f.err
	}

	return input + f.suffix, nil
}

func (f *fakeAgent) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.inputs)
}

func createStages(t *testing.T, names ...string) ([]pipeline.Stage, []*fakeAgent) {
	t.Helper()

	stages := make([]pipeline.Stage, len(names))
	agents := make([]*fakeAgent, len(names))
	for idx, name := range names {
		agents[idx] = &fakeAgent{suffix: " > " + name}
		stages[idx] = pipeline.Stage{Name: name, Agent: agents[idx]}
	}

	return stages, agents
}

// recordingOption remembers the order in which its hooks were called.
type recordingOption struct {
	model.NopOption
	mu       sync.Mutex
	events   []string
	outcomes []*model.StageOutcome
	report   *model.Report
	endErr   error
}

func (r *recordingOption) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingOption) New() error {
	r.record("new")

	return nil
}

func (r *recordingOption) PrepareStage(parent, stage *model.StageInfo) error {
	r.record("prepare " + parent.Name + " -> " + stage.Name)

	return nil
}

func (r *recordingOption) OnStageStart(ctx context.Context, stage *model.StageInfo) context.Context {
	r.record("start " + stage.Name)

	return ctx
}

func (r *recordingOption) OnStageEnd(_ context.Context, stage *model.StageInfo, outcome *model.StageOutcome) error {
	r.record("end " + stage.Name)
	r.mu.Lock()
	r.outcomes = append(r.outcomes, outcome)
	r.mu.Unlock()

	return r.endErr
}

func (r *recordingOption) Finish(report *model.Report) error {
	r.record("finish")
	r.mu.Lock()
	r.report = report
	r.mu.Unlock()

	return nil
}

type failingOption struct {
	model.NopOption
	newErr    error
	finishErr error
}

func (f *failingOption) New() error { return f.newErr }

func (f *failingOption) Finish(_ *model.Report) error { return f.finishErr }
