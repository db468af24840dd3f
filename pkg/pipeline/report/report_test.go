package report_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-model-chain/pkg/pipeline/model"
	"github.com/askiada/go-model-chain/pkg/pipeline/report"
)

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := report.Print(&buf, &model.Report{
		Results: []model.StageResult{
			{Name: "Architecture", Duration: 1234 * time.Millisecond, Success: true},
			{Name: "Development", Duration: 50 * time.Millisecond, Success: false},
		},
		Total: 1290 * time.Millisecond,
	})
	require.NoError(t, err)

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, []string{
		"",
		"*** TIMING SUMMARY ***",
		strings.Repeat("-", 50),
		"Architecture                       :     1.23 sec [SUCCESS]",
		"Development                        :     0.05 sec [FAILED] ",
		strings.Repeat("-", 50),
		"Total Pipeline Time: 1.29 seconds",
		strings.Repeat("=", 50),
		"",
	}, lines)
}

func TestPipelineReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opt := report.PipelineReport(&buf)
	require.NoError(t, opt.Finish(&model.Report{Total: time.Second}))
	assert.Contains(t, buf.String(), "Total Pipeline Time: 1.00 seconds")
}

func TestPipelineOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opt := report.PipelineOutput(&buf)
	stage := &model.StageInfo{Name: "Architecture"}

	require.NoError(t, opt.OnStageEnd(context.Background(), stage, &model.StageOutcome{
		Result: model.StageResult{Success: true},
		Output: "the plan",
	}))
	require.NoError(t, opt.OnStageEnd(context.Background(), stage, &model.StageOutcome{
		Result: model.StageResult{Success: false},
		Err:    assert.AnError,
	}))

	assert.Equal(t, "\n=== ARCHITECTURE ===\nthe plan\n\n", buf.String())
}

type closedWriter struct{}

func (closedWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func TestPipelineWriteErrorsDoNotFail(t *testing.T) {
	t.Parallel()

	stage := &model.StageInfo{Name: "Architecture"}
	output := report.PipelineOutput(closedWriter{})
	assert.NoError(t, output.OnStageEnd(context.Background(), stage, &model.StageOutcome{
		Result: model.StageResult{Success: true},
		Output: "the plan",
	}))

	summary := report.PipelineReport(closedWriter{})
	assert.NoError(t, summary.Finish(&model.Report{Total: time.Second}))

	assert.Error(t, report.Print(closedWriter{}, &model.Report{}))
}

func TestPipelineLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	opt := report.PipelineLog(logger)
	stage := &model.StageInfo{Index: 1, Name: "Development", Model: "amazon.nova-lite-v1:0", Total: 4}

	ctx := opt.OnStageStart(context.Background(), stage)
	require.NoError(t, opt.OnStageEnd(ctx, stage, &model.StageOutcome{
		Result: model.StageResult{Name: "Development", Success: false},
		Err:    assert.AnError,
	}))
	require.NoError(t, opt.Finish(&model.Report{RunID: "run-1"}))

	out := buf.String()
	assert.Contains(t, out, `msg="[2/4] stage started"`)
	assert.Contains(t, out, `msg="[2/4] stage failed"`)
	assert.Contains(t, out, "model=amazon.nova-lite-v1:0")
	assert.Contains(t, out, "run_id=run-1")
	assert.Contains(t, out, "success=false")
}
