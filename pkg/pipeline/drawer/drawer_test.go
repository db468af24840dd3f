package drawer_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-model-chain/pkg/pipeline/drawer"
	"github.com/askiada/go-model-chain/pkg/pipeline/measure"
	"github.com/askiada/go-model-chain/pkg/pipeline/model"
)

func TestDOTDrawerDraw(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	drw := drawer.NewDOTDrawer(&buf)
	require.NoError(t, drw.AddStage("a"))
	require.NoError(t, drw.AddStage("b"))
	require.NoError(t, drw.AddLink("a", "b"))
	require.NoError(t, drw.SetTotalTime("b", 1500*time.Millisecond))
	require.NoError(t, drw.Draw())

	out := buf.String()
	assert.Contains(t, out, "strict digraph")
	assert.Contains(t, out, `"a" -> "b"`)
	assert.Contains(t, out, `<b <BR /> <FONT POINT-SIZE="12">1.5s</FONT>>`)
}

func TestDOTDrawerEscapesNames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	drw := drawer.NewDOTDrawer(&buf)
	require.NoError(t, drw.AddStage(`say "hi"`))
	require.NoError(t, drw.AddStage("<review>"))
	require.NoError(t, drw.AddLink(`say "hi"`, "<review>"))
	require.NoError(t, drw.SetTotalTime("<review>", time.Second))
	require.NoError(t, drw.Draw())

	out := buf.String()
	assert.Contains(t, out, `"say \"hi\"" -> "<review>"`)
	assert.Contains(t, out, `<&lt;review&gt; <BR />`)
	assert.NotContains(t, out, `"say "hi""`)
}

func TestDOTDrawerErrors(t *testing.T) {
	t.Parallel()

	drw := drawer.NewDOTDrawer(&bytes.Buffer{})
	require.NoError(t, drw.AddStage("a"))
	assert.Error(t, drw.AddStage("a"))
	assert.Error(t, drw.AddLink("a", "missing"))
	assert.Error(t, drw.SetTotalTime("missing", time.Second))
}

func TestFileDrawer(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "pipeline.dot")
	drw := drawer.NewFileDrawer(fileName)
	require.NoError(t, drw.AddStage("only"))
	require.NoError(t, drw.Draw())

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"only"`)
}

func TestFileDrawerBadPath(t *testing.T) {
	t.Parallel()

	drw := drawer.NewFileDrawer(filepath.Join(t.TempDir(), "missing", "pipeline.dot"))
	assert.Error(t, drw.Draw())
}

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	msr := measure.NewDefaultMeasure()
	msrOpt := measure.PipelineMeasure(msr)
	drwOpt := drawer.PipelineDrawer(drawer.NewDOTDrawer(&buf), msr)

	first := &model.StageInfo{Index: 0, Name: "Architecture", Total: 2}
	second := &model.StageInfo{Index: 1, Name: "Development", Total: 2}

	for _, opt := range []model.PipelineOption{msrOpt, drwOpt} {
		require.NoError(t, opt.New())
		require.NoError(t, opt.PrepareStage(model.StartStage, first))
		require.NoError(t, opt.PrepareStage(first, second))
	}

	ctx := context.Background()
	for _, opt := range []model.PipelineOption{msrOpt, drwOpt} {
		require.NoError(t, opt.OnStageEnd(ctx, first, &model.StageOutcome{
			Result: model.StageResult{Name: "Architecture", Duration: 20 * time.Millisecond, Success: true},
		}))
		require.NoError(t, opt.OnStageEnd(ctx, second, &model.StageOutcome{
			Result: model.StageResult{Name: "Development", Duration: 10 * time.Millisecond, Success: false},
			Err:    assert.AnError,
		}))
	}

	report := &model.Report{Total: 30 * time.Millisecond}
	require.NoError(t, msrOpt.Finish(report))
	require.NoError(t, drwOpt.Finish(report))

	out := buf.String()
	assert.Contains(t, out, `"start" -> "Architecture"`)
	assert.Contains(t, out, `"Architecture" -> "Development"`)
	assert.Contains(t, out, `"Development" -> "end"`)
	// slowest stage in red, fastest in blue
	assert.Regexp(t, `(?i)color="#f00000"`, out)
	assert.Regexp(t, `(?i)color="#0000f0"`, out)
	assert.Contains(t, out, `color="red"`)
	assert.Contains(t, out, `<end <BR /> <FONT POINT-SIZE="12">30ms</FONT>>`)
}
