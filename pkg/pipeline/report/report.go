// Package report renders pipeline runs for humans. Nothing in here affects the control flow of a
// run.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-model-chain/pkg/pipeline/model"
)

const (
	summaryWidth  = 50
	successMarker = "[SUCCESS]"
	failureMarker = "[FAILED] "
)

// Print writes the timing summary of a run.
func Print(wrt io.Writer, rep *model.Report) error {
	var sb strings.Builder

	sb.WriteString("\n*** TIMING SUMMARY ***\n")
	sb.WriteString(strings.Repeat("-", summaryWidth) + "\n")
	for _, res := range rep.Results {
		marker := successMarker
		if !res.Success {
			marker = failureMarker
		}
		fmt.Fprintf(&sb, "%-35s: %8.2f sec %s\n", res.Name, res.Duration.Seconds(), marker)
	}
	sb.WriteString(strings.Repeat("-", summaryWidth) + "\n")
	fmt.Fprintf(&sb, "Total Pipeline Time: %.2f seconds\n", rep.Total.Seconds())
	sb.WriteString(strings.Repeat("=", summaryWidth) + "\n")

	_, err := io.WriteString(wrt, sb.String())
	if err != nil {
		return errors.Wrap(err, "unable to write timing summary")
	}

	return nil
}

type pipelineReport struct {
	model.NopOption
	wrt io.Writer
}

func (pr *pipelineReport) Finish(rep *model.Report) error {
	err := Print(pr.wrt, rep)
	if err != nil {
		slog.Warn("timing summary not printed", "run_id", rep.RunID, "error", err)
	}

	return nil
}

// PipelineReport prints the timing summary when the run is finished. Write errors are logged with
// the default slog logger and never fail the run.
func PipelineReport(wrt io.Writer) model.PipelineOption {
	return &pipelineReport{wrt: wrt}
}

type pipelineOutput struct {
	model.NopOption
	wrt io.Writer
}

func (po *pipelineOutput) OnStageEnd(_ context.Context, stage *model.StageInfo, outcome *model.StageOutcome) error {
	if !outcome.Result.Success {
		return nil
	}

	_, err := fmt.Fprintf(po.wrt, "\n=== %s ===\n%s\n\n", strings.ToUpper(stage.Name), outcome.Output)
	if err != nil {
		slog.Warn("stage output not printed", "stage", stage.Name, "error", err)
	}

	return nil
}

// PipelineOutput prints the text produced by every successful stage. Write errors are logged with
// the default slog logger and never stop the run.
func PipelineOutput(wrt io.Writer) model.PipelineOption {
	return &pipelineOutput{wrt: wrt}
}

type pipelineLog struct {
	model.NopOption
	logger *slog.Logger
}

func (pl *pipelineLog) OnStageStart(ctx context.Context, stage *model.StageInfo) context.Context {
	pl.logger.InfoContext(ctx, fmt.Sprintf("[%d/%d] stage started", stage.Index+1, stage.Total),
		"stage", stage.Name,
		"model", stage.Model,
	)

	return ctx
}

func (pl *pipelineLog) OnStageEnd(ctx context.Context, stage *model.StageInfo, outcome *model.StageOutcome) error {
	attrs := []any{
		"stage", stage.Name,
		"model", stage.Model,
		"duration", outcome.Result.Duration,
	}
	if outcome.Err != nil {
		pl.logger.ErrorContext(ctx, fmt.Sprintf("[%d/%d] stage failed", stage.Index+1, stage.Total),
			append(attrs, "error", outcome.Err)...)

		return nil
	}

	pl.logger.InfoContext(ctx, fmt.Sprintf("[%d/%d] stage completed", stage.Index+1, stage.Total),
		append(attrs, "output_bytes", len(outcome.Output))...)

	return nil
}

func (pl *pipelineLog) Finish(rep *model.Report) error {
	pl.logger.Info("pipeline finished",
		"run_id", rep.RunID,
		"stages", len(rep.Results),
		"success", rep.Succeeded(),
		"total", rep.Total,
	)

	return nil
}

// PipelineLog logs the progress of every stage.
func PipelineLog(logger *slog.Logger) model.PipelineOption {
	return &pipelineLog{logger: logger}
}
