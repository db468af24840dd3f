package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-model-chain/internal/chain"
	"github.com/askiada/go-model-chain/internal/config"
	"github.com/askiada/go-model-chain/internal/telemetry"
	"github.com/askiada/go-model-chain/pkg/adapter"
	"github.com/askiada/go-model-chain/pkg/pipeline"
	"github.com/askiada/go-model-chain/pkg/pipeline/drawer"
	"github.com/askiada/go-model-chain/pkg/pipeline/measure"
	"github.com/askiada/go-model-chain/pkg/pipeline/model"
	"github.com/askiada/go-model-chain/pkg/pipeline/report"
	"github.com/askiada/go-model-chain/pkg/pipeline/tracing"
)

const shutdownTimeout = 10 * time.Second

// definitionFlags are shared by run and validate.
type definitionFlags struct {
	pipeline string
	stages   string
	request  string
	envFile  string
}

func (df *definitionFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&df.pipeline, "pipeline", "", "built-in pipeline: "+fmt.Sprint(chain.Names()))
	fs.StringVar(&df.stages, "stages", "", "YAML stage definition, takes precedence over -pipeline")
	fs.StringVar(&df.request, "request", "", "request sent to the first stage")
	fs.StringVar(&df.envFile, "env", ".env", "dotenv file loaded before reading the environment")
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	return fs
}

func loadConfig(envFile string) (config.Config, error) {
	err := config.LoadDotEnv(envFile)
	if err != nil {
		return config.Config{}, err
	}

	return config.Load()
}

// definition resolves the stage definition from flags, then environment.
func (df *definitionFlags) definition(cfg config.Config) (*chain.Definition, error) {
	stagesFile := cfg.StagesFile
	if df.stages != "" {
		stagesFile = df.stages
	}
	name := cfg.Pipeline
	if df.pipeline != "" {
		name = df.pipeline
		// an explicit built-in beats a file from the environment
		if df.stages == "" {
			stagesFile = ""
		}
	}

	var def *chain.Definition
	var err error
	if stagesFile != "" {
		def, err = chain.LoadFile(stagesFile)
	} else {
		def, err = chain.Builtin(name, cfg)
	}
	if err != nil {
		return nil, err
	}

	if df.request != "" {
		def.Request = df.request
	}
	if def.Request == "" {
		def.Request = cfg.Request
	}

	return def, nil
}

func (a *app) newLogger(cfg config.Config) *slog.Logger {
	lvl, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(a.stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	return logger
}

func (a *app) runCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("run")
	var df definitionFlags
	df.register(fs)
	var graphFile string
	fs.StringVar(&graphFile, "graph", "", "write the executed stages as a DOT graph to this file")
	err := fs.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(df.envFile)
	if err != nil {
		return err
	}
	if graphFile == "" {
		graphFile = cfg.GraphFile
	}
	logger := a.newLogger(cfg)

	def, err := df.definition(cfg)
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Settings{
		Endpoint:    cfg.OTELEndpoint,
		ServiceName: cfg.ServiceName,
		Version:     version,
		Insecure:    cfg.OTELInsecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr := shutdown(shutdownCtx)
		if shutdownErr != nil {
			logger.Warn("telemetry shutdown failed", "error", shutdownErr)
		}
	}()

	transport, _, err := a.connect(ctx, cfg.Region)
	if err != nil {
		return err
	}

	stages, err := chain.Build(def, transport)
	if err != nil {
		return err
	}

	msr := measure.NewDefaultMeasure()
	opts := []model.PipelineOption{
		measure.PipelineMeasure(msr),
		tracing.PipelineTracing(telemetry.Tracer(tracing.InstrumentationName), telemetry.Meter(tracing.InstrumentationName)),
		report.PipelineLog(logger),
		report.PipelineOutput(a.stdout),
		report.PipelineReport(a.stdout),
	}
	if graphFile != "" {
		opts = append(opts, drawer.PipelineDrawer(drawer.NewFileDrawer(graphFile), msr))
	}

	pipe, err := pipeline.New(opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Starting %s pipeline (%d stages) in %s\nRequest: %s\n", def.Name, len(stages), cfg.Region, def.Request)

	_, err = pipe.Run(ctx, def.Request, stages...)
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			fmt.Fprintf(a.stdout, "\nPIPELINE FAILED at stage %d/%d (%s)\n", stageErr.Index+1, len(stages), stageErr.Name)
		}

		return err
	}

	fmt.Fprintln(a.stdout, "\nPIPELINE COMPLETED SUCCESSFULLY")

	return nil
}

func (a *app) validateCommand(args []string) error {
	fs := a.newFlagSet("validate")
	var df definitionFlags
	df.register(fs)
	err := fs.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(df.envFile)
	if err != nil {
		return err
	}

	def, err := df.definition(cfg)
	if err != nil {
		return err
	}

	offline := adapter.TransportFunc(func(context.Context, string, []byte) ([]byte, error) {
		return nil, errors.New("validate does not call models")
	})
	stages, err := chain.Build(def, offline)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tSTAGE\tMODEL\tPROFILE\n")
	for idx, stage := range stages {
		profile := adapter.ProfileUnknown
		if agent, ok := stage.Agent.(*adapter.Agent); ok {
			profile = agent.Config().Profile()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", idx+1, stage.Name, stage.Model, profile)
	}
	err = tw.Flush()
	if err != nil {
		return errors.Wrap(err, "unable to print stages")
	}
	fmt.Fprintf(a.stdout, "%s is valid\n", def.Name)

	return nil
}

func (a *app) modelsCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("models")
	var envFile string
	fs.StringVar(&envFile, "env", ".env", "dotenv file loaded before reading the environment")
	err := fs.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	_, catalog, err := a.connect(ctx, cfg.Region)
	if err != nil {
		return err
	}

	models, err := catalog.Models(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "MODEL\tPROVIDER\tPROFILE\n")
	for _, m := range models {
		profile := "unsupported"
		if m.Profile != adapter.ProfileUnknown {
			profile = m.Profile.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.Provider, profile)
	}
	err = tw.Flush()
	if err != nil {
		return errors.Wrap(err, "unable to print models")
	}

	return nil
}
