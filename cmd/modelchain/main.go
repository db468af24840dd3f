// Command modelchain runs a chain of Bedrock models, each stage feeding the next.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/askiada/go-model-chain/pkg/adapter"
	"github.com/askiada/go-model-chain/pkg/adapter/bedrock"
)

var version = "dev"

// modelLister is satisfied by *bedrock.Catalog.
type modelLister interface {
	Models(ctx context.Context) ([]bedrock.ModelSummary, error)
}

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	connect func(ctx context.Context, region string) (adapter.Transport, modelLister, error)
}

func main() {
	// a started stage runs to completion, SIGINT terminates the process
	a := &app{stdout: os.Stdout, stderr: os.Stderr, connect: connectBedrock}
	err := a.run(context.Background(), os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func connectBedrock(ctx context.Context, region string) (adapter.Transport, modelLister, error) {
	cfg, err := bedrock.LoadConfig(ctx, region)
	if err != nil {
		return nil, nil, err
	}
	client, catalog := bedrock.NewFromConfig(cfg)

	return client, catalog, nil
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError()
	}

	switch args[0] {
	case "run":
		return a.runCommand(ctx, args[1:])
	case "validate":
		return a.validateCommand(args[1:])
	case "models":
		return a.modelsCommand(ctx, args[1:])
	case "version":
		fmt.Fprintln(a.stdout, version)

		return nil
	default:
		return usageError()
	}
}

func usageError() error {
	return fmt.Errorf("%s", usage())
}

func usage() string {
	return `modelchain - chain Bedrock models, each stage feeding the next

Usage:
  modelchain run [-pipeline name] [-stages file.yaml] [-request "..."] [-graph file.dot] [-env file]
  modelchain validate [-pipeline name] [-stages file.yaml] [-env file]
  modelchain models [-env file]
  modelchain version
`
}
