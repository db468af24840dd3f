package chain

import (
	"io"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/askiada/go-model-chain/pkg/adapter"
	"github.com/askiada/go-model-chain/pkg/pipeline"
)

type promptData struct {
	Previous string
	Request  string
}

// Build turns def into pipeline stages invoking models through transport.
//
// Every model is resolved and every prompt template parsed before returning, so an unsupported
// model or a broken template fails here and never reaches the transport.
func Build(def *Definition, transport adapter.Transport) ([]pipeline.Stage, error) {
	if def == nil {
		return nil, ErrNoStages
	}
	err := def.Validate()
	if err != nil {
		return nil, err
	}

	stages := make([]pipeline.Stage, 0, len(def.Stages))
	for _, desc := range def.Stages {
		cfg, err := adapter.NewConfig(desc.Model, desc.SystemPrompt)
		if err != nil {
			return nil, errors.Wrapf(err, "stage %s", desc.Name)
		}

		prompt, err := newPrompt(desc, def.Request)
		if err != nil {
			return nil, err
		}

		stages = append(stages, pipeline.Stage{
			Name:   desc.Name,
			Model:  desc.Model,
			Agent:  adapter.New(transport, cfg),
			Prompt: prompt,
		})
	}

	return stages, nil
}

func newPrompt(desc Descriptor, request string) (pipeline.PromptFunc, error) {
	if desc.Prompt == "" {
		return nil, nil
	}

	tmpl, err := template.New(desc.Name).Parse(desc.Prompt)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse prompt of stage %s", desc.Name)
	}
	// unknown fields only show up when executing
	err = tmpl.Execute(io.Discard, promptData{})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid prompt of stage %s", desc.Name)
	}

	return func(previous string) (string, error) {
		var sb strings.Builder
		err := tmpl.Execute(&sb, promptData{Previous: previous, Request: request})
		if err != nil {
			return "", errors.Wrapf(err, "unable to render prompt of stage %s", desc.Name)
		}

		return sb.String(), nil
	}, nil
}
