package chain_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-model-chain/internal/chain"
	"github.com/askiada/go-model-chain/internal/config"
	"github.com/askiada/go-model-chain/pkg/adapter"
	"github.com/askiada/go-model-chain/pkg/pipeline"
)

func defaultConfig() config.Config {
	return config.Config{
		Region:             "us-east-1",
		ArchitectureModel:  config.DefaultArchitectureModel,
		DevelopmentModel:   config.DefaultDevelopmentModel,
		TestingModel:       config.DefaultTestingModel,
		DocumentationModel: config.DefaultDocumentationModel,
		Request:            config.DefaultRequest,
		Pipeline:           config.DefaultPipeline,
	}
}

// echoTransport answers every model with the text it received, in the model's wire format.
type echoTransport struct {
	mu       sync.Mutex
	payloads map[string][]string
}

func (e *echoTransport) Invoke(_ context.Context, modelID string, payload []byte) ([]byte, error) {
	e.mu.Lock()
	if e.payloads == nil {
		e.payloads = make(map[string][]string)
	}
	e.payloads[modelID] = append(e.payloads[modelID], string(payload))
	e.mu.Unlock()

	var req map[string]any
	err := json.Unmarshal(payload, &req)
	if err != nil {
		return nil, err
	}

	profile, err := adapter.ResolveProfile(modelID)
	if err != nil {
		return nil, err
	}

	var resp any
	switch profile {
	case adapter.ProfileClaude:
		text := req["messages"].([]any)[0].(map[string]any)["content"]
		resp = map[string]any{"content": []any{map[string]any{"type": "text", "text": text}}}
	case adapter.ProfileTitan:
		resp = map[string]any{"results": []any{map[string]any{"outputText": req["inputText"]}}}
	case adapter.ProfileNova:
		content := req["messages"].([]any)[0].(map[string]any)["content"]
		resp = map[string]any{"output": map[string]any{"message": map[string]any{"content": content}}}
	}

	return json.Marshal(resp)
}

func (e *echoTransport) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := 0
	for _, p := range e.payloads {
		total += len(p)
	}

	return total
}

func TestBuiltinsBuild(t *testing.T) {
	t.Parallel()

	for _, name := range chain.Names() {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			def, err := chain.Builtin(name, defaultConfig())
			require.NoError(t, err)
			assert.Equal(t, name, def.Name)
			assert.NotEmpty(t, def.Request)

			stages, err := chain.Build(def, &echoTransport{})
			require.NoError(t, err)
			assert.Len(t, stages, len(def.Stages))
		})
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{chain.Content, chain.ContentReview, chain.GameDevelopment}, chain.Names())
}

func TestBuiltinUnknown(t *testing.T) {
	t.Parallel()

	_, err := chain.Builtin("poetry", defaultConfig())
	assert.ErrorIs(t, err, chain.ErrUnknownPipeline)
}

func TestGameDevelopmentDefinition(t *testing.T) {
	t.Parallel()

	def, err := chain.Builtin(chain.GameDevelopment, defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "Create a simple Tic-Tac-Toe (X&Os) game in Python", def.Request)
	require.Len(t, def.Stages, 4)
	names := make([]string, 0, 4)
	for _, stage := range def.Stages {
		names = append(names, stage.Name)
	}
	assert.Equal(t, []string{"Architecture", "Development", "Testing", "Documentation"}, names)
	assert.Equal(t, "anthropic.claude-3-sonnet-20240229-v1:0", def.Stages[0].Model)
	assert.Equal(t, "amazon.titan-text-express-v1", def.Stages[3].Model)
	assert.Empty(t, def.Stages[3].SystemPrompt)
}

func TestBuiltinRequestOverride(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	def, err := chain.Builtin(chain.ContentReview, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Write a short marketing message for a new AI-powered productivity app", def.Request)

	cfg.Request = "Write a slogan"
	def, err = chain.Builtin(chain.ContentReview, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Write a slogan", def.Request)
}

func TestGameDevelopmentRun(t *testing.T) {
	t.Parallel()

	def, err := chain.Builtin(chain.GameDevelopment, defaultConfig())
	require.NoError(t, err)
	transport := &echoTransport{}
	stages, err := chain.Build(def, transport)
	require.NoError(t, err)

	pipe, err := pipeline.New()
	require.NoError(t, err)
	rep, err := pipe.Run(context.Background(), def.Request, stages...)
	require.NoError(t, err)

	require.Len(t, rep.Results, 4)
	assert.Equal(t, 4, transport.calls())
	assert.True(t, strings.HasPrefix(rep.Output, "Act as a technical writer."))
	assert.Contains(t, rep.Output, "Create comprehensive unit tests for this code:\nBased on this architecture, write complete Python code:\n"+
		"Create a detailed architecture and rulebook for: Create a simple Tic-Tac-Toe (X&Os) game in Python")

	// the Titan stage never carries a system prompt
	titan := transport.payloads[config.DefaultDocumentationModel]
	require.Len(t, titan, 1)
	assert.NotContains(t, titan[0], `"system"`)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	def, err := chain.LoadFile("testdata/stages.yaml")
	require.NoError(t, err)

	assert.Equal(t, "haiku-review", def.Name)
	assert.Equal(t, "Write a haiku about pipelines", def.Request)
	require.Len(t, def.Stages, 3)
	assert.Equal(t, chain.Descriptor{
		Name:         "Draft",
		Model:        "us.anthropic.claude-3-haiku-20240307-v1:0",
		SystemPrompt: "You are a poet.",
	}, def.Stages[0])

	transport := &echoTransport{}
	stages, err := chain.Build(def, transport)
	require.NoError(t, err)

	pipe, err := pipeline.New()
	require.NoError(t, err)
	rep, err := pipe.Run(context.Background(), def.Request, stages...)
	require.NoError(t, err)
	assert.Equal(t, "Summarize this critique in one sentence: Critique this haiku written for \"Write a haiku about pipelines\":\nWrite a haiku about pipelines", rep.Output)
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := chain.LoadFile("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		doc      string
		expected error
	}{
		"empty":     {doc: "", expected: chain.ErrNoStages},
		"no stages": {doc: "request: hi\n", expected: chain.ErrNoStages},
		"no name":   {doc: "stages:\n  - model: amazon.nova-lite-v1:0\n", expected: chain.ErrStageNameRequired},
		"no model":  {doc: "stages:\n  - name: a\n", expected: chain.ErrModelRequired},
		"duplicate": {doc: "stages:\n  - {name: a, model: m}\n  - {name: a, model: m}\n", expected: chain.ErrDuplicateStage},
		"reserved":  {doc: "stages:\n  - {name: end, model: amazon.nova-lite-v1:0}\n", expected: pipeline.ErrReservedStageName},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := chain.Load(strings.NewReader(tc.doc))
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestLoadUnknownField(t *testing.T) {
	t.Parallel()

	_, err := chain.Load(strings.NewReader("stages:\n  - {name: a, model: m, temperature: 1}\n"))
	assert.Error(t, err)
}

func TestBuildUnsupportedModel(t *testing.T) {
	t.Parallel()

	def := &chain.Definition{Stages: []chain.Descriptor{
		{Name: "a", Model: "amazon.nova-lite-v1:0"},
		{Name: "b", Model: "meta.llama3-8b-instruct-v1:0"},
	}}
	transport := &echoTransport{}
	_, err := chain.Build(def, transport)
	require.ErrorIs(t, err, adapter.ErrUnsupportedModel)
	assert.Contains(t, err.Error(), "stage b")
	assert.Zero(t, transport.calls())
}

func TestBuildInvalidPrompt(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"syntax":        "{{.Previous",
		"unknown field": "{{.Architecture}}",
	}

	for name, prompt := range tcs {
		prompt := prompt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			def := &chain.Definition{Stages: []chain.Descriptor{{Name: "a", Model: "amazon.nova-lite-v1:0", Prompt: prompt}}}
			_, err := chain.Build(def, &echoTransport{})
			assert.Error(t, err)
		})
	}
}

func TestBuildNil(t *testing.T) {
	t.Parallel()

	_, err := chain.Build(nil, &echoTransport{})
	assert.ErrorIs(t, err, chain.ErrNoStages)
}
