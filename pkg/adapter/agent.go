package adapter

import (
	"context"
)

// Config is the immutable configuration of one agent: the model to call, its resolved profile
// and an optional system prompt.
type Config struct {
	modelID      string
	profile      Profile
	systemPrompt string
}

// NewConfig resolves the profile of modelID. It fails with ErrUnsupportedModel when the
// identifier does not belong to a known family.
func NewConfig(modelID, systemPrompt string) (Config, error) {
	profile, err := ResolveProfile(modelID)
	if err != nil {
		return Config{}, err
	}

	return Config{
		modelID:      modelID,
		profile:      profile,
		systemPrompt: systemPrompt,
	}, nil
}

func (c Config) ModelID() string { return c.modelID }

func (c Config) Profile() Profile { return c.profile }

func (c Config) SystemPrompt() string { return c.systemPrompt }

// Agent invokes one configured model through a transport.
type Agent struct {
	cfg       Config
	transport Transport
}

// New creates an agent. cfg must come from NewConfig.
func New(transport Transport, cfg Config) *Agent {
	return &Agent{
		cfg:       cfg,
		transport: transport,
	}
}

// Config returns the agent configuration.
func (a *Agent) Config() Config {
	return a.cfg
}

// Invoke sends input to the model and returns the generated text.
func (a *Agent) Invoke(ctx context.Context, input string) (string, error) {
	return invoke(ctx, a.transport, a.cfg, input)
}

// Invoke resolves modelID and performs a single call. An unsupported model fails before the
// transport is reached.
func Invoke(ctx context.Context, transport Transport, modelID, input, systemPrompt string) (string, error) {
	cfg, err := NewConfig(modelID, systemPrompt)
	if err != nil {
		return "", err
	}

	return invoke(ctx, transport, cfg, input)
}

func invoke(ctx context.Context, transport Transport, cfg Config, input string) (string, error) {
	payload, err := BuildRequest(cfg.profile, input, cfg.systemPrompt)
	if err != nil {
		return "", withModel(err, cfg.modelID)
	}

	body, err := transport.Invoke(ctx, cfg.modelID, payload)
	if err != nil {
		return "", newError(ErrTransport, cfg.modelID, err)
	}

	text, err := ExtractText(cfg.profile, body)
	if err != nil {
		return "", withModel(err, cfg.modelID)
	}

	return text, nil
}

func withModel(err error, modelID string) error {
	if adErr, ok := err.(*Error); ok && adErr.ModelID == "" {
		adErr.ModelID = modelID
	}

	return err
}
