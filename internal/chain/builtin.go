package chain

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-model-chain/internal/config"
)

const (
	GameDevelopment = "game-development"
	Content         = "content"
	ContentReview   = "content-review"
)

var builtins = map[string]func(cfg config.Config) *Definition{
	GameDevelopment: gameDevelopment,
	Content:         content,
	ContentReview:   contentReview,
}

// Names returns the names of the built-in definitions, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Builtin returns the built-in definition called name, with models taken from cfg.
func Builtin(name string, cfg config.Config) (*Definition, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPipeline, "%q (available: %v)", name, Names())
	}

	return build(cfg), nil
}

func gameDevelopment(cfg config.Config) *Definition {
	return &Definition{
		Name:    GameDevelopment,
		Request: cfg.Request,
		Stages: []Descriptor{
			{
				Name:         "Architecture",
				Model:        cfg.ArchitectureModel,
				SystemPrompt: "You are a software architect. Create detailed technical specifications and architecture for software projects.",
				Prompt:       "Create a detailed architecture and rulebook for: {{.Previous}}",
			},
			{
				Name:         "Development",
				Model:        cfg.DevelopmentModel,
				SystemPrompt: "You are a Python developer. Write clean, functional code based on specifications.",
				Prompt:       "Based on this architecture, write complete Python code:\n{{.Previous}}",
			},
			{
				Name:         "Testing",
				Model:        cfg.TestingModel,
				SystemPrompt: "You are a QA engineer. Create comprehensive tests for code to ensure it works correctly.",
				Prompt:       "Create comprehensive unit tests for this code:\n{{.Previous}}",
			},
			{
				// Titan models take no system prompt.
				Name:  "Documentation",
				Model: cfg.DocumentationModel,
				Prompt: "Act as a technical writer. Create comprehensive documentation for this project: {{.Request}}. " +
					"Include setup instructions, usage guide, testing approach, and API reference.\n\n" +
					"Test Suite:\n{{.Previous}}\n\n" +
					"Create documentation that explains how to use the application and how it was tested.",
			},
		},
	}
}

func content(cfg config.Config) *Definition {
	request := cfg.Request
	if request == config.DefaultRequest {
		request = "Benefits of cloud computing for small businesses"
	}

	return &Definition{
		Name:    Content,
		Request: request,
		Stages: []Descriptor{
			{
				Name:   "Analyze",
				Model:  cfg.DevelopmentModel,
				Prompt: "Analyze this topic and suggest key points: {{.Previous}}",
			},
			{
				Name:   "Write",
				Model:  cfg.TestingModel,
				Prompt: "Write content about: {{.Request}}. Key points: {{.Previous}}",
			},
			{
				Name:   "Edit",
				Model:  cfg.DevelopmentModel,
				Prompt: "Edit and polish this content: {{.Previous}}",
			},
		},
	}
}

func contentReview(cfg config.Config) *Definition {
	request := cfg.Request
	if request == config.DefaultRequest {
		request = "Write a short marketing message for a new AI-powered productivity app"
	}

	return &Definition{
		Name:    ContentReview,
		Request: request,
		Stages: []Descriptor{
			{
				Name:         "Generate",
				Model:        cfg.DevelopmentModel,
				SystemPrompt: "You are a content creator. Generate creative content based on user input.",
			},
			{
				Name:   "Review",
				Model:  cfg.DocumentationModel,
				Prompt: "Act as an editor. Review and improve this content to make it more concise and professional: {{.Previous}}",
			},
		},
	}
}
