package adapter

import (
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	// AnthropicVersion is the protocol version tag sent with every Claude request.
	AnthropicVersion = "bedrock-2023-05-31"
	// MaxTokens caps the output of every profile.
	MaxTokens = 4000
	// Temperature is used by the profiles that accept one in their generation config.
	Temperature = 0.7
)

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
}

type titanGenerationConfig struct {
	MaxTokenCount int     `json:"maxTokenCount"`
	Temperature   float64 `json:"temperature"`
}

type titanRequest struct {
	InputText            string                `json:"inputText"`
	TextGenerationConfig titanGenerationConfig `json:"textGenerationConfig"`
}

type novaText struct {
	Text string `json:"text"`
}

type novaMessage struct {
	Role    string     `json:"role"`
	Content []novaText `json:"content"`
}

type novaInferenceConfig struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

type novaRequest struct {
	Messages        []novaMessage       `json:"messages"`
	System          []novaText          `json:"system,omitempty"`
	InferenceConfig novaInferenceConfig `json:"inferenceConfig"`
}

// BuildRequest encodes the request payload of a profile.
// Titan has no system prompt field: a non-empty systemPrompt is dropped for that profile.
func BuildRequest(profile Profile, input, systemPrompt string) ([]byte, error) {
	var req any

	switch profile {
	case ProfileClaude:
		req = claudeRequest{
			AnthropicVersion: AnthropicVersion,
			MaxTokens:        MaxTokens,
			System:           systemPrompt,
			Messages:         []claudeMessage{{Role: "user", Content: input}},
		}
	case ProfileTitan:
		req = titanRequest{
			InputText: input,
			TextGenerationConfig: titanGenerationConfig{
				MaxTokenCount: MaxTokens,
				Temperature:   Temperature,
			},
		}
	case ProfileNova:
		nova := novaRequest{
			Messages: []novaMessage{{Role: "user", Content: []novaText{{Text: input}}}},
			InferenceConfig: novaInferenceConfig{
				MaxTokens:   MaxTokens,
				Temperature: Temperature,
			},
		}
		if systemPrompt != "" {
			nova.System = []novaText{{Text: systemPrompt}}
		}
		req = nova
	case ProfileUnknown:
		return nil, newError(ErrUnsupportedModel, "", nil)
	default:
		return nil, newError(ErrUnsupportedModel, "", errors.Errorf("profile %d", profile))
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to encode %s request", profile)
	}

	return payload, nil
}
