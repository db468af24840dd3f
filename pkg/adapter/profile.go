package adapter

import (
	"strings"
)

// Profile is the wire-format family of a model.
type Profile int

const (
	// ProfileUnknown is the zero value and never valid for an agent.
	ProfileUnknown Profile = iota
	// ProfileClaude is the Anthropic messages format.
	ProfileClaude
	// ProfileTitan is the Amazon Titan text format. It has no system prompt.
	ProfileTitan
	// ProfileNova is the Amazon Nova messages format.
	ProfileNova
)

var profileMarkers = []struct {
	marker  string
	profile Profile
}{
	{marker: "anthropic.claude", profile: ProfileClaude},
	{marker: "amazon.titan", profile: ProfileTitan},
	{marker: "amazon.nova", profile: ProfileNova},
}

// ResolveProfile classifies a model identifier.
// Matching is done on a substring so that inference profile ids such as
// "us.anthropic.claude-3-haiku-20240307-v1:0" resolve like the bare model id.
func ResolveProfile(modelID string) (Profile, error) {
	for _, pm := range profileMarkers {
		if strings.Contains(modelID, pm.marker) {
			return pm.profile, nil
		}
	}

	return ProfileUnknown, newError(ErrUnsupportedModel, modelID, nil)
}

// SupportsSystemPrompt reports whether the profile sends a system prompt to the model.
func (p Profile) SupportsSystemPrompt() bool {
	return p == ProfileClaude || p == ProfileNova
}

func (p Profile) String() string {
	switch p {
	case ProfileClaude:
		return "claude"
	case ProfileTitan:
		return "titan"
	case ProfileNova:
		return "nova"
	case ProfileUnknown:
	}

	return "unknown"
}
