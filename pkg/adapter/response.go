package adapter

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// responsePaths locates the generated text inside the decoded response of each profile.
// Elements are object keys (string) or array indexes (int).
var responsePaths = map[Profile][]any{
	ProfileClaude: {"content", 0, "text"},
	ProfileTitan:  {"results", 0, "outputText"},
	ProfileNova:   {"output", "message", "content", 0, "text"},
}

// ExtractText decodes a raw response body and returns the generated text.
// A path that does not exist in the document is treated as empty text, so the caller gets
// ErrEmptyResponse rather than ErrMalformedResponse.
func ExtractText(profile Profile, body []byte) (string, error) {
	path, ok := responsePaths[profile]
	if !ok {
		return "", newError(ErrUnsupportedModel, "", errors.Errorf("profile %s", profile))
	}

	if !utf8.Valid(body) {
		return "", newError(ErrInvalidEncoding, "", nil)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", newError(ErrMalformedResponse, "", err)
	}

	text := lookupString(doc, path)
	if text == "" {
		return "", newError(ErrEmptyResponse, "", nil)
	}

	return text, nil
}

func lookupString(doc any, path []any) string {
	curr := doc
	for _, elem := range path {
		switch key := elem.(type) {
		case string:
			obj, ok := curr.(map[string]any)
			if !ok {
				return ""
			}
			curr = obj[key]
		case int:
			list, ok := curr.([]any)
			if !ok || key >= len(list) {
				return ""
			}
			curr = list[key]
		default:
			return ""
		}
	}

	text, _ := curr.(string)

	return text
}
