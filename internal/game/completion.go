package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured signals that the completion backend has no usable
// credentials. It is the only error generation surfaces to callers.
var ErrNotConfigured = errors.New("completion backend is not configured")

// CompletionRequest is one text-completion call. The backend must honor
// JSON-object response mode.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// CompletionResult carries the model's raw JSON text plus usage counters.
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// Completer is the language-model collaborator (implemented by openai.Client).
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
}

// questionUnit is one synthesized answer unit as returned by the model.
// Model output is adversarial input: every field is optional on the wire
// and validated during assembly.
type questionUnit struct {
	MemberName string `json:"member_name"`
	Prompt     string `json:"prompt"`
	Answer     string `json:"answer"`

	// guess-who
	Question string `json:"question"`

	// two-truths-lie
	Truth  string   `json:"truth"`
	Lie1   string   `json:"lie1"`
	Lie2   string   `json:"lie2"`
	Emojis emojiSet `json:"emojis"`
}

// emojiSet holds the per-statement emoji decorations keyed by option id.
// Models sometimes emit the legacy array form ["🥧","🌍","🍕"] instead of
// an object, and occasionally something else entirely. All shapes decode
// without error; an unusable value becomes an empty set so assembly falls
// back to the default emojis instead of the whole batch being rejected.
type emojiSet map[string]string

func (e *emojiSet) UnmarshalJSON(data []byte) error {
	var asObject map[string]string
	if err := json.Unmarshal(data, &asObject); err == nil {
		*e = asObject
		return nil
	}
	var asArray []string
	if err := json.Unmarshal(data, &asArray); err == nil {
		set := make(emojiSet, len(asArray))
		for i, key := range []string{"truth", "lie1", "lie2"} {
			if i < len(asArray) {
				set[key] = asArray[i]
			}
		}
		*e = set
		return nil
	}
	*e = nil
	return nil
}

// batchPayload is the contractual response shape of a completion call.
type batchPayload struct {
	GuessWho     []questionUnit `json:"guess_who"`
	TwoTruthsLie []questionUnit `json:"two_truths_lie"`
}

// parseBatchPayload decodes the model's response body. Some models wrap
// JSON in markdown fences despite the response-format contract, so fences
// are stripped before decoding.
func parseBatchPayload(content string) (*batchPayload, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	var payload batchPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil, fmt.Errorf("decode completion payload: %w", err)
	}
	return &payload, nil
}
