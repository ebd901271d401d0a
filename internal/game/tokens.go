package game

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encoderMu sync.Mutex
	encoders  = map[string]*tiktoken.Tiktoken{}
)

// CountTokens approximates the token count of text for the given model.
// It uses the model's subword encoding when one can be loaded and falls
// back to a 4-characters-per-token heuristic. It never fails.
func CountTokens(text, model string) int {
	if text == "" {
		return 0
	}
	if enc := encoderFor(model); enc != nil {
		if n := len(enc.Encode(text, nil, nil)); n > 0 {
			return n
		}
	}
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}

func encoderFor(model string) *tiktoken.Tiktoken {
	encoderMu.Lock()
	defer encoderMu.Unlock()
	if enc, ok := encoders[model]; ok {
		return enc
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Cache the miss so an unreachable BPE source is not retried per call.
		encoders[model] = nil
		return nil
	}
	encoders[model] = enc
	return enc
}
