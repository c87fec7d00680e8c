// Package tokenizer estimates prompt sizes in model tokens.
package tokenizer

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// fallbackEncoding is used for models tiktoken does not know.
const fallbackEncoding = "cl100k_base"

var encodings sync.Map // model name -> *tiktoken.Tiktoken

func encodingFor(model string) *tiktoken.Tiktoken {
	if enc, ok := encodings.Load(model); ok {
		return enc.(*tiktoken.Tiktoken)
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil
		}
	}
	encodings.Store(model, enc)
	return enc
}

// CountTokens returns the number of tokens in text for model. When no
// encoding can be loaded it falls back to a character based estimate.
func CountTokens(text string, model string) int {
	if text == "" {
		return 0
	}

	if enc := encodingFor(model); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return Estimate(text)
}

// Estimate approximates token count without an encoding: about 3.5 bytes
// per token for ASCII and one token per non-ASCII rune.
func Estimate(text string) int {
	ascii, other := 0, 0
	for _, r := range text {
		if r < utf8.RuneSelf {
			ascii++
		} else {
			other++
		}
	}
	n := int(float64(ascii)/3.5) + other
	if n == 0 && text != "" {
		n = 1
	}
	return n
}

// ContextLimit returns a conservative input token budget for provider/model.
func ContextLimit(provider, model string) int {
	provider = strings.ToLower(provider)
	model = strings.ToLower(model)

	switch provider {
	case "openai", "endpoint":
		if strings.Contains(model, "gpt-3.5-turbo") {
			if strings.Contains(model, "16k") {
				return 12000
			}
			return 3000
		}
		return 100000
	case "deepseek":
		return 56000
	case "grok":
		return 100000
	case "gemini":
		if strings.Contains(model, "1.0") {
			return 30000
		}
		return 900000
	case "ollama":
		return 8000
	default:
		return 100000
	}
}
