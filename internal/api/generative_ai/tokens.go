package generativeAI

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
)

// CountTokens estimates token usage with the cl100k encoding. Backends that
// report usage should be preferred; this covers the ones that don't.
func CountTokens(text string) int {
	codecOnce.Do(func() {
		c, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err == nil {
			codec = c
		}
	})
	if codec == nil {
		// rough fallback, ~4 chars per token
		return (len(text) + 3) / 4
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		return (len(text) + 3) / 4
	}
	return len(ids)
}

// CountMessageTokens sums the estimate over a conversation.
func CountMessageTokens(messages []types.Message) int {
	total := 0
	for _, m := range messages {
		// role and separators
		total += 4 + CountTokens(m.Content)
	}
	return total
}
