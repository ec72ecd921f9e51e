package llm

import (
	"strings"

	"github.com/psymind-ai/companion/internal/model"
)

// DefaultHistoryTurns is how many recent exchange pairs are sent to the
// provider alongside a new prompt.
const DefaultHistoryTurns = 8

// BuildHistory converts chat history into provider-neutral messages:
// the fixed system instruction pair first, then the most recent turns
// of history. Entries with no text are dropped, which also guards
// against malformed persisted history. Pure, no I/O.
func BuildHistory(history []*model.Message, systemPrompt, systemAck string, turns int) []ChatMessage {
	if turns <= 0 {
		turns = DefaultHistoryTurns
	}

	// One turn is a user/assistant pair.
	keep := 2 * turns
	if len(history) > keep {
		history = history[len(history)-keep:]
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages,
		ChatMessage{Role: "user", Content: systemPrompt},
		ChatMessage{Role: "assistant", Content: systemAck},
	)

	for _, msg := range history {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		messages = append(messages, ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return messages
}
