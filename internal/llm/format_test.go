package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psymind-ai/companion/internal/model"
)

const (
	testSystem = "system prompt"
	testAck    = "entendido"
)

func makeExchanges(n int) []*model.Message {
	history := make([]*model.Message, 0, 2*n)
	for i := 0; i < n; i++ {
		history = append(history,
			model.NewUserMessage(fmt.Sprintf("pergunta %d", i), nil),
			model.NewAssistantMessage(fmt.Sprintf("resposta %d", i), false),
		)
	}
	return history
}

func TestBuildHistoryPrependsSystemPair(t *testing.T) {
	messages := BuildHistory(nil, testSystem, testAck, 8)

	require.Len(t, messages, 2)
	assert.Equal(t, ChatMessage{Role: "user", Content: testSystem}, messages[0])
	assert.Equal(t, ChatMessage{Role: "assistant", Content: testAck}, messages[1])
}

func TestBuildHistoryKeepsOnlyRecentTurns(t *testing.T) {
	// 20 exchanges, window of 8 turns: 16 history entries + 2 preamble.
	history := makeExchanges(20)
	messages := BuildHistory(history, testSystem, testAck, 8)

	require.Len(t, messages, 18)
	assert.Equal(t, "pergunta 12", messages[2].Content)
	assert.Equal(t, "resposta 19", messages[17].Content)
}

func TestBuildHistoryShorterThanWindow(t *testing.T) {
	history := makeExchanges(3)
	messages := BuildHistory(history, testSystem, testAck, 8)

	require.Len(t, messages, 8)
	assert.Equal(t, "pergunta 0", messages[2].Content)
}

func TestBuildHistoryDropsEmptyMessages(t *testing.T) {
	history := []*model.Message{
		model.NewUserMessage("oi", nil),
		model.NewAssistantMessage("", false),
		model.NewAssistantMessage("   \n\t", false),
		model.NewAssistantMessage("olá!", false),
	}
	messages := BuildHistory(history, testSystem, testAck, 8)

	require.Len(t, messages, 4)
	assert.Equal(t, "oi", messages[2].Content)
	assert.Equal(t, "olá!", messages[3].Content)
}

func TestBuildHistoryRoles(t *testing.T) {
	history := makeExchanges(1)
	messages := BuildHistory(history, testSystem, testAck, 8)

	require.Len(t, messages, 4)
	assert.Equal(t, "user", messages[2].Role)
	assert.Equal(t, "assistant", messages[3].Role)
}

func TestBuildHistoryDefaultsTurns(t *testing.T) {
	history := makeExchanges(20)

	messages := BuildHistory(history, testSystem, testAck, 0)
	assert.Len(t, messages, 2+2*DefaultHistoryTurns)

	messages = BuildHistory(history, testSystem, testAck, -3)
	assert.Len(t, messages, 2+2*DefaultHistoryTurns)
}
