package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderTitle(t *testing.T) {
	assert.Equal(t, "oi", PlaceholderTitle("oi"))

	exact := strings.Repeat("a", 40)
	assert.Equal(t, exact, PlaceholderTitle(exact))

	long := strings.Repeat("a", 41)
	assert.Equal(t, strings.Repeat("a", 40)+"...", PlaceholderTitle(long))

	// Truncation counts runes, not bytes.
	acute := strings.Repeat("á", 50)
	got := PlaceholderTitle(acute)
	assert.Equal(t, strings.Repeat("á", 40)+"...", got)
}

func TestNewChat(t *testing.T) {
	chat := NewChat("Primeiro contato")

	assert.NotEmpty(t, chat.ID)
	assert.Equal(t, "Primeiro contato", chat.Title)
	assert.NotNil(t, chat.Messages)
	assert.Empty(t, chat.Messages)
	assert.Equal(t, chat.CreatedAt, chat.UpdatedAt)

	assert.NotEqual(t, chat.ID, NewChat("outro").ID)
}

func TestChatAppendTouches(t *testing.T) {
	chat := NewChat("t")
	before := chat.UpdatedAt

	time.Sleep(time.Millisecond)
	chat.Append(NewUserMessage("oi", nil))

	require.Len(t, chat.Messages, 1)
	assert.True(t, chat.UpdatedAt.After(before))
}

func TestMessageConstructors(t *testing.T) {
	user := NewUserMessage("oi", []FileRef{{Name: "notas.pdf"}})
	assert.Equal(t, RoleUser, user.Role)
	assert.False(t, user.IsStreaming)
	require.Len(t, user.Files, 1)

	streaming := NewAssistantMessage("", true)
	assert.Equal(t, RoleAssistant, streaming.Role)
	assert.True(t, streaming.IsStreaming)
	assert.Empty(t, streaming.Content)

	assert.NotEqual(t, user.ID, streaming.ID)
}
