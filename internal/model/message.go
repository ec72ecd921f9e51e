// Package model defines data structures for the companion chat core.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// FileRef describes an attachment carried by a user message.
type FileRef struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Message represents one turn in a chat.
//
// A message is mutated in place only while IsStreaming is true; once the
// streaming flag clears and the chat is persisted, it is treated as
// immutable.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Files       []FileRef `json:"files,omitempty"`
	IsStreaming bool      `json:"is_streaming,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserMessage creates a user message.
func NewUserMessage(text string, files []FileRef) *Message {
	return &Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      RoleUser,
		Content:   text,
		Files:     files,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message. Streaming messages
// start empty and receive content chunk by chunk.
func NewAssistantMessage(content string, isStreaming bool) *Message {
	return &Message{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Role:        RoleAssistant,
		Content:     content,
		IsStreaming: isStreaming,
		CreatedAt:   time.Now(),
	}
}
