package model

import (
	"time"

	"github.com/google/uuid"
)

// titleLimit is the length at which placeholder titles are truncated.
const titleLimit = 40

// Chat represents one persisted conversation thread.
type Chat struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewChat creates an empty chat. UUIDv7 IDs are time-ordered, so the ID
// doubles as a creation-time sort key.
func NewChat(title string) *Chat {
	now := time.Now()
	return &Chat{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Title:     title,
		Messages:  []*Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes the chat's update timestamp.
func (c *Chat) Touch() {
	c.UpdatedAt = time.Now()
}

// Append adds a message and refreshes the update timestamp.
func (c *Chat) Append(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.Touch()
}

// PlaceholderTitle derives a chat title from the first message text.
// Kept until background title generation replaces it, or forever when
// that fails.
func PlaceholderTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleLimit {
		return text
	}
	return string(runes[:titleLimit]) + "..."
}
