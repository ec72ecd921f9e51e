package model

// EventType represents the type of session state event.
type EventType string

const (
	EventChatCreated     EventType = "chat_created"
	EventChatUpdated     EventType = "chat_updated"
	EventChatDeleted     EventType = "chat_deleted"
	EventChatLoaded      EventType = "chat_loaded"
	EventHistoryCleared  EventType = "history_cleared"
	EventMessageAppended EventType = "message_appended"
	EventMessageChunk    EventType = "message_chunk"
	EventTypingChanged   EventType = "typing_changed"
	EventStreamStarted   EventType = "stream_started"
	EventStreamEnded     EventType = "stream_ended"
)

// Event describes one state change in the chat session. The presentation
// layer subscribes to these instead of polling session state.
type Event struct {
	Type    EventType `json:"type"`
	ChatID  string    `json:"chat_id,omitempty"`
	Message *Message  `json:"message,omitempty"`
	Chunk   string    `json:"chunk,omitempty"`
	Typing  bool      `json:"typing,omitempty"`
}
