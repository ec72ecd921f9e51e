// Package session implements the chat session core: it owns the chat
// list, the active conversation, streaming state, and the write-through
// persistence of every mutation.
package session

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/psymind-ai/companion/internal/config"
	"github.com/psymind-ai/companion/internal/llm"
	"github.com/psymind-ai/companion/internal/model"
	"github.com/psymind-ai/companion/internal/prompt"
	"github.com/psymind-ai/companion/internal/storage"
	"github.com/psymind-ai/companion/internal/stream"
	"github.com/psymind-ai/companion/pkg/logger"
	"github.com/psymind-ai/companion/pkg/metrics"
)

// TextGenerator is the text-generation collaborator contract. It always
// resolves to a Result; transport errors never escape it.
type TextGenerator interface {
	Generate(ctx context.Context, promptText string, history []*model.Message) *llm.Result
	GenerateTitle(ctx context.Context, text string) (string, bool)
}

// Listener receives session state events. Listeners are invoked
// synchronously on the mutating goroutine and must not call back into
// the session.
type Listener func(model.Event)

// Session is the chat session core. All methods are safe for concurrent
// use; mutations are serialized and each one is persisted to the store
// before the method returns.
type Session struct {
	mu       sync.Mutex
	cfg      *config.Config
	store    storage.Store
	gen      TextGenerator
	logger   *logger.Logger
	listener []Listener

	chats        []*model.Chat
	activeChatID string
	messages     []*model.Message
	input        string

	typing     bool
	streaming  bool
	streamer   *stream.Streamer
	streamMsg  *model.Message
	streamChat string
	streamDone chan struct{}

	// sendMu keeps sends strictly ordered: the assistant placeholder
	// stays the last message until its stream finishes.
	sendMu sync.Mutex
}

// New creates a session, loading persisted chats from the store. A
// missing or unreadable chat list behaves like a first run.
func New(cfg *config.Config, store storage.Store, gen TextGenerator, log *logger.Logger) *Session {
	s := &Session{
		cfg:    cfg,
		store:  store,
		gen:    gen,
		logger: log,
	}

	var chats []*model.Chat
	if store.Get(storage.KeyChatHistory, &chats) {
		s.chats = chats
	}
	log.Info("session initialized", zap.Int("chats", len(s.chats)))

	return s
}

// Subscribe registers a state event listener.
func (s *Session) Subscribe(l Listener) {
	s.mu.Lock()
	s.listener = append(s.listener, l)
	s.mu.Unlock()
}

// Send appends the user message, calls the text-generation collaborator
// and reveals the response through the streamer (or atomically under
// reduced motion). It blocks until the assistant message is final and
// returns it. A blank text with no attachments is a no-op returning nil.
//
// Classified generation errors are rendered into the conversation as an
// assistant turn, never returned: the chat stays usable.
func (s *Session) Send(ctx context.Context, text string, files []model.FileRef) *model.Message {
	if strings.TrimSpace(text) == "" && len(files) == 0 {
		return nil
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	userMsg := model.NewUserMessage(text, files)

	s.mu.Lock()
	newChat := false
	chat := s.findChatLocked(s.activeChatID)
	if chat == nil {
		// The chat must exist and be visible before any network call.
		chat = model.NewChat(model.PlaceholderTitle(text))
		s.chats = append([]*model.Chat{chat}, s.chats...)
		s.activeChatID = chat.ID
		newChat = true
		metrics.ChatsTotal.Inc()
	}
	history := append([]*model.Message(nil), s.messages...)
	chat.Append(userMsg)
	s.messages = append(s.messages, userMsg)
	s.input = ""
	s.typing = true
	chatID := chat.ID
	s.persistLocked()
	s.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()
	if newChat {
		s.notify(model.Event{Type: model.EventChatCreated, ChatID: chatID})
	}
	s.notify(model.Event{Type: model.EventMessageAppended, ChatID: chatID, Message: userMsg})
	s.notify(model.Event{Type: model.EventTypingChanged, ChatID: chatID, Typing: true})

	// Best-effort: the placeholder title is kept when this fails, and
	// it must never block message display.
	if newChat {
		go s.generateTitle(chatID, text)
	}

	result := s.gen.Generate(ctx, text, history)
	fullResponse := result.Text
	if !result.OK() {
		fullResponse = result.Err.UserMessage + prompt.ErrorSuffix
	}

	if s.cfg.ReducedMotion {
		return s.appendWhole(chatID, fullResponse)
	}
	return s.streamResponse(chatID, fullResponse)
}

// appendWhole appends the finished assistant message atomically.
func (s *Session) appendWhole(chatID, text string) *model.Message {
	assistant := model.NewAssistantMessage(text, false)

	s.mu.Lock()
	s.typing = false
	s.messages = append(s.messages, assistant)
	if chat := s.findChatLocked(chatID); chat != nil {
		chat.Append(assistant)
	}
	s.persistLocked()
	s.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(string(model.RoleAssistant)).Inc()
	s.notify(model.Event{Type: model.EventTypingChanged, ChatID: chatID})
	s.notify(model.Event{Type: model.EventMessageAppended, ChatID: chatID, Message: assistant})
	return assistant
}

// streamResponse appends an empty streaming assistant message and
// drives a streamer over text, blocking until Done or Stopped.
func (s *Session) streamResponse(chatID, text string) *model.Message {
	assistant := model.NewAssistantMessage("", true)
	done := make(chan struct{})

	s.mu.Lock()
	s.typing = false
	s.messages = append(s.messages, assistant)
	s.streamMsg = assistant
	s.streamChat = chatID
	s.streamDone = done
	s.streaming = true
	s.mu.Unlock()

	metrics.StreamsActive.Inc()
	s.notify(model.Event{Type: model.EventTypingChanged, ChatID: chatID})
	s.notify(model.Event{Type: model.EventMessageAppended, ChatID: chatID, Message: assistant})
	s.notify(model.Event{Type: model.EventStreamStarted, ChatID: chatID, Message: assistant})

	st := stream.New(text, s.onChunk, s.onStreamComplete, stream.Config{
		MinChunk:      s.cfg.MinChunk,
		MaxChunk:      s.cfg.MaxChunk,
		MinDelay:      s.cfg.MinChunkDelay,
		MaxDelay:      s.cfg.MaxChunkDelay,
		SentencePause: s.cfg.SentencePause,
		ClausePause:   s.cfg.ClausePause,
	})

	s.mu.Lock()
	s.streamer = st
	s.mu.Unlock()

	st.Start(s.cfg.InitialDelay)
	<-done
	return assistant
}

// onChunk appends a streamed chunk to the in-flight assistant message.
func (s *Session) onChunk(chunk string) {
	s.mu.Lock()
	msg := s.streamMsg
	chatID := s.streamChat
	if msg == nil {
		s.mu.Unlock()
		return
	}
	msg.Content += chunk
	s.mu.Unlock()

	s.notify(model.Event{Type: model.EventMessageChunk, ChatID: chatID, Message: msg, Chunk: chunk})
}

func (s *Session) onStreamComplete() {
	s.finishStream()
}

// finishStream finalizes the in-flight assistant message: clears its
// streaming flag, persists it into its chat, and releases the blocked
// Send. Idempotent, so completion and cancellation cannot double-run.
func (s *Session) finishStream() {
	s.mu.Lock()
	msg := s.streamMsg
	if msg == nil {
		s.mu.Unlock()
		return
	}
	chatID := s.streamChat
	msg.IsStreaming = false
	if chat := s.findChatLocked(chatID); chat != nil {
		chat.Append(msg)
	}
	s.streamMsg = nil
	s.streamChat = ""
	s.streamer = nil
	s.streaming = false
	done := s.streamDone
	s.streamDone = nil
	s.persistLocked()
	s.mu.Unlock()

	metrics.StreamsActive.Dec()
	metrics.MessagesTotal.WithLabelValues(string(model.RoleAssistant)).Inc()
	s.notify(model.Event{Type: model.EventStreamEnded, ChatID: chatID, Message: msg})
	if done != nil {
		close(done)
	}
}

// StopStreaming cancels the in-flight streamer, if any. Partial content
// already revealed is kept, not rolled back.
func (s *Session) StopStreaming() {
	s.mu.Lock()
	st := s.streamer
	wasTyping := s.typing
	s.typing = false
	s.mu.Unlock()

	if wasTyping {
		s.notify(model.Event{Type: model.EventTypingChanged})
	}
	if st == nil {
		return
	}

	// Stop is a synchronous barrier: after it returns no chunk or
	// completion callback can fire, so finalizing here cannot race.
	st.Stop()
	if st.State() == stream.StateStopped {
		metrics.StreamsStoppedTotal.Inc()
	}
	s.finishStream()
}

// ClearHistory detaches from the active chat without deleting anything
// persisted: the next Send starts a new conversation.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	s.activeChatID = ""
	s.messages = nil
	s.mu.Unlock()

	s.notify(model.Event{Type: model.EventHistoryCleared})
}

// DeleteChat removes a chat from the persisted list. Deleting the
// active chat also clears the in-memory view.
func (s *Session) DeleteChat(chatID string) {
	s.mu.Lock()
	found := false
	for i, chat := range s.chats {
		if chat.ID == chatID {
			s.chats = append(s.chats[:i], s.chats[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return
	}
	wasActive := s.activeChatID == chatID
	if wasActive {
		s.activeChatID = ""
		s.messages = nil
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notify(model.Event{Type: model.EventChatDeleted, ChatID: chatID})
	if wasActive {
		s.notify(model.Event{Type: model.EventHistoryCleared})
	}
}

// LoadChat makes a chat active and replaces the in-memory message view
// with its persisted messages. Idempotent; does not touch UpdatedAt.
func (s *Session) LoadChat(chatID string) bool {
	s.mu.Lock()
	chat := s.findChatLocked(chatID)
	if chat == nil {
		s.mu.Unlock()
		return false
	}
	s.activeChatID = chat.ID
	s.messages = append([]*model.Message(nil), chat.Messages...)
	s.mu.Unlock()

	s.notify(model.Event{Type: model.EventChatLoaded, ChatID: chatID})
	return true
}

// SetInput updates the input buffer.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

// Input returns the input buffer.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Chats returns a snapshot of the chat list, most recent first. The
// returned chats are shared and must be treated as read-only.
func (s *Session) Chats() []*model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.Chat(nil), s.chats...)
}

// Messages returns a snapshot of the active conversation view.
func (s *Session) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.Message(nil), s.messages...)
}

// ActiveChatID returns the active chat id, or "" when detached.
func (s *Session) ActiveChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeChatID
}

// IsTyping reports whether a response is awaited but not yet arriving.
func (s *Session) IsTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// IsStreaming reports whether an assistant message is mid-stream.
func (s *Session) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// generateTitle runs in the background after a chat is created. The
// update is applied by chat id and silently dropped when the chat was
// deleted in the meantime.
func (s *Session) generateTitle(chatID, text string) {
	title, ok := s.gen.GenerateTitle(context.Background(), text)
	if !ok {
		s.logger.WithChat(chatID).Debug("title generation failed, keeping placeholder")
		return
	}

	s.mu.Lock()
	chat := s.findChatLocked(chatID)
	if chat == nil {
		s.mu.Unlock()
		return
	}
	chat.Title = title
	chat.Touch()
	s.persistLocked()
	s.mu.Unlock()

	s.notify(model.Event{Type: model.EventChatUpdated, ChatID: chatID})
}

// findChatLocked returns the chat with the given id, or nil.
func (s *Session) findChatLocked(chatID string) *model.Chat {
	if chatID == "" {
		return nil
	}
	for _, chat := range s.chats {
		if chat.ID == chatID {
			return chat
		}
	}
	return nil
}

// persistLocked writes the full chat list through to the store. A
// failed write is logged and otherwise ignored, like every other
// storage failure.
func (s *Session) persistLocked() {
	if !s.store.Set(storage.KeyChatHistory, s.chats) {
		s.logger.Warn("failed to persist chat history")
	}
}

func (s *Session) notify(ev model.Event) {
	s.mu.Lock()
	listeners := append([]Listener(nil), s.listener...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}
