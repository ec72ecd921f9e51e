// Package stream implements the cancellable timer-driven text streamer
// used to reveal assistant responses with human-readable pacing.
//
// Streaming is a presentation affordance only: the full response text
// already exists before a Streamer is created, and reduced-motion mode
// delivers it atomically.
package stream

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// State is the streamer's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateEmitting
	StateDone
	StateStopped
)

// Config holds the pacing tuning. The values are presentation tuning,
// not correctness-critical, so they stay configurable.
type Config struct {
	MinChunk      int
	MaxChunk      int
	MinDelay      time.Duration
	MaxDelay      time.Duration
	SentencePause time.Duration
	ClausePause   time.Duration
	ReducedMotion bool
}

// DefaultConfig returns the standard pacing configuration.
func DefaultConfig() Config {
	return Config{
		MinChunk:      1,
		MaxChunk:      3,
		MinDelay:      15 * time.Millisecond,
		MaxDelay:      35 * time.Millisecond,
		SentencePause: 300 * time.Millisecond,
		ClausePause:   150 * time.Millisecond,
	}
}

// Streamer emits a fixed text in randomized small chunks. It holds no
// knowledge of chat or message identity; the caller maps chunks onto
// the right message.
//
// Callbacks are invoked while the internal lock is held, which is what
// makes Stop a synchronous barrier: once Stop returns, no further chunk
// or completion callback will fire. Callbacks must therefore not call
// back into the Streamer.
type Streamer struct {
	mu    sync.Mutex
	cfg   Config
	text  []rune
	pos   int
	state State
	timer *time.Timer

	onChunk    func(chunk string)
	onComplete func()
}

// New creates a streamer over text.
func New(text string, onChunk func(string), onComplete func(), cfg Config) *Streamer {
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 1
	}
	if cfg.MaxChunk < cfg.MinChunk {
		cfg.MaxChunk = cfg.MinChunk
	}
	return &Streamer{
		cfg:        cfg,
		text:       []rune(text),
		state:      StateIdle,
		onChunk:    onChunk,
		onComplete: onComplete,
	}
}

// Start begins emission after initialDelay. In reduced-motion mode the
// whole text is delivered as a single chunk immediately and the
// streamer jumps straight to Done. Start is a no-op unless Idle.
func (s *Streamer) Start(initialDelay time.Duration) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return
	}

	if s.cfg.ReducedMotion {
		s.state = StateDone
		s.pos = len(s.text)
		if s.onChunk != nil {
			s.onChunk(string(s.text))
		}
		if s.onComplete != nil {
			s.onComplete()
		}
		s.mu.Unlock()
		return
	}

	s.state = StateStarting
	s.timer = time.AfterFunc(initialDelay, s.tick)
	s.mu.Unlock()
}

// Stop cancels the pending tick and moves to Stopped. Idempotent; after
// Stop returns, no further callbacks fire. A timer callback already in
// flight observes the Stopped state and does nothing.
func (s *Streamer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDone || s.state == StateStopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = StateStopped
}

// State returns the current lifecycle state.
func (s *Streamer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Streamer) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A tick queued before Stop ran must be rejected here.
	if s.state == StateStopped || s.state == StateDone {
		return
	}
	s.state = StateEmitting

	if s.pos >= len(s.text) {
		s.state = StateDone
		s.timer = nil
		if s.onComplete != nil {
			s.onComplete()
		}
		return
	}

	size := s.cfg.MinChunk
	if s.cfg.MaxChunk > s.cfg.MinChunk {
		size += rand.Intn(s.cfg.MaxChunk - s.cfg.MinChunk + 1)
	}
	end := s.pos + size
	if end > len(s.text) {
		end = len(s.text)
	}
	chunk := string(s.text[s.pos:end])
	s.pos = end

	if s.onChunk != nil {
		s.onChunk(chunk)
	}

	s.timer = time.AfterFunc(s.chunkDelay(chunk), s.tick)
}

// chunkDelay is a randomized base delay plus a pacing bonus keyed on the
// chunk's final character, so sentence ends read as natural pauses.
func (s *Streamer) chunkDelay(chunk string) time.Duration {
	delay := s.cfg.MinDelay
	if spread := s.cfg.MaxDelay - s.cfg.MinDelay; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}

	runes := []rune(chunk)
	if len(runes) == 0 {
		return delay
	}
	switch last := runes[len(runes)-1]; {
	case strings.ContainsRune(".!?\n", last):
		delay += s.cfg.SentencePause
	case strings.ContainsRune(",;:", last):
		delay += s.cfg.ClausePause
	}
	return delay
}
