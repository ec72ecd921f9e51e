package stream

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		MinChunk:      1,
		MaxChunk:      3,
		MinDelay:      time.Millisecond,
		MaxDelay:      2 * time.Millisecond,
		SentencePause: time.Millisecond,
		ClausePause:   time.Millisecond,
	}
}

// collector records callbacks under its own lock; the streamer invokes
// them from timer goroutines.
type collector struct {
	mu       sync.Mutex
	chunks   []string
	done     chan struct{}
	doneOnce sync.Once
}

func newCollector() *collector {
	return &collector{done: make(chan struct{})}
}

func (c *collector) onChunk(chunk string) {
	c.mu.Lock()
	c.chunks = append(c.chunks, chunk)
	c.mu.Unlock()
}

func (c *collector) onComplete() {
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *collector) joined() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.chunks, "")
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.chunks)
}

func (c *collector) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(5 * time.Second):
		t.Fatal("streamer did not complete")
	}
}

func TestStreamerConcatenationEqualsInput(t *testing.T) {
	const text = "Olá! Tudo bem? Respira fundo, vai dar certo.\nEstou aqui."
	c := newCollector()
	s := New(text, c.onChunk, c.onComplete, fastConfig())

	s.Start(0)
	c.wait(t)

	assert.Equal(t, text, c.joined())
	assert.Equal(t, StateDone, s.State())
	// Chunks stay within the configured size bounds.
	c.mu.Lock()
	for _, chunk := range c.chunks {
		n := len([]rune(chunk))
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 3)
	}
	c.mu.Unlock()
}

func TestStreamerHandlesMultibyteText(t *testing.T) {
	const text = "Não desanime: você é mais forte do que imagina! 💙"
	c := newCollector()
	s := New(text, c.onChunk, c.onComplete, fastConfig())

	s.Start(0)
	c.wait(t)

	assert.Equal(t, text, c.joined())
}

func TestStreamerEmptyText(t *testing.T) {
	c := newCollector()
	s := New("", c.onChunk, c.onComplete, fastConfig())

	s.Start(0)
	c.wait(t)

	assert.Zero(t, c.count())
	assert.Equal(t, StateDone, s.State())
}

func TestStreamerReducedMotionDeliversAtomically(t *testing.T) {
	const text = "Tudo de uma vez."
	cfg := fastConfig()
	cfg.ReducedMotion = true
	c := newCollector()
	s := New(text, c.onChunk, c.onComplete, cfg)

	s.Start(time.Hour) // the delay must not apply
	c.wait(t)

	require.Equal(t, 1, c.count())
	assert.Equal(t, text, c.joined())
	assert.Equal(t, StateDone, s.State())
}

func TestStreamerStopPreventsFurtherCallbacks(t *testing.T) {
	text := strings.Repeat("palavra ", 200)
	cfg := fastConfig()
	cfg.MinDelay = 10 * time.Millisecond
	cfg.MaxDelay = 15 * time.Millisecond
	c := newCollector()
	s := New(text, c.onChunk, c.onComplete, cfg)

	s.Start(0)
	for c.count() == 0 {
		time.Sleep(time.Millisecond)
	}
	s.Stop()

	// Stop is a barrier: the count may not move after it returns.
	frozen := c.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frozen, c.count())
	assert.Equal(t, StateStopped, s.State())

	select {
	case <-c.done:
		t.Fatal("onComplete fired after Stop")
	default:
	}

	partial := c.joined()
	assert.NotEmpty(t, partial)
	assert.True(t, strings.HasPrefix(text, partial))
}

func TestStreamerStopIsIdempotent(t *testing.T) {
	c := newCollector()
	s := New("texto qualquer", c.onChunk, c.onComplete, fastConfig())

	s.Start(time.Hour)
	s.Stop()
	s.Stop()
	s.Stop()

	assert.Equal(t, StateStopped, s.State())
	assert.Zero(t, c.count())
}

func TestStreamerStopBeforeStart(t *testing.T) {
	c := newCollector()
	s := New("texto", c.onChunk, c.onComplete, fastConfig())

	s.Stop()
	assert.Equal(t, StateStopped, s.State())

	// Starting a stopped streamer does nothing.
	s.Start(0)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, c.count())
	assert.Equal(t, StateStopped, s.State())
}

func TestStreamerStopAfterDoneKeepsDone(t *testing.T) {
	c := newCollector()
	s := New("oi", c.onChunk, c.onComplete, fastConfig())

	s.Start(0)
	c.wait(t)

	s.Stop()
	assert.Equal(t, StateDone, s.State())
}

func TestStreamerStartIsSingleUse(t *testing.T) {
	const text = "uma vez só"
	c := newCollector()
	s := New(text, c.onChunk, c.onComplete, fastConfig())

	s.Start(0)
	s.Start(0)
	c.wait(t)

	assert.Equal(t, text, c.joined())
}

func TestChunkDelayPunctuationBonus(t *testing.T) {
	cfg := Config{
		MinChunk:      1,
		MaxChunk:      1,
		MinDelay:      10 * time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		SentencePause: 300 * time.Millisecond,
		ClausePause:   150 * time.Millisecond,
	}
	s := New("", nil, nil, cfg)

	assert.Equal(t, 10*time.Millisecond, s.chunkDelay("a"))
	assert.Equal(t, 310*time.Millisecond, s.chunkDelay("fim."))
	assert.Equal(t, 310*time.Millisecond, s.chunkDelay("ué!"))
	assert.Equal(t, 310*time.Millisecond, s.chunkDelay("linha\n"))
	assert.Equal(t, 160*time.Millisecond, s.chunkDelay("pausa,"))
	assert.Equal(t, 160*time.Millisecond, s.chunkDelay("meio;"))
	assert.Equal(t, 10*time.Millisecond, s.chunkDelay(""))
}
