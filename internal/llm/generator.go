package llm

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/psymind-ai/companion/internal/config"
	"github.com/psymind-ai/companion/internal/model"
	"github.com/psymind-ai/companion/internal/prompt"
	"github.com/psymind-ai/companion/pkg/logger"
	"github.com/psymind-ai/companion/pkg/metrics"
)

// Result is the outcome of a generation request. Exactly one of Text
// and Err is meaningful; the collaborator never surfaces raw transport
// errors past this boundary.
type Result struct {
	Text string
	Err  *ClassifiedError
}

// OK reports whether the generation succeeded.
func (r *Result) OK() bool {
	return r.Err == nil
}

// Generator is the text-generation collaborator facade. It owns the
// credential check, the request timeout, the rate-limit retry loop, and
// empty-response detection, so callers only ever see a Result.
type Generator struct {
	client  Client
	modelID string
	timeout time.Duration
	retries int
	backoff time.Duration
	turns   int
	logger  *logger.Logger
}

// NewGenerator creates a generator over the given client. A nil client
// means no credential was configured; every Generate call then resolves
// to an ApiKeyMissing result without any network activity.
func NewGenerator(client Client, cfg *config.Config, log *logger.Logger) *Generator {
	return &Generator{
		client:  client,
		modelID: cfg.Model,
		timeout: cfg.RequestTimeout,
		retries: cfg.MaxRetries,
		backoff: cfg.RetryBackoff,
		turns:   cfg.HistoryTurns,
		logger:  log,
	}
}

// Generate sends prompt plus trimmed history to the provider and
// resolves to a success or a classified error, never a Go error.
func (g *Generator) Generate(ctx context.Context, promptText string, history []*model.Message) *Result {
	if g.client == nil {
		return &Result{Err: NewError(KindAPIKeyMissing, 0, "no credential configured")}
	}

	tracer := otel.Tracer("companion/llm")
	ctx, span := tracer.Start(ctx, "llm.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", g.client.Name()),
		attribute.String("llm.model", g.modelID),
	)

	messages := BuildHistory(history, prompt.System, prompt.SystemAck, g.turns)
	messages = append(messages, ChatMessage{Role: "user", Content: promptText})

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	result := g.complete(ctx, messages)
	elapsed := time.Since(start).Seconds()

	if result.Err != nil {
		span.SetStatus(codes.Error, string(result.Err.Kind))
		metrics.RecordGeneration(g.client.Name(), string(result.Err.Kind), elapsed)
		g.logger.Warn("generation failed",
			zap.String("kind", string(result.Err.Kind)),
			zap.Int("http_code", result.Err.HTTPCode),
		)
	} else {
		metrics.RecordGeneration(g.client.Name(), "", elapsed)
	}

	return result
}

// complete runs the request with the retry policy: only rate limiting
// is retried, with a fixed backoff, before surfacing as terminal.
func (g *Generator) complete(ctx context.Context, messages []ChatMessage) *Result {
	req := &CompletionRequest{
		Model:     g.modelID,
		Messages:  messages,
		MaxTokens: 4096,
	}

	for attempt := 0; ; attempt++ {
		resp, err := g.client.Complete(ctx, req)
		if err != nil {
			classified := Classify(err)
			if classified.Retryable && attempt < g.retries {
				metrics.RetriesTotal.Inc()
				g.logger.Debug("rate limited, retrying",
					zap.Int("attempt", attempt+1),
					zap.Duration("backoff", g.backoff),
				)
				select {
				case <-time.After(g.backoff):
					continue
				case <-ctx.Done():
					return &Result{Err: classified}
				}
			}
			return &Result{Err: classified}
		}

		if strings.TrimSpace(resp.Content) == "" {
			return &Result{Err: NewError(KindEmptyResponse, 0, "response carried no text")}
		}
		return &Result{Text: resp.Content}
	}
}

// GenerateTitle asks for a short chat title. Best-effort: any failure
// reports ok=false and the caller keeps its placeholder.
func (g *Generator) GenerateTitle(ctx context.Context, text string) (string, bool) {
	result := g.Generate(ctx, prompt.Title(text), nil)
	if !result.OK() {
		metrics.RecordTitle(false)
		return "", false
	}

	title := strings.TrimSpace(result.Text)
	title = strings.NewReplacer(`"`, "", "'", "").Replace(title)
	if title == "" {
		metrics.RecordTitle(false)
		return "", false
	}

	metrics.RecordTitle(true)
	return title, true
}
