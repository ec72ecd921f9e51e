// Package wellness provides the study-wellness helpers built on top of
// text generation: pomodoro tips, mood insights, and daily reflections.
package wellness

import (
	"context"
	"strings"

	"github.com/psymind-ai/companion/internal/llm"
	"github.com/psymind-ai/companion/internal/model"
	"github.com/psymind-ai/companion/internal/prompt"
	"github.com/psymind-ai/companion/pkg/logger"
)

// Pomodoro modes.
const (
	ModeFocus      = "focus"
	ModeShortBreak = "short"
	ModeLongBreak  = "long"
)

// insightMoods caps how many recent mood labels feed an insight.
const insightMoods = 5

// Fallback texts shown when generation fails without a user-facing
// message of its own.
const (
	fallbackTip        = "⚠️ Não foi possível gerar dica no momento."
	fallbackInsight    = "⚠️ Não foi possível gerar análise no momento."
	fallbackReflection = "⚠️ Não foi possível gerar reflexão no momento."
)

// Generator is the slice of the text-generation collaborator the
// wellness helpers need.
type Generator interface {
	Generate(ctx context.Context, promptText string, history []*model.Message) *llm.Result
}

// Reflection is an inspirational quote with attribution.
type Reflection struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// Service generates wellness content. All methods degrade to a fixed
// Portuguese fallback instead of returning errors.
type Service struct {
	gen    Generator
	logger *logger.Logger
}

// NewService creates a wellness service.
func NewService(gen Generator, log *logger.Logger) *Service {
	return &Service{gen: gen, logger: log}
}

// PomodoroTip returns a one-line tip for the given pomodoro mode. An
// unknown mode falls back to a focus tip.
func (s *Service) PomodoroTip(ctx context.Context, mode string) string {
	result := s.gen.Generate(ctx, prompt.PomodoroTip(mode), nil)
	return textOrFallback(result, fallbackTip)
}

// MoodInsight reflects on the student's recent mood labels. An empty
// history yields an empty insight.
func (s *Service) MoodInsight(ctx context.Context, moods []string) string {
	if len(moods) == 0 {
		return ""
	}
	if len(moods) > insightMoods {
		moods = moods[len(moods)-insightMoods:]
	}
	result := s.gen.Generate(ctx, prompt.MoodInsight(strings.Join(moods, ", ")), nil)
	return textOrFallback(result, fallbackInsight)
}

// DailyReflection generates an inspirational quote for the category
// ("" means a general motivational one). Returns nil when generation
// fails; callers fall back to their local pools.
func (s *Service) DailyReflection(ctx context.Context, category string) *Reflection {
	result := s.gen.Generate(ctx, prompt.Reflection(category), nil)
	if !result.OK() {
		s.logger.Debug("reflection generation failed")
		return nil
	}

	text := strings.TrimSpace(strings.NewReplacer(`"`, "", "“", "", "”", "").Replace(result.Text))
	reflection := &Reflection{Text: text, Author: "PsyMind.AI", Category: "geral"}
	if category != "" {
		reflection.Category = category
	}
	if idx := strings.LastIndex(text, " - "); idx > 0 {
		reflection.Text = strings.TrimSpace(text[:idx])
		reflection.Author = strings.TrimSpace(text[idx+len(" - "):])
	}
	return reflection
}

// ReflectionAnalysis expands a saved reflection into practical advice.
func (s *Service) ReflectionAnalysis(ctx context.Context, r Reflection) string {
	result := s.gen.Generate(ctx, prompt.ReflectionAnalysis(r.Text, r.Author), nil)
	return textOrFallback(result, fallbackReflection)
}

func textOrFallback(result *llm.Result, fallback string) string {
	if result.OK() {
		return result.Text
	}
	if result.Err.UserMessage != "" {
		return result.Err.UserMessage
	}
	return fallback
}
