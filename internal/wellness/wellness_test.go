package wellness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psymind-ai/companion/internal/llm"
	"github.com/psymind-ai/companion/internal/model"
	"github.com/psymind-ai/companion/pkg/logger"
)

type scriptedGen struct {
	result *llm.Result
	prompt string
}

func (g *scriptedGen) Generate(_ context.Context, promptText string, _ []*model.Message) *llm.Result {
	g.prompt = promptText
	return g.result
}

func TestPomodoroTip(t *testing.T) {
	gen := &scriptedGen{result: &llm.Result{Text: "Feche as abas que não usará."}}
	svc := NewService(gen, logger.NewNop())

	tip := svc.PomodoroTip(context.Background(), ModeFocus)
	assert.Equal(t, "Feche as abas que não usará.", tip)
	assert.Contains(t, gen.prompt, "manter o foco")

	svc.PomodoroTip(context.Background(), ModeShortBreak)
	assert.Contains(t, gen.prompt, "pausa curta de 5 minutos")

	svc.PomodoroTip(context.Background(), ModeLongBreak)
	assert.Contains(t, gen.prompt, "pausa longa de 15 minutos")

	// Unknown modes get a focus tip.
	svc.PomodoroTip(context.Background(), "whatever")
	assert.Contains(t, gen.prompt, "manter o foco")
}

func TestPomodoroTipFallsBackOnFailure(t *testing.T) {
	gen := &scriptedGen{result: &llm.Result{Err: &llm.ClassifiedError{Kind: llm.KindUnknown}}}
	svc := NewService(gen, logger.NewNop())

	assert.Equal(t, fallbackTip, svc.PomodoroTip(context.Background(), ModeFocus))

	gen.result = &llm.Result{Err: llm.NewError(llm.KindRateLimit, 429, "")}
	tip := svc.PomodoroTip(context.Background(), ModeFocus)
	assert.Contains(t, tip, "Muitas requisições")
}

func TestMoodInsight(t *testing.T) {
	gen := &scriptedGen{result: &llm.Result{Text: "Você tem se sentido bem!"}}
	svc := NewService(gen, logger.NewNop())

	assert.Empty(t, svc.MoodInsight(context.Background(), nil))

	insight := svc.MoodInsight(context.Background(), []string{"Feliz", "Calmo"})
	assert.Equal(t, "Você tem se sentido bem!", insight)
	assert.Contains(t, gen.prompt, "Feliz, Calmo")
}

func TestMoodInsightUsesOnlyRecentMoods(t *testing.T) {
	gen := &scriptedGen{result: &llm.Result{Text: "ok"}}
	svc := NewService(gen, logger.NewNop())

	moods := []string{"Triste", "Ansioso", "Neutro", "Calmo", "Feliz", "Motivado"}
	svc.MoodInsight(context.Background(), moods)

	assert.NotContains(t, gen.prompt, "Triste")
	assert.Contains(t, gen.prompt, "Ansioso, Neutro, Calmo, Feliz, Motivado")
}

func TestDailyReflection(t *testing.T) {
	gen := &scriptedGen{result: &llm.Result{Text: `"O saber a gente aprende com os mestres e os livros. A sabedoria, se aprende é com a vida." - Cora Coralina`}}
	svc := NewService(gen, logger.NewNop())

	r := svc.DailyReflection(context.Background(), "")
	require.NotNil(t, r)
	assert.Equal(t, "O saber a gente aprende com os mestres e os livros. A sabedoria, se aprende é com a vida.", r.Text)
	assert.Equal(t, "Cora Coralina", r.Author)
	assert.Equal(t, "geral", r.Category)
}

func TestDailyReflectionWithoutAuthor(t *testing.T) {
	gen := &scriptedGen{result: &llm.Result{Text: "Um passo de cada vez."}}
	svc := NewService(gen, logger.NewNop())

	r := svc.DailyReflection(context.Background(), "foco")
	require.NotNil(t, r)
	assert.Equal(t, "Um passo de cada vez.", r.Text)
	assert.Equal(t, "PsyMind.AI", r.Author)
	assert.Equal(t, "foco", r.Category)
}

func TestDailyReflectionNilOnFailure(t *testing.T) {
	gen := &scriptedGen{result: &llm.Result{Err: llm.NewError(llm.KindServerError, 500, "")}}
	svc := NewService(gen, logger.NewNop())

	assert.Nil(t, svc.DailyReflection(context.Background(), ""))
}

func TestReflectionAnalysis(t *testing.T) {
	gen := &scriptedGen{result: &llm.Result{Text: "Aplique isso estudando um pouco por dia."}}
	svc := NewService(gen, logger.NewNop())

	out := svc.ReflectionAnalysis(context.Background(), Reflection{Text: "Um passo de cada vez.", Author: "PsyMind.AI"})
	assert.Equal(t, "Aplique isso estudando um pouco por dia.", out)
	assert.Contains(t, gen.prompt, "Um passo de cada vez.")

	gen.result = &llm.Result{Err: &llm.ClassifiedError{Kind: llm.KindUnknown}}
	assert.Equal(t, fallbackReflection, svc.ReflectionAnalysis(context.Background(), Reflection{Text: "x", Author: "y"}))
}
