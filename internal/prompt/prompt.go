// Package prompt holds the fixed prompts and user-facing strings.
package prompt

import "fmt"

// System is the fixed system instruction sent ahead of every
// conversation.
const System = `Você é o PsyMind.AI, um assistente educacional de apoio emocional para estudantes do ensino médio.

DIRETRIZES:
- Use linguagem empática, acolhedora e adequada para adolescentes
- Explique comportamentos e emoções com base em psicologia científica
- Ofereça estratégias práticas de enfrentamento
- Incentive busca por ajuda profissional quando necessário
- Seja breve e objetivo, mas caloroso
- Use emojis ocasionalmente para criar conexão
- Nunca substitua atendimento psicológico profissional

ÁREAS DE FOCO:
- Ansiedade e estresse acadêmico
- Procrastinação e autossabotagem
- Motivação e foco nos estudos
- Autoconhecimento e regulação emocional
- Bem-estar mental e autocuidado

QUANDO AJUDAR COM VESTIBULARES:
- Combine conhecimento acadêmico com apoio emocional
- Seja realista sobre chances, mas sempre encorajador
- Considere o impacto psicológico da pressão dos vestibulares
- Ofereça estratégias para lidar com ansiedade pré-prova
- Ajude o estudante a manter expectativas saudáveis
- Lembre que o valor da pessoa não está na nota do vestibular`

// SystemAck is the canned acknowledgment paired with the system
// instruction when building provider history.
const SystemAck = "Entendido! Estou pronto para ajudar."

// ErrorSuffix is appended to classified error messages when they are
// rendered into the conversation as an assistant turn.
const ErrorSuffix = "\n\n_No momento estou com funcionalidade limitada, mas você pode tentar novamente em instantes._"

// Title builds the prompt asking for a short chat title.
func Title(text string) string {
	return fmt.Sprintf(`Resuma esta mensagem em no máximo 4 palavras: %q. Responda APENAS com o resumo, sem aspas ou pontuação extra.`, text)
}

// PomodoroTip builds the prompt for a pomodoro break/focus tip.
func PomodoroTip(mode string) string {
	switch mode {
	case "short":
		return "Dê uma sugestão rápida (1 frase) de atividade relaxante para um estudante fazer durante uma pausa curta de 5 minutos."
	case "long":
		return "Dê uma sugestão rápida (1 frase) de atividade relaxante para um estudante fazer durante uma pausa longa de 15 minutos."
	default:
		return "Dê uma dica rápida e prática (1 frase) para um estudante manter o foco durante uma sessão Pomodoro de estudo."
	}
}

// MoodInsight builds the prompt reflecting on recent mood labels.
func MoodInsight(recentMoods string) string {
	return fmt.Sprintf("Baseado nos últimos registros emocionais de um estudante (%s), dê uma breve reflexão empática (2-3 frases) e uma sugestão prática.", recentMoods)
}

// Reflection builds the prompt for an inspirational quote.
func Reflection(category string) string {
	categoryPrompt := "motivacional para estudantes"
	if category != "" {
		categoryPrompt = "sobre " + category
	}
	return fmt.Sprintf(`Gere uma frase inspiradora %s (máximo 2 linhas) e indique o autor (pode ser um pensador, cientista ou frase original sua como "PsyMind.AI"). Formato: "Frase" - Autor`, categoryPrompt)
}

// ReflectionAnalysis builds the prompt expanding on a saved quote.
func ReflectionAnalysis(text, author string) string {
	return fmt.Sprintf(`Sobre a frase %q de %s, escreva uma breve reflexão (2-3 frases) de como um estudante pode aplicar isso no dia a dia.`, text, author)
}
