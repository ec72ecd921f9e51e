package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
)

// Kind is the closed taxonomy of user-facing error kinds.
type Kind string

const (
	KindAPIKeyMissing Kind = "API_KEY_MISSING"
	KindInvalidKey    Kind = "INVALID_KEY"
	KindRateLimit     Kind = "RATE_LIMIT"
	KindForbidden     Kind = "FORBIDDEN"
	KindNotFound      Kind = "NOT_FOUND"
	KindServerError   Kind = "SERVER_ERROR"
	KindUnavailable   Kind = "UNAVAILABLE"
	KindEmptyResponse Kind = "EMPTY_RESPONSE"
	KindUnknown       Kind = "UNKNOWN"
)

// ClassifiedError is a normalized error value with a closed-set kind,
// retry flag, and localized user-facing message.
type ClassifiedError struct {
	Kind        Kind
	HTTPCode    int
	UserMessage string
	Retryable   bool
	Details     string
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Details)
	}
	return string(e.Kind)
}

var userMessages = map[Kind]string{
	KindAPIKeyMissing: "🔑 Configure sua API Key do Gemini no arquivo .env para ativar a IA.",
	KindInvalidKey:    "🔑 API Key expirada ou inválida. Gere uma nova em https://aistudio.google.com/app/apikey",
	KindRateLimit:     "⏱️ Muitas requisições. Aguarde alguns segundos e tente novamente.",
	KindForbidden:     "🚫 API Key sem permissões. Verifique sua configuração.",
	KindNotFound:      "❌ Modelo não encontrado. Verifique a configuração da API.",
	KindServerError:   "⚠️ Erro no servidor do Gemini. Tente novamente em instantes.",
	KindUnavailable:   "🔧 Serviço temporariamente indisponível. Tente novamente.",
	KindEmptyResponse: "❌ A IA retornou uma resposta vazia. Tente novamente.",
	KindUnknown:       "❌ Erro inesperado ao conectar com a IA. Tente novamente.",
}

var httpKinds = map[int]Kind{
	400: KindInvalidKey,
	429: KindRateLimit,
	403: KindForbidden,
	404: KindNotFound,
	500: KindServerError,
	503: KindUnavailable,
}

// NewError builds a classified error of the given kind.
func NewError(kind Kind, httpCode int, details string) *ClassifiedError {
	return &ClassifiedError{
		Kind:        kind,
		HTTPCode:    httpCode,
		UserMessage: userMessages[kind],
		Retryable:   kind == KindRateLimit,
		Details:     details,
	}
}

// ClassifyStatus maps an HTTP status code to a classified error.
// Unmapped codes classify as Unknown.
func ClassifyStatus(code int, details string) *ClassifiedError {
	kind, ok := httpKinds[code]
	if !ok {
		kind = KindUnknown
	}
	return NewError(kind, code, details)
}

// Classify maps a transport error to a classified error. It never
// panics and always returns a value for non-nil input.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	// A request that outlived its deadline is indistinguishable from an
	// unavailable service as far as the user is concerned.
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindUnavailable, 0, err.Error())
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return ClassifyStatus(httpErr.StatusCode, httpErr.Body)
	}

	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) {
		return ClassifyStatus(openaiErr.HTTPStatusCode, openaiErr.Message)
	}

	var openaiReqErr *openai.RequestError
	if errors.As(err, &openaiReqErr) {
		return ClassifyStatus(openaiReqErr.HTTPStatusCode, openaiReqErr.Error())
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return ClassifyStatus(anthropicErr.StatusCode, anthropicErr.Error())
	}

	return NewError(KindUnknown, 0, err.Error())
}
