package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

const (
	MsgInvalidAPIKey    = "Invalid or missing API key. Please provide a valid API key in the x-api-key header."
	MsgMethodNotAllowed = "Method not allowed. Use POST."
	MsgInvalidBody      = "Invalid request body"
	MsgUnsupportedMedia = "Unsupported content type. Use application/json."
	MsgInternal         = "Internal server error"
)

var (
	ErrInvalidAPIKey = &AuthError{Message: MsgInvalidAPIKey}
	ErrInvalidBody   = &ValidationError{Message: MsgInvalidBody}
)

// StatusCoder is implemented by every error the API knows how to render.
type StatusCoder interface {
	StatusCode() int
}

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string   { return e.Message }
func (e *AuthError) StatusCode() int { return http.StatusUnauthorized }

type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string   { return e.Message }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

type MethodNotAllowedError struct {
	Method string
	Path   string
}

func (e *MethodNotAllowedError) Error() string   { return MsgMethodNotAllowed }
func (e *MethodNotAllowedError) StatusCode() int { return http.StatusMethodNotAllowed }

type UnsupportedMediaTypeError struct {
	ContentType string
}

func (e *UnsupportedMediaTypeError) Error() string   { return MsgUnsupportedMedia }
func (e *UnsupportedMediaTypeError) StatusCode() int { return http.StatusUnsupportedMediaType }

type NotFoundError struct {
	Method string
	Path   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Route not found: %s %s", e.Method, e.Path)
}
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// UpstreamError wraps a provider failure together with the entry point
// specific message shown to the caller.
type UpstreamError struct {
	Message string
	Failure models.Failure
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Message, e.Failure.Message, e.Failure.Code)
}
func (e *UpstreamError) StatusCode() int { return http.StatusInternalServerError }

// InternalError hides its cause from clients unless Expose is set.
type InternalError struct {
	Err    error
	Expose bool
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return MsgInternal
	}
	return e.Err.Error()
}
func (e *InternalError) Unwrap() error   { return e.Err }
func (e *InternalError) StatusCode() int { return http.StatusInternalServerError }

// StatusCode resolves the HTTP status for err, defaulting to 500.
func StatusCode(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
