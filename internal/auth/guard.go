// Package auth guards the LLM routes with a static shared secret.
package auth

import (
	"crypto/subtle"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/middleware"
	"github.com/rs/zerolog"
)

const HeaderAPIKey = "x-api-key"

type APIKeyGuard struct {
	apiKey string
	logger *zerolog.Logger
}

func NewAPIKeyGuard(apiKey string, logger *zerolog.Logger) *APIKeyGuard {
	return &APIKeyGuard{
		apiKey: apiKey,
		logger: logger,
	}
}

// Allow reports whether key matches the configured secret. An unset secret
// rejects every key.
func (g *APIKeyGuard) Allow(key string) bool {
	if key == "" || g.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(g.apiKey)) == 1
}

// Filter rejects the request with 401 before the handler reads the body.
func (g *APIKeyGuard) Filter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	if !g.Allow(req.HeaderParameter(HeaderAPIKey)) {
		g.logger.Warn().
			Str("path", req.Request.URL.Path).
			Str("remote_addr", req.Request.RemoteAddr).
			Msg("Rejected request with invalid API key")
		middleware.WriteError(resp, middleware.ErrInvalidAPIKey)
		return
	}

	chain.ProcessFilter(req, resp)
}
