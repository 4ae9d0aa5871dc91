package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/envelope"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/gateway"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/middleware"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/rs/zerolog"
)

type Handler struct {
	service *gateway.Service
	logger  *zerolog.Logger
}

func NewHandler(service *gateway.Service, logger *zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// POST /api/llm/completion
// Body: PromptRequest
// Returns: completion-style envelope
func (h *Handler) Completion(req *restful.Request, resp *restful.Response) {
	var body models.PromptRequest
	if _, err := h.readEntity(req, &body); err != nil {
		h.rejectBody(resp, err)
		return
	}

	out, err := h.service.Completion(req.Request.Context(), body)
	h.write(resp, out, err)
}

// POST /api/llm/chat
// Body: ChatRequest
// Returns: chat-style envelope
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	var body models.ChatRequest
	if _, err := h.readEntity(req, &body); err != nil {
		h.rejectBody(resp, err)
		return
	}

	out, err := h.service.Chat(req.Request.Context(), body)
	h.write(resp, out, err)
}

// POST /api/llm/simple-prompt
// Only the prompt is honoured; model and sampling options are the defaults.
func (h *Handler) SimplePrompt(req *restful.Request, resp *restful.Response) {
	var body models.PromptRequest
	if _, err := h.readEntity(req, &body); err != nil {
		h.rejectBody(resp, err)
		return
	}

	out, err := h.service.SimplePrompt(req.Request.Context(), body)
	h.write(resp, out, err)
}

// POST /api/llm/full-prompt
// Body: FullPromptRequest
// Returns: passthrough envelope with the raw provider response
func (h *Handler) FullPrompt(req *restful.Request, resp *restful.Response) {
	body := new(models.FullPromptRequest)
	present, err := h.readEntity(req, body)
	if err != nil {
		h.rejectBody(resp, err)
		return
	}
	if !present {
		body = nil
	}

	out, err := h.service.FullPrompt(req.Request.Context(), body)
	h.write(resp, out, err)
}

// GET /api
func (h *Handler) Root(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, StatusResponse{
		Message:   "API is running!",
		Timestamp: time.Now().UTC(),
		Endpoints: publicEndpoints,
	})
}

// GET /api/hello
func (h *Handler) Hello(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, StatusResponse{
		Message:   "Hello World!",
		Timestamp: time.Now().UTC(),
	})
}

// Health handler GET /api/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: Version,
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

// readEntity decodes the request body into entity. An empty body is not an
// error; it reports false so each entry point applies its own missing-field
// rule. A missing Content-Type is read as JSON; any other media type is
// rejected with UnsupportedMediaTypeError.
func (h *Handler) readEntity(req *restful.Request, entity any) (bool, error) {
	contentType := req.Request.Header.Get(restful.HEADER_ContentType)
	if contentType == "" {
		req.Request.Header.Set(restful.HEADER_ContentType, restful.MIME_JSON)
	} else if mediaType, _, err := mime.ParseMediaType(contentType); err != nil || mediaType != restful.MIME_JSON {
		return false, &middleware.UnsupportedMediaTypeError{ContentType: contentType}
	}

	err := req.ReadEntity(entity)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, io.EOF):
		return false, nil
	default:
		h.logger.Warn().Err(err).Str("path", req.Request.URL.Path).Msg("Failed to parse request body")
		return false, err
	}
}

// rejectBody answers a body readEntity could not accept.
func (h *Handler) rejectBody(resp *restful.Response, err error) {
	var mediaErr *middleware.UnsupportedMediaTypeError
	if errors.As(err, &mediaErr) {
		middleware.WriteError(resp, mediaErr)
		return
	}
	middleware.HandleError(resp, middleware.ErrInvalidBody, http.StatusBadRequest)
}

func (h *Handler) write(resp *restful.Response, out envelope.Response, err error) {
	if err != nil {
		middleware.WriteError(resp, err)
		return
	}
	resp.WriteHeaderAndEntity(http.StatusOK, out)
}
