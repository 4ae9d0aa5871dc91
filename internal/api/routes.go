package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/auth"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/envelope"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/middleware"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/rs/zerolog"
)

const OpenAPIPath = "/api/openapi.json"

// NewContainer builds the full HTTP surface: filters, JSON router errors,
// LLM and status routes, and the OpenAPI document.
func NewContainer(handler *Handler, guard *auth.APIKeyGuard, logger *zerolog.Logger, exposeErrors bool) *restful.Container {
	container := restful.NewContainer()
	container.ServiceErrorHandler(middleware.ServiceErrorHandler)
	middleware.RegisterNotFound(container)

	// Add filters
	container.Filter(middleware.Logger(logger))
	container.Filter(middleware.RecoverPanic(logger, exposeErrors))

	RegisterRoutes(container, handler, guard)

	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(config))

	return container
}

func RegisterRoutes(container *restful.Container, handler *Handler, guard *auth.APIKeyGuard) {
	llmWS := new(restful.WebService)

	// The key check is a WebService filter so that it only runs once a route
	// matched: unknown paths and wrong verbs keep their 404/405 bodies.
	// No Consumes here: the router would reject a missing or foreign
	// Content-Type before the key check, so readEntity enforces JSON instead.
	llmWS.
		Path("/api/llm").
		Produces(restful.MIME_JSON).
		Filter(guard.Filter)

	llmWS.
		Route(llmWS.POST("/completion").
			To(handler.Completion).
			Doc("Generate a completion for a single prompt").
			Metadata(restfulspec.KeyOpenAPITags, []string{"llm"}).
			Param(llmWS.HeaderParameter(auth.HeaderAPIKey, "Shared API key").DataType("string").Required(true)).
			Reads(models.PromptRequest{}).
			Writes(envelope.Response{}).
			Returns(200, "OK", envelope.Response{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	llmWS.
		Route(llmWS.POST("/chat").
			To(handler.Chat).
			Doc("Generate a chat completion for a message list").
			Metadata(restfulspec.KeyOpenAPITags, []string{"llm"}).
			Param(llmWS.HeaderParameter(auth.HeaderAPIKey, "Shared API key").DataType("string").Required(true)).
			Reads(models.ChatRequest{}).
			Writes(envelope.Response{}).
			Returns(200, "OK", envelope.Response{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	llmWS.
		Route(llmWS.POST("/simple-prompt").
			To(handler.SimplePrompt).
			Doc("Generate a completion using the default model and options").
			Metadata(restfulspec.KeyOpenAPITags, []string{"llm"}).
			Param(llmWS.HeaderParameter(auth.HeaderAPIKey, "Shared API key").DataType("string").Required(true)).
			Reads(models.PromptRequest{}).
			Writes(envelope.Response{}).
			Returns(200, "OK", envelope.Response{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	llmWS.
		Route(llmWS.POST("/full-prompt").
			To(handler.FullPrompt).
			Doc("Generate from a prompt or message list and return the raw provider response").
			Metadata(restfulspec.KeyOpenAPITags, []string{"llm"}).
			Param(llmWS.HeaderParameter(auth.HeaderAPIKey, "Shared API key").DataType("string").Required(true)).
			Reads(models.FullPromptRequest{}).
			Writes(envelope.Response{}).
			Returns(200, "OK", envelope.Response{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(llmWS)

	ws := new(restful.WebService)
	ws.
		Path("/api").
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("").
			To(handler.Root).
			Doc("API status and public endpoints").
			Metadata(restfulspec.KeyOpenAPITags, []string{"status"}).
			Writes(StatusResponse{}).
			Returns(200, "OK", StatusResponse{}))

	ws.
		Route(ws.GET("/hello").
			To(handler.Hello).
			Doc("Hello world").
			Metadata(restfulspec.KeyOpenAPITags, []string{"status"}).
			Writes(StatusResponse{}).
			Returns(200, "OK", StatusResponse{}))

	// Health endpoint
	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	container.Add(ws)
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "LLM Gateway API",
			Description: "HTTP gateway for chat and completion requests against an OpenAI compatible provider",
			Version:     Version,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "llm", Description: "Generation endpoints (x-api-key)"}},
		{TagProps: spec.TagProps{Name: "status", Description: "Status endpoints"}},
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
	}
}
