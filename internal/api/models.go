package api

import "time"

const Version = "1.0.0"

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

type Endpoint struct {
	Path        string `json:"path" description:"Route path"`
	Description string `json:"description" description:"What the route does"`
}

type StatusResponse struct {
	Message   string     `json:"message" description:"Status message"`
	Timestamp time.Time  `json:"timestamp" description:"Server time (RFC 3339)"`
	Endpoints []Endpoint `json:"endpoints,omitempty" description:"Public endpoints"`
}

var publicEndpoints = []Endpoint{
	{Path: "/api", Description: "This endpoint (Root API)"},
	{Path: "/api/hello", Description: "Hello world endpoint"},
	{Path: "/api/health", Description: "Health check"},
	{Path: "/api/llm/completion", Description: "Single prompt completion (x-api-key)"},
	{Path: "/api/llm/chat", Description: "Chat completion (x-api-key)"},
	{Path: "/api/llm/simple-prompt", Description: "Prompt with default options (x-api-key)"},
	{Path: "/api/llm/full-prompt", Description: "Prompt or messages with raw provider response (x-api-key)"},
}
