package mcpadapter

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/gateway"
)

const (
	ToolComplete = "complete"
	ToolChat     = "chat"
)

// NewServer exposes the gateway service as MCP tools.
func NewServer(service *gateway.Service, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "llm-gateway",
			Version: version,
		}, nil,
	)

	// Add Tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolComplete,
		Description: "Generate a completion for a single prompt",
	}, NewCompleteHandler(service))

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolChat,
		Description: "Generate the next assistant message for a role/content message list",
	}, NewChatHandler(service))

	return server
}
