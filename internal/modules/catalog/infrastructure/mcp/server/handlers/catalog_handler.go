package handlers

import (
	"context"
	"strings"

	"MCPCatalog/internal/modules/catalog/application/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogToolHandler 已入库目录的只读查询
type CatalogToolHandler struct {
	querySvc service.CatalogQueryService
}

func NewCatalogToolHandler(svc service.CatalogQueryService) *CatalogToolHandler {
	return &CatalogToolHandler{querySvc: svc}
}

func (h *CatalogToolHandler) RegisterTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("list_server_tools",
		mcp.WithDescription("List the tools stored in the catalog for one MCP server."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Server slug, e.g. jina-ai-mcp")),
	), h.handleListServerTools)

	s.AddTool(mcp.NewTool("get_tool_parameters",
		mcp.WithDescription("Return the stored parameters of a tool. Unknown fields are null."),
		mcp.WithString("tool_id", mcp.Required(), mcp.Description("Tool id from list_server_tools")),
	), h.handleGetToolParameters)
}

func (h *CatalogToolHandler) handleListServerTools(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsOf(req)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format, expected map"), nil
	}
	slug := strings.TrimSpace(stringArg(args, "slug"))
	if slug == "" {
		return mcp.NewToolResultError("slug is required"), nil
	}

	out, err := h.querySvc.ListServerTools(ctx, slug)
	if err != nil {
		return toolError("list_server_tools", err), nil
	}
	return jsonResult(out)
}

func (h *CatalogToolHandler) handleGetToolParameters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsOf(req)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format, expected map"), nil
	}
	toolID := strings.TrimSpace(stringArg(args, "tool_id"))
	if toolID == "" {
		return mcp.NewToolResultError("tool_id is required"), nil
	}

	out, err := h.querySvc.GetToolParameters(ctx, toolID)
	if err != nil {
		return toolError("get_tool_parameters", err), nil
	}
	return jsonResult(out)
}
