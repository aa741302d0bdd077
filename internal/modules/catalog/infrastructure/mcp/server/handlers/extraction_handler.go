package handlers

import (
	"context"
	"errors"
	"strings"

	"MCPCatalog/internal/modules/catalog/application/dto/request"
	"MCPCatalog/internal/modules/catalog/application/service"
	"MCPCatalog/pkg/xerr"
	"MCPCatalog/pkg/zlog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// ExtractionToolHandler README 解析工具
type ExtractionToolHandler struct {
	extractSvc service.ExtractionService
}

func NewExtractionToolHandler(svc service.ExtractionService) *ExtractionToolHandler {
	return &ExtractionToolHandler{extractSvc: svc}
}

func (h *ExtractionToolHandler) RegisterTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("extract_tools",
		mcp.WithDescription("Parse an MCP server README (markdown) and return the tools it documents, each with its parameters."),
		mcp.WithString("readme", mcp.Required(), mcp.Description("README markdown text")),
	), h.handleExtractTools)

	s.AddTool(mcp.NewTool("extract_parameters",
		mcp.WithDescription("Locate one tool in a README and return its parameters with the context window used."),
		mcp.WithString("readme", mcp.Required(), mcp.Description("README markdown text")),
		mcp.WithString("tool_name", mcp.Required(), mcp.Description("Tool name as written in the README, e.g. firecrawl_scrape")),
	), h.handleExtractParameters)
}

func (h *ExtractionToolHandler) handleExtractTools(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsOf(req)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format, expected map"), nil
	}
	readme := stringArg(args, "readme")

	out, err := h.extractSvc.PreviewTools(ctx, request.ExtractToolsRequest{Readme: readme})
	if err != nil {
		return toolError("extract_tools", err), nil
	}
	zlog.Info("extract_tools done", zap.Int("tools", len(out.Tools)), zap.String("strategy", out.Strategy), zap.Bool("cached", out.Cached))
	return jsonResult(out)
}

func (h *ExtractionToolHandler) handleExtractParameters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsOf(req)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format, expected map"), nil
	}

	out, err := h.extractSvc.PreviewParameters(ctx, request.ExtractParametersRequest{
		Readme:   stringArg(args, "readme"),
		ToolName: stringArg(args, "tool_name"),
	})
	if err != nil {
		return toolError("extract_parameters", err), nil
	}
	return jsonResult(out)
}

// toolError 参数类错误原样返回给调用方，其余只返回通用信息
func toolError(tool string, err error) *mcp.CallToolResult {
	var ce *xerr.CodeError
	if errors.As(err, &ce) {
		return mcp.NewToolResultError(strings.ToLower(ce.Message))
	}
	zlog.Error(tool+" failed", zap.Error(err))
	return mcp.NewToolResultError("internal error")
}
