package server

import (
	"net/http"

	"MCPCatalog/internal/modules/catalog/application/service"
	mcpHandlers "MCPCatalog/internal/modules/catalog/infrastructure/mcp/server/handlers"

	"github.com/mark3labs/mcp-go/server"
)

// CatalogServerConfig MCP 服务配置
type CatalogServerConfig struct {
	Name              string
	Version           string
	EnableQueryTools  bool // 需要数据库
	EnableExtractTool bool
}

// CatalogServerDependencies MCP 服务依赖
type CatalogServerDependencies struct {
	ExtractSvc service.ExtractionService
	QuerySvc   service.CatalogQueryService
}

// NewCatalogMCPServer 创建并注册目录相关工具
func NewCatalogMCPServer(conf CatalogServerConfig, deps CatalogServerDependencies) *server.MCPServer {
	s := server.NewMCPServer(
		conf.Name,
		conf.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	if conf.EnableExtractTool && deps.ExtractSvc != nil {
		mcpHandlers.NewExtractionToolHandler(deps.ExtractSvc).RegisterTools(s)
	}

	if conf.EnableQueryTools && deps.QuerySvc != nil {
		mcpHandlers.NewCatalogToolHandler(deps.QuerySvc).RegisterTools(s)
	}

	return s
}

// ServeStdio 以 stdio 方式运行，供本地 MCP 客户端拉起
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// NewHTTPHandler streamable HTTP 传输，挂在 gin 的 /mcp 下
func NewHTTPHandler(s *server.MCPServer, path string) http.Handler {
	return server.NewStreamableHTTPServer(s, server.WithEndpointPath(path))
}
