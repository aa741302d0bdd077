package http

import (
	"net/http"

	"MCPCatalog/internal/config"
	jwtMiddleware "MCPCatalog/internal/middleware/jwt"
	catalogHandler "MCPCatalog/internal/modules/catalog/interface/http"
	"MCPCatalog/pkg/ssl"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖；MCP / Events 为 nil 时不挂载
type Handlers struct {
	Catalog *catalogHandler.CatalogHandler
	Extract *catalogHandler.ExtractionHandler
	Admin   *catalogHandler.AdminHandler
	Events  *catalogHandler.EventsHandler
	MCP     http.Handler
	MCPPath string
}

func NewRouter(conf *config.Config, h Handlers) *gin.Engine {
	GE := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Mcp-Session-Id"}
	corsConfig.ExposeHeaders = []string{"Mcp-Session-Id"}
	GE.Use(cors.New(corsConfig))
	if conf.MainConfig.TLSRedirect {
		GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}

	GE.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "app": conf.AppName})
	})

	GE.GET("/servers", h.Catalog.ListServers)
	GE.GET("/servers/:slug/tools", h.Catalog.ListServerTools)
	GE.GET("/tools/:id/parameters", h.Catalog.GetToolParameters)
	GE.POST("/extract/tools", h.Extract.ExtractTools)
	GE.POST("/extract/parameters", h.Extract.ExtractParameters)

	if h.MCP != nil {
		path := h.MCPPath
		if path == "" {
			path = "/mcp"
		}
		GE.Any(path, gin.WrapH(h.MCP))
	}

	// WebSocket 握手不走 JWT 中间件，令牌在 handler 内校验
	if h.Events != nil {
		GE.GET("/admin/events", h.Events.Connect)
	}

	authed := GE.Group("/admin")
	authed.Use(jwtMiddleware.Auth())
	authed.POST("/enrich", h.Admin.Enrich)
	authed.GET("/runs", h.Catalog.ListRuns)

	return GE
}
