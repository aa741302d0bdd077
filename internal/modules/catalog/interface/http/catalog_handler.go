package http

import (
	"strconv"

	"MCPCatalog/internal/modules/catalog/application/service"
	"MCPCatalog/pkg/back"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	querySvc service.CatalogQueryService
}

func NewCatalogHandler(querySvc service.CatalogQueryService) *CatalogHandler {
	return &CatalogHandler{querySvc: querySvc}
}

// ListServers GET /servers?page=1&page_size=20
func (h *CatalogHandler) ListServers(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	data, err := h.querySvc.ListServers(c.Request.Context(), page, pageSize)
	back.Result(c, data, err)
}

// ListServerTools GET /servers/:slug/tools
func (h *CatalogHandler) ListServerTools(c *gin.Context) {
	data, err := h.querySvc.ListServerTools(c.Request.Context(), c.Param("slug"))
	back.Result(c, data, err)
}

// GetToolParameters GET /tools/:id/parameters
func (h *CatalogHandler) GetToolParameters(c *gin.Context) {
	data, err := h.querySvc.GetToolParameters(c.Request.Context(), c.Param("id"))
	back.Result(c, data, err)
}

// ListRuns GET /admin/runs?limit=20
func (h *CatalogHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	data, err := h.querySvc.ListRecentRuns(c.Request.Context(), limit)
	back.Result(c, data, err)
}
