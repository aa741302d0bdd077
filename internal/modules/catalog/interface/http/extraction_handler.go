package http

import (
	"MCPCatalog/internal/modules/catalog/application/dto/request"
	"MCPCatalog/internal/modules/catalog/application/service"
	"MCPCatalog/pkg/back"
	"MCPCatalog/pkg/xerr"
	"MCPCatalog/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ExtractionHandler struct {
	extractSvc service.ExtractionService
}

func NewExtractionHandler(extractSvc service.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{extractSvc: extractSvc}
}

// ExtractTools POST /extract/tools
func (h *ExtractionHandler) ExtractTools(c *gin.Context) {
	var req request.ExtractToolsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zlog.Warn("bind extract tools request failed", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.extractSvc.PreviewTools(c.Request.Context(), req)
	back.Result(c, data, err)
}

// ExtractParameters POST /extract/parameters
func (h *ExtractionHandler) ExtractParameters(c *gin.Context) {
	var req request.ExtractParametersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zlog.Warn("bind extract parameters request failed", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.extractSvc.PreviewParameters(c.Request.Context(), req)
	back.Result(c, data, err)
}
