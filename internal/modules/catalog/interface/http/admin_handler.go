package http

import (
	"context"
	"errors"
	"strings"

	"MCPCatalog/internal/modules/catalog/application/dto/request"
	"MCPCatalog/internal/modules/catalog/application/service"
	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/pkg/back"
	"MCPCatalog/pkg/xerr"
	"MCPCatalog/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	enrichers map[string]service.Enricher
}

// NewAdminHandler enrichers 以任务类型（tools / params / pipeline）为键
func NewAdminHandler(enrichers map[string]service.Enricher) *AdminHandler {
	return &AdminHandler{enrichers: enrichers}
}

// Enrich POST /admin/enrich，同步执行；客户端断开不会中断任务
func (h *AdminHandler) Enrich(c *gin.Context) {
	var req request.EnrichRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			zlog.Warn("bind enrich request failed", zap.Error(err))
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
	}

	kind := strings.TrimSpace(req.Kind)
	if kind == "" {
		kind = entity.RunKindPipeline
	}
	enricher, ok := h.enrichers[kind]
	if !ok {
		back.Error(c, xerr.BadRequest, "unknown enrich kind: "+kind)
		return
	}

	zlog.Info("admin enrich requested",
		zap.String("kind", kind),
		zap.String("subject", c.GetString("subject")),
		zap.Int("limit", req.Limit),
		zap.Bool("dry_run", req.DryRun))
	report, err := enricher.Enrich(context.WithoutCancel(c.Request.Context()), service.EnrichOptions{
		Limit:   req.Limit,
		DryRun:  req.DryRun,
		Trigger: entity.TriggerHTTP,
	})
	if errors.Is(err, service.ErrEnrichmentRunning) {
		back.Result(c, nil, xerr.ErrConflict)
		return
	}
	if err != nil {
		zlog.Error("admin enrich failed", zap.String("kind", kind), zap.Error(err))
		back.Result(c, nil, err)
		return
	}
	back.Success(c, report)
}
