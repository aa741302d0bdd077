package service

import (
	"context"

	"MCPCatalog/internal/modules/catalog/application/dto/respond"
	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/domain/repository"
	"MCPCatalog/pkg/xerr"
	"MCPCatalog/pkg/zlog"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultRunLimit = 20
)

// CatalogQueryService 只读查询
type CatalogQueryService interface {
	ListServers(ctx context.Context, page, pageSize int) (*respond.ServerListRespond, error)
	ListServerTools(ctx context.Context, slug string) (*respond.ServerToolsRespond, error)
	GetToolParameters(ctx context.Context, toolID string) (*respond.ToolParametersRespond, error)
	ListRecentRuns(ctx context.Context, limit int) ([]respond.RunItem, error)
}

type catalogQueryServiceImpl struct {
	servers repository.ServerRepository
	tools   repository.ToolRepository
	params  repository.ToolParameterRepository
	runs    repository.EnrichmentRunRepository
}

func NewCatalogQueryService(
	servers repository.ServerRepository,
	tools repository.ToolRepository,
	params repository.ToolParameterRepository,
	runs repository.EnrichmentRunRepository,
) CatalogQueryService {
	return &catalogQueryServiceImpl{servers: servers, tools: tools, params: params, runs: runs}
}

func (s *catalogQueryServiceImpl) ListServers(ctx context.Context, page, pageSize int) (*respond.ServerListRespond, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	list, total, err := s.servers.ListServers((page-1)*pageSize, pageSize)
	if err != nil {
		zlog.Error("list servers failed", zap.Error(err))
		return nil, xerr.ErrServerError
	}

	out := &respond.ServerListRespond{Total: total, Page: page, PageSize: pageSize, Servers: make([]respond.ServerItem, 0, len(list))}
	for i := range list {
		out.Servers = append(out.Servers, toServerItem(&list[i]))
	}
	return out, nil
}

func (s *catalogQueryServiceImpl) ListServerTools(ctx context.Context, slug string) (*respond.ServerToolsRespond, error) {
	if slug == "" {
		return nil, xerr.ErrParam
	}
	srv, err := s.servers.GetServerBySlug(slug)
	if err != nil {
		zlog.Error("get server failed", zap.String("server_slug", slug), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if srv == nil {
		return nil, xerr.New(xerr.NotFound, "server not found")
	}

	tools, err := s.tools.ListToolsByServer(srv.Id)
	if err != nil {
		zlog.Error("list tools failed", zap.String("server_slug", slug), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	out := &respond.ServerToolsRespond{Server: toServerItem(srv), Tools: make([]respond.ToolItem, 0, len(tools))}
	for i := range tools {
		out.Tools = append(out.Tools, toToolItem(&tools[i]))
	}
	return out, nil
}

func (s *catalogQueryServiceImpl) GetToolParameters(ctx context.Context, toolID string) (*respond.ToolParametersRespond, error) {
	if toolID == "" {
		return nil, xerr.ErrParam
	}
	tool, err := s.tools.GetToolByID(toolID)
	if err != nil {
		zlog.Error("get tool failed", zap.String("tool_id", toolID), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if tool == nil {
		return nil, xerr.New(xerr.NotFound, "tool not found")
	}

	params, err := s.params.ListParametersByTool(tool.Id)
	if err != nil {
		zlog.Error("list parameters failed", zap.String("tool_id", toolID), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	out := &respond.ToolParametersRespond{Tool: toToolItem(tool), Parameters: make([]respond.ParameterItem, 0, len(params))}
	for _, p := range params {
		out.Parameters = append(out.Parameters, respond.ParameterItem{
			ID:           p.Id,
			Name:         p.Name,
			Type:         p.Type,
			Description:  p.Description,
			Required:     p.Required,
			DefaultValue: p.DefaultValue,
			ExampleValue: p.ExampleValue,
		})
	}
	return out, nil
}

func (s *catalogQueryServiceImpl) ListRecentRuns(ctx context.Context, limit int) ([]respond.RunItem, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultRunLimit
	}
	runs, err := s.runs.ListRecentRuns(limit)
	if err != nil {
		zlog.Error("list enrichment runs failed", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	out := make([]respond.RunItem, 0, len(runs))
	for _, r := range runs {
		out = append(out, respond.RunItem{
			ID:              r.Id,
			Kind:            r.Kind,
			Trigger:         r.Trigger,
			Processed:       r.Processed,
			Matched:         r.Matched,
			ToolsInserted:   r.ToolsInserted,
			ToolsUpdated:    r.ToolsUpdated,
			ParamsInserted:  r.ParamsInserted,
			ParamsUpdated:   r.ParamsUpdated,
			Errors:          r.Errors,
			LowConfidence:   r.LowConfidence,
			MalformedBlocks: r.MalformedBlocks,
			StartedAt:       r.StartedAt,
			FinishedAt:      r.FinishedAt,
		})
	}
	return out, nil
}

func toServerItem(s *entity.Server) respond.ServerItem {
	return respond.ServerItem{
		ID:          s.Id,
		Slug:        s.Slug,
		Name:        s.Name,
		DisplayName: s.DisplayName,
		ToolsCount:  s.ToolsCount,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toToolItem(t *entity.Tool) respond.ToolItem {
	return respond.ToolItem{
		ID:           t.Id,
		Name:         t.Name,
		DisplayName:  t.DisplayName,
		Description:  t.Description,
		InputSchema:  t.InputSchema,
		DisplayOrder: t.DisplayOrder,
	}
}
