package service

import (
	"context"
	"fmt"

	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/domain/repository"
	"MCPCatalog/internal/modules/catalog/infrastructure/extraction"
	"MCPCatalog/internal/modules/catalog/infrastructure/mq"
	"MCPCatalog/pkg/zlog"

	"go.uber.org/zap"
)

// ToolEnrichService 从 README 解析工具列表并写入 tools
type ToolEnrichService interface {
	Enrich(ctx context.Context, opts EnrichOptions) (*EnrichReport, error)
}

type toolEnrichServiceImpl struct {
	deps  EnrichDeps
	guard *writerGuard
}

func NewToolEnrichService(deps EnrichDeps) ToolEnrichService {
	return &toolEnrichServiceImpl{deps: deps, guard: enrichGuard}
}

func (s *toolEnrichServiceImpl) Enrich(ctx context.Context, opts EnrichOptions) (*EnrichReport, error) {
	release, err := s.guard.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	servers, err := s.deps.Readmes.ListServersWithReadme(s.deps.minReadmeLength(), opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("list servers with readme: %w", err)
	}

	report := newReport(entity.RunKindTools, opts)
	zlog.Info("tool enrichment started", zap.Int("servers", len(servers)), zap.Bool("dry_run", opts.DryRun))
	for _, srv := range servers {
		if ctx.Err() != nil {
			zlog.Warn("tool enrichment cancelled", zap.Int("processed", report.Stats.Processed))
			break
		}
		s.enrichServer(ctx, srv, opts, report)
	}
	s.deps.finish(report)
	return report, ctx.Err()
}

func (s *toolEnrichServiceImpl) enrichServer(ctx context.Context, srv entity.ServerReadme, opts EnrichOptions, report *EnrichReport) {
	st := &report.Stats
	st.Processed++

	res := extraction.ExtractTools(srv.Content)
	st.MalformedBlocks += res.MalformedBlocks
	if !res.SectionFound {
		st.NoSection++
	}
	tools, applied := s.deps.Overrides.ApplyTools(srv.Slug, res.Tools)
	st.OverridesApplied += applied
	if len(tools) == 0 {
		zlog.Info("no tools extracted", zap.String("server_slug", srv.Slug), zap.Bool("section_found", res.SectionFound))
		return
	}
	st.Matched++
	st.noteStrategy("tool", res.Strategy)
	for _, t := range tools {
		report.Records = append(report.Records, ExtractedTool{Server: srv.Slug, ToolRecord: t, ToolStrategy: res.Strategy})
	}

	var delta unitDelta
	count := 0
	now := timeNow()
	err := s.deps.transaction(opts.DryRun, func(servers repository.ServerRepository, toolRepo repository.ToolRepository, _ repository.ToolParameterRepository) error {
		if _, err := upsertTools(toolRepo, srv.ServerId, srv.Slug, tools, now, &delta); err != nil {
			return err
		}
		n, err := servers.RecomputeToolsCount(srv.ServerId)
		count = n
		return err
	})
	if err != nil {
		st.Errors++
		zlog.Error("tool enrichment unit failed", zap.String("server_slug", srv.Slug), zap.Error(err))
		return
	}
	st.apply(delta)

	zlog.Info("server tools upserted",
		zap.String("server_slug", srv.Slug),
		zap.String("strategy", res.Strategy),
		zap.Int("tools", len(tools)),
		zap.Int("inserted", delta.toolsInserted),
		zap.Int("updated", delta.toolsUpdated))
	if opts.DryRun {
		return
	}
	s.deps.publish(ctx, mq.ServerEnrichedEvent{
		ServerID:        srv.ServerId,
		Slug:            srv.Slug,
		RunKind:         entity.RunKindTools,
		ToolsCount:      count,
		ToolsInserted:   delta.toolsInserted,
		ToolsUpdated:    delta.toolsUpdated,
		ExtractStrategy: res.Strategy,
	})
}
