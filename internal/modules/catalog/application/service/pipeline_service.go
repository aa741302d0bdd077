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

// PipelineService 一次处理一个服务：工具与参数在同一事务内写入
type PipelineService interface {
	Enrich(ctx context.Context, opts EnrichOptions) (*EnrichReport, error)
}

type pipelineServiceImpl struct {
	deps  EnrichDeps
	guard *writerGuard
}

func NewPipelineService(deps EnrichDeps) PipelineService {
	return &pipelineServiceImpl{deps: deps, guard: enrichGuard}
}

func (s *pipelineServiceImpl) Enrich(ctx context.Context, opts EnrichOptions) (*EnrichReport, error) {
	release, err := s.guard.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	servers, err := s.deps.Readmes.ListServersWithReadme(s.deps.minReadmeLength(), opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("list servers with readme: %w", err)
	}

	report := newReport(entity.RunKindPipeline, opts)
	zlog.Info("pipeline enrichment started", zap.Int("servers", len(servers)), zap.Bool("dry_run", opts.DryRun))
	for _, srv := range servers {
		if ctx.Err() != nil {
			zlog.Warn("pipeline enrichment cancelled", zap.Int("processed", report.Stats.Processed))
			break
		}
		s.enrichServer(ctx, srv, opts, report)
	}
	s.deps.finish(report)
	return report, ctx.Err()
}

func (s *pipelineServiceImpl) enrichServer(ctx context.Context, srv entity.ServerReadme, opts EnrichOptions, report *EnrichReport) {
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

	extracted := make([]toolParams, len(tools))
	for i, t := range tools {
		tp := s.deps.extractToolParams(srv.Content, srv.Slug, t.Name)
		st.noteParams(tp)
		extracted[i] = tp
		report.Records = append(report.Records, ExtractedTool{
			Server:            srv.Slug,
			ToolRecord:        t,
			ToolStrategy:      res.Strategy,
			Parameters:        tp.params,
			ParameterStrategy: tp.result.Strategy,
			Anchor:            tp.window.Anchor,
			LowConfidence:     tp.window.LowConfidence,
		})
	}

	var delta unitDelta
	count := 0
	now := timeNow()
	err := s.deps.transaction(opts.DryRun, func(servers repository.ServerRepository, toolRepo repository.ToolRepository, params repository.ToolParameterRepository) error {
		saved, err := upsertTools(toolRepo, srv.ServerId, srv.Slug, tools, now, &delta)
		if err != nil {
			return err
		}
		for i, t := range tools {
			row := saved[t.Name]
			if row == nil {
				continue
			}
			if err := upsertParameters(params, row.Id, srv.Slug, t.Name, extracted[i].params, now, &delta); err != nil {
				return err
			}
		}
		n, err := servers.RecomputeToolsCount(srv.ServerId)
		count = n
		return err
	})
	if err != nil {
		st.Errors++
		zlog.Error("pipeline unit failed", zap.String("server_slug", srv.Slug), zap.Error(err))
		return
	}
	st.apply(delta)

	zlog.Info("server pipeline upserted",
		zap.String("server_slug", srv.Slug),
		zap.String("strategy", res.Strategy),
		zap.Int("tools", len(tools)),
		zap.Int("tools_inserted", delta.toolsInserted),
		zap.Int("params_inserted", delta.paramsInserted))
	if opts.DryRun {
		return
	}
	s.deps.publish(ctx, mq.ServerEnrichedEvent{
		ServerID:        srv.ServerId,
		Slug:            srv.Slug,
		RunKind:         entity.RunKindPipeline,
		ToolsCount:      count,
		ToolsInserted:   delta.toolsInserted,
		ToolsUpdated:    delta.toolsUpdated,
		ParamsInserted:  delta.paramsInserted,
		ParamsUpdated:   delta.paramsUpdated,
		ExtractStrategy: res.Strategy,
	})
}
