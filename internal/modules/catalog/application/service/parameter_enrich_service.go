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

// ParameterEnrichService 对已入库的工具，在 README 中定位上下文并解析参数
type ParameterEnrichService interface {
	Enrich(ctx context.Context, opts EnrichOptions) (*EnrichReport, error)
}

type parameterEnrichServiceImpl struct {
	deps  EnrichDeps
	guard *writerGuard
}

func NewParameterEnrichService(deps EnrichDeps) ParameterEnrichService {
	return &parameterEnrichServiceImpl{deps: deps, guard: enrichGuard}
}

// serverBatch 同一服务的连续工具，用于按服务发事件
type serverBatch struct {
	id      string
	slug    string
	delta   unitDelta
	touched bool
}

func (s *parameterEnrichServiceImpl) Enrich(ctx context.Context, opts EnrichOptions) (*EnrichReport, error) {
	release, err := s.guard.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := s.deps.Tools.ListToolsWithReadme(s.deps.minReadmeLength(), opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("list tools with readme: %w", err)
	}

	report := newReport(entity.RunKindParams, opts)
	zlog.Info("parameter enrichment started", zap.Int("tools", len(rows)), zap.Bool("dry_run", opts.DryRun))

	var cur *serverBatch
	for _, row := range rows {
		if ctx.Err() != nil {
			zlog.Warn("parameter enrichment cancelled", zap.Int("processed", report.Stats.Processed))
			break
		}
		if cur != nil && cur.slug != row.Slug {
			s.flush(ctx, cur, opts)
			cur = nil
		}
		if cur == nil {
			cur = &serverBatch{id: row.ServerId, slug: row.Slug}
		}
		if d, ok := s.enrichTool(row, opts, report); ok {
			cur.delta.add(d)
			cur.touched = true
		}
	}
	if cur != nil {
		s.flush(ctx, cur, opts)
	}

	s.deps.finish(report)
	return report, ctx.Err()
}

func (s *parameterEnrichServiceImpl) enrichTool(row entity.ToolReadme, opts EnrichOptions, report *EnrichReport) (unitDelta, bool) {
	st := &report.Stats
	st.Processed++

	tp := s.deps.extractToolParams(row.Content, row.Slug, row.ToolName)
	st.noteParams(tp)
	report.Records = append(report.Records, ExtractedTool{
		Server:            row.Slug,
		ToolRecord:        extraction.ToolRecord{Name: row.ToolName},
		Parameters:        tp.params,
		ParameterStrategy: tp.result.Strategy,
		Anchor:            tp.window.Anchor,
		LowConfidence:     tp.window.LowConfidence,
	})
	if len(tp.params) == 0 {
		zlog.Info("no parameters extracted", zap.String("server_slug", row.Slug), zap.String("tool", row.ToolName))
		return unitDelta{}, false
	}
	st.Matched++

	var delta unitDelta
	now := timeNow()
	err := s.deps.transaction(opts.DryRun, func(_ repository.ServerRepository, _ repository.ToolRepository, params repository.ToolParameterRepository) error {
		return upsertParameters(params, row.ToolId, row.Slug, row.ToolName, tp.params, now, &delta)
	})
	if err != nil {
		st.Errors++
		zlog.Error("parameter enrichment unit failed",
			zap.String("server_slug", row.Slug),
			zap.String("tool", row.ToolName),
			zap.Error(err))
		return unitDelta{}, false
	}
	st.apply(delta)
	return delta, true
}

func (s *parameterEnrichServiceImpl) flush(ctx context.Context, b *serverBatch, opts EnrichOptions) {
	if opts.DryRun || !b.touched {
		return
	}
	s.deps.publish(ctx, mq.ServerEnrichedEvent{
		ServerID:       b.id,
		Slug:           b.slug,
		RunKind:        entity.RunKindParams,
		ParamsInserted: b.delta.paramsInserted,
		ParamsUpdated:  b.delta.paramsUpdated,
	})
}
