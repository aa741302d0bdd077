package service

import (
	"context"
	"errors"

	"MCPCatalog/internal/modules/catalog/domain/repository"
	"MCPCatalog/internal/modules/catalog/infrastructure/extraction"
	"MCPCatalog/internal/modules/catalog/infrastructure/mq"
	"MCPCatalog/internal/modules/catalog/infrastructure/overrides"
	"MCPCatalog/pkg/zlog"

	"go.uber.org/zap"
)

// defaultMinReadmeLength 更短的 README 基本不会包含工具说明
const defaultMinReadmeLength = 100

// errDryRunRollback 让 dry-run 在事务末尾回滚
var errDryRunRollback = errors.New("dry run rollback")

// Enricher 三类解析入库任务的共同入口，HTTP、定时任务按 kind 选择
type Enricher interface {
	Enrich(ctx context.Context, opts EnrichOptions) (*EnrichReport, error)
}

// EventSink 提交成功后的事件出口，Kafka 未启用时可为 nil
type EventSink interface {
	ServerEnriched(ctx context.Context, ev mq.ServerEnrichedEvent) error
}

// EnrichDeps 三类解析入库任务共用的依赖
type EnrichDeps struct {
	UnitOfWork      repository.CatalogUnitOfWork
	Readmes         repository.ReadmeRepository
	Tools           repository.ToolRepository
	Runs            repository.EnrichmentRunRepository
	Overrides       *overrides.Set
	Events          EventSink
	MinReadmeLength int
}

func (d *EnrichDeps) minReadmeLength() int {
	if d.MinReadmeLength <= 0 {
		return defaultMinReadmeLength
	}
	return d.MinReadmeLength
}

// transaction 一个服务（或一个工具）一个事务；dry-run 执行全部读写后回滚
func (d *EnrichDeps) transaction(dryRun bool, fn func(servers repository.ServerRepository, tools repository.ToolRepository, params repository.ToolParameterRepository) error) error {
	err := d.UnitOfWork.Transaction(func(servers repository.ServerRepository, tools repository.ToolRepository, params repository.ToolParameterRepository) error {
		if err := fn(servers, tools, params); err != nil {
			return err
		}
		if dryRun {
			return errDryRunRollback
		}
		return nil
	})
	if errors.Is(err, errDryRunRollback) {
		return nil
	}
	return err
}

type toolParams struct {
	window  extraction.ContextWindow
	found   bool
	result  extraction.ParameterResult
	params  []extraction.ParameterRecord
	applied int
}

// extractToolParams 定位窗口、解析参数并叠加人工修正
func (d *EnrichDeps) extractToolParams(doc, slug, toolName string) toolParams {
	w, res, found := extraction.ExtractToolParameters(doc, toolName)
	tp := toolParams{window: w, found: found, result: res}
	if !found {
		zlog.Warn("tool anchor not found", zap.String("server_slug", slug), zap.String("tool", toolName))
	} else if w.LowConfidence {
		zlog.Warn("low confidence parameter window",
			zap.String("server_slug", slug),
			zap.String("tool", toolName),
			zap.String("anchor", string(w.Anchor)))
	}
	tp.params, tp.applied = d.Overrides.ApplyParameters(slug, toolName, res.Parameters)
	return tp
}

func (d *EnrichDeps) publish(ctx context.Context, ev mq.ServerEnrichedEvent) {
	if d.Events == nil {
		return
	}
	if err := d.Events.ServerEnriched(ctx, ev); err != nil {
		zlog.Warn("publish server enriched event failed", zap.String("server_slug", ev.Slug), zap.Error(err))
	}
}

// finish 输出汇总日志，正式运行时记录到 enrichment_runs
func (d *EnrichDeps) finish(report *EnrichReport) {
	st := &report.Stats
	st.FinishedAt = timeNow()

	zlog.Info("enrichment finished",
		zap.String("kind", st.Kind),
		zap.String("trigger", st.Trigger),
		zap.Bool("dry_run", st.DryRun),
		zap.Int("processed", st.Processed),
		zap.Int("matched", st.Matched),
		zap.Float64("success_rate", st.SuccessRate()),
		zap.Int("tools_inserted", st.ToolsInserted),
		zap.Int("tools_updated", st.ToolsUpdated),
		zap.Int("params_inserted", st.ParamsInserted),
		zap.Int("params_updated", st.ParamsUpdated),
		zap.Int("errors", st.Errors),
		zap.Int("low_confidence", st.LowConfidence),
		zap.Int("malformed_blocks", st.MalformedBlocks),
		zap.Duration("elapsed", st.FinishedAt.Sub(st.StartedAt)))
	if st.Processed > 0 && st.SuccessRate() < targetSuccessRate {
		zlog.Warn("enrichment success rate below target",
			zap.String("kind", st.Kind),
			zap.Float64("success_rate", st.SuccessRate()),
			zap.Float64("target", targetSuccessRate))
	}

	if st.DryRun || d.Runs == nil {
		return
	}
	if err := d.Runs.CreateRun(st.toRun()); err != nil {
		zlog.Error("save enrichment run failed", zap.String("kind", st.Kind), zap.Error(err))
	}
}

type fanOutSink []EventSink

func (f fanOutSink) ServerEnriched(ctx context.Context, ev mq.ServerEnrichedEvent) error {
	var errs []error
	for _, s := range f {
		if err := s.ServerEnriched(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FanOut 组合多个事件出口（Kafka、WebSocket），nil 会被忽略
func FanOut(sinks ...EventSink) EventSink {
	var out fanOutSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}
