package scheduler

import (
	"context"
	"errors"
	"sync"

	"MCPCatalog/internal/modules/catalog/application/service"
	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/pkg/zlog"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SchedulerManager 按 cron 表达式周期性执行解析入库
type SchedulerManager struct {
	cron     *cron.Cron
	enricher service.Enricher
	limit    int
	running  func() bool

	mu      sync.Mutex
	entryID cron.EntryID
	wg      sync.WaitGroup
}

func NewSchedulerManager(enricher service.Enricher, limit int) *SchedulerManager {
	return &SchedulerManager{
		// 使用标准5段Cron表达式（不含秒）
		cron:     cron.New(),
		enricher: enricher,
		limit:    limit,
		running:  service.IsEnrichmentRunning,
	}
}

// Start schedule 为空时不启动
func (m *SchedulerManager) Start(schedule string) error {
	if schedule == "" {
		zlog.Info("enrich scheduler disabled")
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.cron.AddFunc(schedule, m.tick)
	if err != nil {
		return err
	}
	m.entryID = id
	m.cron.Start()
	zlog.Info("enrich scheduler started", zap.String("schedule", schedule))
	return nil
}

// Stop 等待正在执行的一轮结束
func (m *SchedulerManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.wg.Wait()
}

func (m *SchedulerManager) tick() {
	// 上一轮（或手动触发的任务）还没结束就跳过本轮
	if m.running() {
		zlog.Info("enrich tick skipped, run in progress")
		return
	}

	m.wg.Add(1)
	defer m.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			zlog.Error("enrich tick panic", zap.Any("panic", r))
		}
	}()

	report, err := m.enricher.Enrich(context.Background(), service.EnrichOptions{
		Limit:   m.limit,
		Trigger: entity.TriggerCron,
	})
	if errors.Is(err, service.ErrEnrichmentRunning) {
		zlog.Info("enrich tick skipped, run in progress")
		return
	}
	if err != nil {
		zlog.Error("scheduled enrich failed", zap.Error(err))
		return
	}
	zlog.Info("scheduled enrich done",
		zap.Int("processed", report.Stats.Processed),
		zap.Int("matched", report.Stats.Matched),
		zap.Int("errors", report.Stats.Errors))
}
