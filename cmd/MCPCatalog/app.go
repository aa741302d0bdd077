package main

import (
	"fmt"
	"time"

	"MCPCatalog/internal/config"
	"MCPCatalog/internal/initial"
	"MCPCatalog/internal/modules/catalog/application/service"
	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/infrastructure/cache"
	mcpServer "MCPCatalog/internal/modules/catalog/infrastructure/mcp/server"
	"MCPCatalog/internal/modules/catalog/infrastructure/mq"
	"MCPCatalog/internal/modules/catalog/infrastructure/mq/kafka"
	"MCPCatalog/internal/modules/catalog/infrastructure/notify"
	"MCPCatalog/internal/modules/catalog/infrastructure/overrides"
	"MCPCatalog/internal/modules/catalog/infrastructure/persistence"
	"MCPCatalog/pkg/redis"
	"MCPCatalog/pkg/ws"
	"MCPCatalog/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app 一次命令执行所需的全部依赖
type app struct {
	conf   *config.Config
	db     *gorm.DB
	events *mq.EventPublisher
	hub    *ws.Hub

	enrichers map[string]service.Enricher
	extract   service.ExtractionService
	query     service.CatalogQueryService
}

// bootstrap 加载配置、初始化日志与数据库；withSideEffects=false 时不连接 Redis/Kafka
func bootstrap(opts *rootOptions, withSideEffects bool) (*app, error) {
	conf, err := config.LoadConfig(opts.configPath)
	if err != nil && opts.configPath != "" {
		return nil, err
	}
	if opts.dbPath != "" {
		conf.DatabaseConfig.Driver = "sqlite"
		conf.DatabaseConfig.Path = opts.dbPath
	}

	zlog.Init(zlog.Options{
		LogPath:    conf.LogConfig.LogPath,
		Level:      conf.LogConfig.Level,
		MaxSizeMB:  conf.LogConfig.MaxSizeMB,
		MaxBackups: conf.LogConfig.MaxBackups,
		MaxAgeDays: conf.LogConfig.MaxAgeDays,
	})

	db, err := initial.InitGorm(conf.DatabaseConfig)
	if err != nil {
		return nil, err
	}
	initial.GormDB = db

	set, err := overrides.Load(conf.EnrichConfig.OverridesPath)
	if err != nil {
		return nil, err
	}
	if set.Len() > 0 {
		zlog.Info("overrides loaded", zap.String("path", conf.EnrichConfig.OverridesPath), zap.Int("entries", set.Len()))
	}

	a := &app{conf: conf, db: db}
	if withSideEffects {
		initial.InitRedis(conf.RedisConfig)
		a.events = newEventPublisher(conf.KafkaConfig)
		a.hub = ws.NewHub()
	}

	deps := service.EnrichDeps{
		UnitOfWork:      persistence.NewCatalogUnitOfWork(db),
		Readmes:         persistence.NewReadmeRepository(db),
		Tools:           persistence.NewToolRepository(db),
		Runs:            persistence.NewEnrichmentRunRepository(db),
		Overrides:       set,
		MinReadmeLength: conf.EnrichConfig.MinReadmeLength,
	}
	var sinks []service.EventSink
	if a.events != nil {
		sinks = append(sinks, a.events)
	}
	if a.hub != nil {
		sinks = append(sinks, notify.NewRunBroadcaster(a.hub))
	}
	deps.Events = service.FanOut(sinks...)
	a.enrichers = map[string]service.Enricher{
		entity.RunKindTools:    service.NewToolEnrichService(deps),
		entity.RunKindParams:   service.NewParameterEnrichService(deps),
		entity.RunKindPipeline: service.NewPipelineService(deps),
	}

	var previewCache cache.PreviewCache
	if redis.IsConnected() {
		previewCache = cache.NewRedisPreviewCache("catalog:preview:", time.Duration(conf.EnrichConfig.CacheTTLSeconds)*time.Second)
	}
	a.extract = service.NewExtractionService(previewCache)
	a.query = service.NewCatalogQueryService(
		persistence.NewServerRepository(db),
		persistence.NewToolRepository(db),
		persistence.NewToolParameterRepository(db),
		persistence.NewEnrichmentRunRepository(db),
	)
	return a, nil
}

func newEventPublisher(conf config.KafkaConfig) *mq.EventPublisher {
	if len(conf.Brokers) == 0 {
		return nil
	}
	pub, err := kafka.NewSaramaPublisher(kafka.PublisherConfig{Brokers: conf.Brokers, ClientID: conf.ClientID})
	if err != nil {
		zlog.Warn("kafka publisher unavailable, events disabled", zap.Strings("brokers", conf.Brokers), zap.Error(err))
		return nil
	}
	zlog.Info("kafka publisher ready", zap.Strings("brokers", conf.Brokers), zap.String("topic", conf.Topic))
	return mq.NewEventPublisher(pub, conf.Topic)
}

func (a *app) Close() {
	if err := a.events.Close(); err != nil {
		zlog.Warn("close kafka publisher failed", zap.Error(err))
	}
	if err := redis.Close(); err != nil {
		zlog.Warn("close redis failed", zap.Error(err))
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (a *app) enricher(kind string) (service.Enricher, error) {
	e, ok := a.enrichers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown enrich kind %q", kind)
	}
	return e, nil
}

func (a *app) mcpConfig() mcpServer.CatalogServerConfig {
	return mcpServer.CatalogServerConfig{
		Name:              a.conf.MCPConfig.Name,
		Version:           a.conf.MCPConfig.Version,
		EnableQueryTools:  true,
		EnableExtractTool: true,
	}
}

func (a *app) mcpDeps() mcpServer.CatalogServerDependencies {
	return mcpServer.CatalogServerDependencies{ExtractSvc: a.extract, QuerySvc: a.query}
}

// loadConfigOnly 不需要数据库的命令（token）只加载配置
func loadConfigOnly(opts *rootOptions) (*config.Config, error) {
	conf, err := config.LoadConfig(opts.configPath)
	if err != nil && opts.configPath != "" {
		return nil, err
	}
	return conf, nil
}
