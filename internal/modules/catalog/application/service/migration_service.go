package service

import (
	"context"
	"fmt"
	"time"

	"MCPCatalog/internal/modules/catalog/domain/repository"
	"MCPCatalog/pkg/zlog"

	"go.uber.org/zap"
)

const defaultChunkSize = 500

type TableCopy struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

type MigrationResult struct {
	Tables  []TableCopy   `json:"tables"`
	Elapsed time.Duration `json:"elapsed"`
}

// MigrationService 本地 SQLite 目录整体迁移到 Postgres/MySQL，可重复执行
type MigrationService interface {
	Migrate(ctx context.Context, chunkSize int) (*MigrationResult, error)
}

type migrationServiceImpl struct {
	migrator repository.CatalogMigrator
}

func NewMigrationService(migrator repository.CatalogMigrator) MigrationService {
	return &migrationServiceImpl{migrator: migrator}
}

func (s *migrationServiceImpl) Migrate(ctx context.Context, chunkSize int) (*MigrationResult, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	start := time.Now()
	res := &MigrationResult{}
	for _, table := range s.migrator.Tables() {
		n, err := s.migrator.CopyTable(ctx, table, chunkSize)
		if err != nil {
			return res, fmt.Errorf("copy table %s: %w", table, err)
		}
		zlog.Info("table migrated", zap.String("table", table), zap.Int64("rows", n))
		res.Tables = append(res.Tables, TableCopy{Table: table, Rows: n})
	}
	res.Elapsed = time.Since(start)
	return res, nil
}
