package persistence

import (
	"context"
	"fmt"

	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type catalogMigratorImpl struct {
	src *gorm.DB
	dst *gorm.DB
}

// NewCatalogMigrator src 为本地库，dst 为目标库（通常是托管 Postgres）
func NewCatalogMigrator(src, dst *gorm.DB) repository.CatalogMigrator {
	return &catalogMigratorImpl{src: src, dst: dst}
}

func (m *catalogMigratorImpl) Tables() []string {
	return []string{
		entity.Server{}.TableName(),
		entity.MarkdownContent{}.TableName(),
		entity.Tool{}.TableName(),
		entity.ToolParameter{}.TableName(),
	}
}

func (m *catalogMigratorImpl) CopyTable(ctx context.Context, table string, chunkSize int) (int64, error) {
	switch table {
	case entity.Server{}.TableName():
		return copyChunks[entity.Server](ctx, m.src, m.dst, chunkSize, "slug")
	case entity.MarkdownContent{}.TableName():
		return copyChunks[entity.MarkdownContent](ctx, m.src, m.dst, chunkSize, "server_id", "content_type")
	case entity.Tool{}.TableName():
		return copyChunks[entity.Tool](ctx, m.src, m.dst, chunkSize, "server_id", "name")
	case entity.ToolParameter{}.TableName():
		return copyChunks[entity.ToolParameter](ctx, m.src, m.dst, chunkSize, "tool_id", "name")
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
}

// copyChunks 按主键顺序分块读取，每块在目标库以 ON CONFLICT(自然键) DO UPDATE 写入，重复执行结果不变
func copyChunks[T any](ctx context.Context, src, dst *gorm.DB, chunkSize int, keys ...string) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	cols := make([]clause.Column, 0, len(keys))
	for _, k := range keys {
		cols = append(cols, clause.Column{Name: k})
	}
	upsert := clause.OnConflict{Columns: cols, UpdateAll: true}

	var copied int64
	for offset := 0; ; offset += chunkSize {
		if err := ctx.Err(); err != nil {
			return copied, err
		}

		var rows []T
		if err := src.WithContext(ctx).Order("id ASC").Offset(offset).Limit(chunkSize).Find(&rows).Error; err != nil {
			return copied, fmt.Errorf("read chunk at %d: %w", offset, err)
		}
		if len(rows) == 0 {
			return copied, nil
		}
		if err := dst.WithContext(ctx).Clauses(upsert).Create(&rows).Error; err != nil {
			return copied, fmt.Errorf("write chunk at %d: %w", offset, err)
		}
		copied += int64(len(rows))
		if len(rows) < chunkSize {
			return copied, nil
		}
	}
}
