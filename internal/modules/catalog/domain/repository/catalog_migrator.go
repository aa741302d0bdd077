package repository

import "context"

// CatalogMigrator 把本地库的目录数据整表复制到目标库
type CatalogMigrator interface {
	// Tables 按依赖顺序返回需要复制的表
	Tables() []string
	// CopyTable 分块读取源表并 upsert 到目标表，返回写入行数
	CopyTable(ctx context.Context, table string, chunkSize int) (int64, error)
}
