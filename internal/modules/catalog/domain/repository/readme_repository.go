package repository

import "MCPCatalog/internal/modules/catalog/domain/entity"

type ReadmeRepository interface {
	// ListServersWithReadme README 长度超过 minLength 的服务，按 slug 排序；limit<=0 不限制
	ListServersWithReadme(minLength, limit int) ([]entity.ServerReadme, error)
	GetReadme(serverID string) (*entity.MarkdownContent, error)
	UpsertContent(content *entity.MarkdownContent) error
}
