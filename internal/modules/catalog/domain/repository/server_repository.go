package repository

import "MCPCatalog/internal/modules/catalog/domain/entity"

type ServerRepository interface {
	GetServerByID(id string) (*entity.Server, error)
	GetServerBySlug(slug string) (*entity.Server, error)
	ListServers(offset, limit int) ([]entity.Server, int64, error)
	CreateServer(server *entity.Server) error
	// RecomputeToolsCount 按 tools 表重新统计并回写 servers.tools_count
	RecomputeToolsCount(serverID string) (int, error)
}
