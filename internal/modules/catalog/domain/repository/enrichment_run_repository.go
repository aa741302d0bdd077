package repository

import "MCPCatalog/internal/modules/catalog/domain/entity"

type EnrichmentRunRepository interface {
	CreateRun(run *entity.EnrichmentRun) error
	ListRecentRuns(limit int) ([]entity.EnrichmentRun, error)
}
