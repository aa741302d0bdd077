package persistence

import (
	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/domain/repository"

	"gorm.io/gorm"
)

type enrichmentRunRepositoryImpl struct {
	db *gorm.DB
}

func NewEnrichmentRunRepository(db *gorm.DB) repository.EnrichmentRunRepository {
	return &enrichmentRunRepositoryImpl{db: db}
}

func (r *enrichmentRunRepositoryImpl) CreateRun(run *entity.EnrichmentRun) error {
	return r.db.Create(run).Error
}

func (r *enrichmentRunRepositoryImpl) ListRecentRuns(limit int) ([]entity.EnrichmentRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []entity.EnrichmentRun
	if err := r.db.Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
