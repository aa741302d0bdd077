package persistence

import (
	"MCPCatalog/internal/modules/catalog/domain/repository"

	"gorm.io/gorm"
)

type catalogUnitOfWorkImpl struct {
	db *gorm.DB
}

func NewCatalogUnitOfWork(db *gorm.DB) repository.CatalogUnitOfWork {
	return &catalogUnitOfWorkImpl{db: db}
}

func (u *catalogUnitOfWorkImpl) Transaction(fn func(servers repository.ServerRepository, tools repository.ToolRepository, params repository.ToolParameterRepository) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewServerRepository(tx), NewToolRepository(tx), NewToolParameterRepository(tx))
	})
}
