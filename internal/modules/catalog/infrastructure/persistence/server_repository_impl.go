package persistence

import (
	"errors"
	"time"

	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/domain/repository"

	"gorm.io/gorm"
)

type serverRepositoryImpl struct {
	db *gorm.DB
}

func NewServerRepository(db *gorm.DB) repository.ServerRepository {
	return &serverRepositoryImpl{db: db}
}

func (r *serverRepositoryImpl) GetServerByID(id string) (*entity.Server, error) {
	var s entity.Server
	err := r.db.Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serverRepositoryImpl) GetServerBySlug(slug string) (*entity.Server, error) {
	var s entity.Server
	err := r.db.Where("slug = ?", slug).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serverRepositoryImpl) ListServers(offset, limit int) ([]entity.Server, int64, error) {
	var total int64
	if err := r.db.Model(&entity.Server{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var servers []entity.Server
	q := r.db.Order("slug ASC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&servers).Error; err != nil {
		return nil, 0, err
	}
	return servers, total, nil
}

func (r *serverRepositoryImpl) CreateServer(server *entity.Server) error {
	return r.db.Create(server).Error
}

func (r *serverRepositoryImpl) RecomputeToolsCount(serverID string) (int, error) {
	var count int64
	if err := r.db.Model(&entity.Tool{}).Where("server_id = ?", serverID).Count(&count).Error; err != nil {
		return 0, err
	}
	err := r.db.Model(&entity.Server{}).
		Where("id = ?", serverID).
		Updates(map[string]interface{}{
			"tools_count": count,
			"updated_at":  time.Now(),
		}).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
