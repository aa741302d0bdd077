package persistence

import (
	"errors"

	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type readmeRepositoryImpl struct {
	db *gorm.DB
}

func NewReadmeRepository(db *gorm.DB) repository.ReadmeRepository {
	return &readmeRepositoryImpl{db: db}
}

func (r *readmeRepositoryImpl) ListServersWithReadme(minLength, limit int) ([]entity.ServerReadme, error) {
	var rows []entity.ServerReadme
	q := r.db.Table("servers").
		Select("servers.id AS server_id, servers.slug AS slug, servers.name AS name, markdown_content.content AS content").
		Joins("JOIN markdown_content ON markdown_content.server_id = servers.id").
		Where("markdown_content.content_type = ?", entity.ContentTypeReadme).
		Where("LENGTH(markdown_content.content) > ?", minLength).
		Order("servers.slug ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *readmeRepositoryImpl) GetReadme(serverID string) (*entity.MarkdownContent, error) {
	var c entity.MarkdownContent
	err := r.db.
		Where("server_id = ? AND content_type = ?", serverID, entity.ContentTypeReadme).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *readmeRepositoryImpl) UpsertContent(content *entity.MarkdownContent) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "server_id"}, {Name: "content_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(content).Error
}
