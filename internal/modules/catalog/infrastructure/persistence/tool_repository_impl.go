package persistence

import (
	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/domain/repository"

	"gorm.io/gorm"
)

type toolRepositoryImpl struct {
	db *gorm.DB
}

func NewToolRepository(db *gorm.DB) repository.ToolRepository {
	return &toolRepositoryImpl{db: db}
}

func (r *toolRepositoryImpl) GetToolByID(id string) (*entity.Tool, error) {
	var tools []entity.Tool
	if err := r.db.Where("id = ?", id).Limit(1).Find(&tools).Error; err != nil {
		return nil, err
	}
	if len(tools) == 0 {
		return nil, nil
	}
	return &tools[0], nil
}

func (r *toolRepositoryImpl) GetToolByServerAndName(serverID, name string) (*entity.Tool, error) {
	var tools []entity.Tool
	err := r.db.
		Where("server_id = ? AND name = ?", serverID, name).
		Limit(2).
		Find(&tools).Error
	if err != nil {
		return nil, err
	}
	return single(tools)
}

func (r *toolRepositoryImpl) ListToolsByServer(serverID string) ([]entity.Tool, error) {
	var tools []entity.Tool
	err := r.db.
		Where("server_id = ?", serverID).
		Order("display_order ASC, name ASC").
		Find(&tools).Error
	if err != nil {
		return nil, err
	}
	return tools, nil
}

func (r *toolRepositoryImpl) ListToolsWithReadme(minLength, limit int) ([]entity.ToolReadme, error) {
	var rows []entity.ToolReadme
	q := r.db.Table("tools").
		Select("tools.id AS tool_id, tools.name AS tool_name, servers.id AS server_id, servers.slug AS slug, markdown_content.content AS content").
		Joins("JOIN servers ON servers.id = tools.server_id").
		Joins("JOIN markdown_content ON markdown_content.server_id = servers.id").
		Where("markdown_content.content_type = ?", entity.ContentTypeReadme).
		Where("LENGTH(markdown_content.content) > ?", minLength).
		Order("servers.slug ASC, tools.name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *toolRepositoryImpl) CreateTool(tool *entity.Tool) error {
	return r.db.Create(tool).Error
}

func (r *toolRepositoryImpl) UpdateTool(tool *entity.Tool) error {
	return r.db.Model(&entity.Tool{}).
		Where("id = ?", tool.Id).
		Updates(map[string]interface{}{
			"display_name":  tool.DisplayName,
			"description":   tool.Description,
			"input_schema":  tool.InputSchema,
			"display_order": tool.DisplayOrder,
			"updated_at":    tool.UpdatedAt,
		}).Error
}

// single 自然键查询结果：0 行 -> (nil, nil)，多行 -> ErrPersistenceConflict
func single[T any](rows []T) (*T, error) {
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	default:
		return nil, repository.ErrPersistenceConflict
	}
}
