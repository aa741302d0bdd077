package persistence

import (
	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/domain/repository"

	"gorm.io/gorm"
)

type toolParameterRepositoryImpl struct {
	db *gorm.DB
}

func NewToolParameterRepository(db *gorm.DB) repository.ToolParameterRepository {
	return &toolParameterRepositoryImpl{db: db}
}

func (r *toolParameterRepositoryImpl) GetParameterByToolAndName(toolID, name string) (*entity.ToolParameter, error) {
	var params []entity.ToolParameter
	err := r.db.
		Where("tool_id = ? AND name = ?", toolID, name).
		Limit(2).
		Find(&params).Error
	if err != nil {
		return nil, err
	}
	return single(params)
}

func (r *toolParameterRepositoryImpl) ListParametersByTool(toolID string) ([]entity.ToolParameter, error) {
	var params []entity.ToolParameter
	err := r.db.
		Where("tool_id = ?", toolID).
		Order("display_order ASC, name ASC").
		Find(&params).Error
	if err != nil {
		return nil, err
	}
	return params, nil
}

func (r *toolParameterRepositoryImpl) CreateParameter(param *entity.ToolParameter) error {
	return r.db.Create(param).Error
}

// UpdateParameter 显式写入 NULL，Updates(struct) 会跳过 nil 字段
func (r *toolParameterRepositoryImpl) UpdateParameter(param *entity.ToolParameter) error {
	return r.db.Model(&entity.ToolParameter{}).
		Where("id = ?", param.Id).
		Updates(map[string]interface{}{
			"type":          param.Type,
			"description":   param.Description,
			"required":      param.Required,
			"default_value": param.DefaultValue,
			"example_value": param.ExampleValue,
			"display_order": param.DisplayOrder,
			"updated_at":    param.UpdatedAt,
		}).Error
}
