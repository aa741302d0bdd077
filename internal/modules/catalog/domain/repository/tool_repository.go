package repository

import "MCPCatalog/internal/modules/catalog/domain/entity"

type ToolRepository interface {
	GetToolByID(id string) (*entity.Tool, error)
	// GetToolByServerAndName 不存在返回 (nil, nil)，多行返回 ErrPersistenceConflict
	GetToolByServerAndName(serverID, name string) (*entity.Tool, error)
	ListToolsByServer(serverID string) ([]entity.Tool, error)
	// ListToolsWithReadme 工具及其服务的 README，按 slug、工具名排序
	ListToolsWithReadme(minLength, limit int) ([]entity.ToolReadme, error)
	CreateTool(tool *entity.Tool) error
	UpdateTool(tool *entity.Tool) error
}

type ToolParameterRepository interface {
	// GetParameterByToolAndName 不存在返回 (nil, nil)，多行返回 ErrPersistenceConflict
	GetParameterByToolAndName(toolID, name string) (*entity.ToolParameter, error)
	ListParametersByTool(toolID string) ([]entity.ToolParameter, error)
	CreateParameter(param *entity.ToolParameter) error
	UpdateParameter(param *entity.ToolParameter) error
}
