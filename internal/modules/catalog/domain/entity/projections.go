package entity

// ServerReadme 服务 + README 正文，工具解析任务的输入
type ServerReadme struct {
	ServerId string `gorm:"column:server_id"`
	Slug     string `gorm:"column:slug"`
	Name     string `gorm:"column:name"`
	Content  string `gorm:"column:content"`
}

// ToolReadme 工具 + 所属服务的 README 正文，参数解析任务的输入
type ToolReadme struct {
	ToolId   string `gorm:"column:tool_id"`
	ToolName string `gorm:"column:tool_name"`
	ServerId string `gorm:"column:server_id"`
	Slug     string `gorm:"column:slug"`
	Content  string `gorm:"column:content"`
}
