package entity

import "time"

// markdown_content.content_type
const (
	ContentTypeAbout  = "about"
	ContentTypeReadme = "readme"
	ContentTypeFAQ    = "faq"
	ContentTypeTools  = "tools"
)

// EmptyInputSchema 没有独立来源时 tools.input_schema 的默认值
const EmptyInputSchema = "{}"

type Server struct {
	Id          string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Slug        string    `gorm:"column:slug;type:varchar(255);not null;uniqueIndex:uniq_servers_slug"`
	Name        string    `gorm:"column:name;type:varchar(255);not null"`
	DisplayName string    `gorm:"column:display_name;type:varchar(255);not null;default:''"`
	ToolsCount  int       `gorm:"column:tools_count;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (Server) TableName() string { return "servers" }

// MarkdownContent 服务的 README 等文档，每个服务每种类型一份
type MarkdownContent struct {
	Id          string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	ServerId    string    `gorm:"column:server_id;type:varchar(36);not null;uniqueIndex:uniq_markdown_server_type"`
	ContentType string    `gorm:"column:content_type;type:varchar(20);not null;uniqueIndex:uniq_markdown_server_type"`
	Content     string    `gorm:"column:content;type:text;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (MarkdownContent) TableName() string { return "markdown_content" }

type Tool struct {
	Id           string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	ServerId     string    `gorm:"column:server_id;type:varchar(36);not null;uniqueIndex:uniq_server_tool_name"`
	Name         string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex:uniq_server_tool_name"`
	DisplayName  string    `gorm:"column:display_name;type:varchar(255);not null"`
	Description  string    `gorm:"column:description;type:text;not null"`
	InputSchema  string    `gorm:"column:input_schema;type:text;not null"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (Tool) TableName() string { return "tools" }

// ToolParameter 除 name 外都可能为空：文档没写的信息不落库，Required 为 nil 表示未说明
type ToolParameter struct {
	Id           string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	ToolId       string    `gorm:"column:tool_id;type:varchar(36);not null;uniqueIndex:uniq_tool_param_name"`
	Name         string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex:uniq_tool_param_name"`
	Type         *string   `gorm:"column:type;type:varchar(64)"`
	Description  *string   `gorm:"column:description;type:text"`
	Required     *bool     `gorm:"column:required"`
	DefaultValue *string   `gorm:"column:default_value;type:text"`
	ExampleValue *string   `gorm:"column:example_value;type:text"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (ToolParameter) TableName() string { return "tool_parameters" }
