package respond

import "time"

type ServerItem struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	ToolsCount  int       `json:"tools_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ServerListRespond struct {
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Servers  []ServerItem `json:"servers"`
}

type ToolItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description"`
	InputSchema  string `json:"input_schema"`
	DisplayOrder int    `json:"display_order"`
}

type ServerToolsRespond struct {
	Server ServerItem `json:"server"`
	Tools  []ToolItem `json:"tools"`
}

// ParameterItem 可空字段用指针，未知信息序列化为 null
type ParameterItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         *string `json:"type"`
	Description  *string `json:"description"`
	Required     *bool   `json:"required"`
	DefaultValue *string `json:"default_value"`
	ExampleValue *string `json:"example_value"`
}

type ToolParametersRespond struct {
	Tool       ToolItem        `json:"tool"`
	Parameters []ParameterItem `json:"parameters"`
}

type RunItem struct {
	ID              int64     `json:"id"`
	Kind            string    `json:"kind"`
	Trigger         string    `json:"trigger"`
	Processed       int       `json:"processed"`
	Matched         int       `json:"matched"`
	ToolsInserted   int       `json:"tools_inserted"`
	ToolsUpdated    int       `json:"tools_updated"`
	ParamsInserted  int       `json:"params_inserted"`
	ParamsUpdated   int       `json:"params_updated"`
	Errors          int       `json:"errors"`
	LowConfidence   int       `json:"low_confidence"`
	MalformedBlocks int       `json:"malformed_blocks"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}
