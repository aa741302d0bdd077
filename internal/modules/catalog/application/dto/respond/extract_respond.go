package respond

import "MCPCatalog/internal/modules/catalog/infrastructure/extraction"

// ToolPreview 单个工具及其参数的解析结果
type ToolPreview struct {
	extraction.ToolRecord
	Parameters        []extraction.ParameterRecord `json:"parameters"`
	ParameterStrategy string                       `json:"parameter_strategy,omitempty"` // 命中的参数策略
	Anchor            extraction.AnchorKind        `json:"anchor,omitempty"`             // 上下文窗口锚点类型，为空表示正文中找不到该工具
	LowConfidence     bool                         `json:"low_confidence"`               // 窗口内没有参数标记
}

// ToolsPreviewRespond README 工具解析预览
type ToolsPreviewRespond struct {
	SectionFound    bool          `json:"section_found"`    // 是否找到 Tools 章节
	Strategy        string        `json:"strategy"`         // 命中的工具策略，为空表示未识别到工具
	MalformedBlocks int           `json:"malformed_blocks"` // 解析失败被跳过的 JSON 代码块数
	Tools           []ToolPreview `json:"tools"`
	EngineVersion   string        `json:"engine_version"`
	Cached          bool          `json:"cached"`
}

// ParametersPreviewRespond 单个工具的参数解析预览
type ParametersPreviewRespond struct {
	ToolName        string                       `json:"tool_name"`
	Found           bool                         `json:"found"` // README 中是否找到该工具
	Anchor          extraction.AnchorKind        `json:"anchor,omitempty"`
	WindowStart     int                          `json:"window_start"`
	WindowEnd       int                          `json:"window_end"`
	LowConfidence   bool                         `json:"low_confidence"`
	Strategy        string                       `json:"strategy"`
	MalformedBlocks int                          `json:"malformed_blocks"`
	Parameters      []extraction.ParameterRecord `json:"parameters"`
	EngineVersion   string                       `json:"engine_version"`
	Cached          bool                         `json:"cached"`
}
