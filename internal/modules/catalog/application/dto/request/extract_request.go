package request

// ExtractToolsRequest 对一段 README 预览工具解析结果
type ExtractToolsRequest struct {
	Readme string `json:"readme"` // README 原文（markdown）
}

// ExtractParametersRequest 预览某个工具的参数解析结果
type ExtractParametersRequest struct {
	Readme   string `json:"readme" binding:"required"`    // README 原文
	ToolName string `json:"tool_name" binding:"required"` // 工具名，如 firecrawl_scrape
}
