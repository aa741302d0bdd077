package extraction

import "encoding/json"

// Required 参数是否必填的三态值。文档没有写明时必须保持 Unspecified，不能猜
type Required int8

const (
	RequiredUnspecified Required = iota
	RequiredYes
	RequiredNo
)

// RequiredFromBool 把 true/false 转成对应的 Required
func RequiredFromBool(b bool) Required {
	if b {
		return RequiredYes
	}
	return RequiredNo
}

// RequiredFromPtr 数据库中的可空布尔值 -> Required
func RequiredFromPtr(b *bool) Required {
	if b == nil {
		return RequiredUnspecified
	}
	return RequiredFromBool(*b)
}

// Ptr Required -> 可空布尔值，Unspecified 返回 nil
func (r Required) Ptr() *bool {
	switch r {
	case RequiredYes:
		v := true
		return &v
	case RequiredNo:
		v := false
		return &v
	default:
		return nil
	}
}

func (r Required) String() string {
	switch r {
	case RequiredYes:
		return "required"
	case RequiredNo:
		return "optional"
	default:
		return "unspecified"
	}
}

func (r Required) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Ptr())
}

func (r *Required) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*r = RequiredFromPtr(b)
	return nil
}

// ToolRecord 从 README 中解析出的一个工具
type ToolRecord struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	InputSchema string `json:"input_schema,omitempty"`
}

// ParameterRecord 工具的一个参数；空字符串表示文档中没有该信息
type ParameterRecord struct {
	Name         string   `json:"name"`
	Type         string   `json:"type,omitempty"`
	Description  string   `json:"description,omitempty"`
	Required     Required `json:"required"`
	DefaultValue string   `json:"default_value,omitempty"`
	ExampleValue string   `json:"example_value,omitempty"`
}

// 工具解析策略名称，按优先级排列
const (
	StrategyBoldHeading     = "bold_heading"
	StrategyNumberedHeading = "numbered_heading"
	StrategyBulletBacktick  = "bullet_backtick"
	StrategyTable           = "table"
	StrategyBulletBold      = "bullet_bold"
	StrategyBareHeading     = "bare_heading"
	StrategyCodeBlock       = "code_block"
	StrategyGlobalHeading   = "global_heading"
)

// 参数解析策略名称，按优先级排列
const (
	StrategyDetailedList  = "detailed_list"
	StrategySimpleList    = "simple_list"
	StrategyArgumentsList = "arguments_list"
	StrategyJSONExample   = "json_example"
)

// ToolResult ExtractTools 的结果；Strategy 为空表示没有任何策略命中
type ToolResult struct {
	Tools           []ToolRecord `json:"tools"`
	Strategy        string       `json:"strategy,omitempty"`
	SectionFound    bool         `json:"section_found"`
	MalformedBlocks int          `json:"malformed_blocks,omitempty"`
}

// ParameterResult ExtractParameters 的结果
type ParameterResult struct {
	Parameters      []ParameterRecord `json:"parameters"`
	Strategy        string            `json:"strategy,omitempty"`
	MalformedBlocks int               `json:"malformed_blocks,omitempty"`
}

// AnchorKind 上下文窗口定位到工具名所用的锚点类型
type AnchorKind string

const (
	AnchorHeadingExact    AnchorKind = "heading_exact"
	AnchorHeadingContains AnchorKind = "heading_contains"
	AnchorBold            AnchorKind = "bold"
	AnchorBacktick        AnchorKind = "backtick"
)

// ContextWindow 某个工具附近的一段 README 文本，作为参数解析的输入
type ContextWindow struct {
	Text   string     `json:"text"`
	Anchor AnchorKind `json:"anchor"`
	Start  int        `json:"start"`
	End    int        `json:"end"`
	// LowConfidence 窗口内找不到任何参数标记，需要人工复核
	LowConfidence bool `json:"low_confidence"`
}

// EngineVersion 解析规则有变化时递增，预览缓存的 key 中包含该值
const EngineVersion = "3"
