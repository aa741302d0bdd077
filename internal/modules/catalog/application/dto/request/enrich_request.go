package request

// EnrichRequest 手动触发解析入库
type EnrichRequest struct {
	Kind   string `json:"kind"`    // tools / params / pipeline，默认 pipeline
	Limit  int    `json:"limit"`   // 最多处理多少个单元，<=0 不限制
	DryRun bool   `json:"dry_run"` // 只解析不落库
}
