package entity

import "time"

// 任务类型
const (
	RunKindTools    = "tools"
	RunKindParams   = "params"
	RunKindPipeline = "pipeline"
)

// 触发来源
const (
	TriggerCLI  = "cli"
	TriggerHTTP = "http"
	TriggerCron = "cron"
)

// EnrichmentRun 一次已提交的解析入库任务的统计，dry-run 不记录
type EnrichmentRun struct {
	Id              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Kind            string    `gorm:"column:kind;type:varchar(20);not null;index:idx_enrichment_run_kind"`
	Trigger         string    `gorm:"column:trigger_source;type:varchar(20);not null"`
	Processed       int       `gorm:"column:processed;not null;default:0"`
	Matched         int       `gorm:"column:matched;not null;default:0"`
	ToolsInserted   int       `gorm:"column:tools_inserted;not null;default:0"`
	ToolsUpdated    int       `gorm:"column:tools_updated;not null;default:0"`
	ToolsUnchanged  int       `gorm:"column:tools_unchanged;not null;default:0"`
	ParamsInserted  int       `gorm:"column:params_inserted;not null;default:0"`
	ParamsUpdated   int       `gorm:"column:params_updated;not null;default:0"`
	ParamsUnchanged int       `gorm:"column:params_unchanged;not null;default:0"`
	Errors          int       `gorm:"column:errors;not null;default:0"`
	LowConfidence   int       `gorm:"column:low_confidence;not null;default:0"`
	MalformedBlocks int       `gorm:"column:malformed_blocks;not null;default:0"`
	StartedAt       time.Time `gorm:"column:started_at;not null"`
	FinishedAt      time.Time `gorm:"column:finished_at;not null"`
}

func (EnrichmentRun) TableName() string { return "enrichment_runs" }
