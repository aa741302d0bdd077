package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/infrastructure/extraction"
)

// targetSuccessRate 低于该命中率时在汇总日志中提示
const targetSuccessRate = 80.0

type EnrichOptions struct {
	Limit   int    // 最多处理多少个单元，<=0 不限制
	DryRun  bool   // 解析结果与正式运行一致，但所有写入回滚
	Trigger string // cli / http / cron
}

// EnrichStats 批量任务汇总
type EnrichStats struct {
	Kind             string         `json:"kind"`
	Trigger          string         `json:"trigger"`
	DryRun           bool           `json:"dry_run"`
	Processed        int            `json:"processed"`
	Matched          int            `json:"matched"`
	NoSection        int            `json:"no_section"`
	ToolsInserted    int            `json:"tools_inserted"`
	ToolsUpdated     int            `json:"tools_updated"`
	ToolsUnchanged   int            `json:"tools_unchanged"`
	ParamsInserted   int            `json:"params_inserted"`
	ParamsUpdated    int            `json:"params_updated"`
	ParamsUnchanged  int            `json:"params_unchanged"`
	Errors           int            `json:"errors"`
	MissingAnchor    int            `json:"missing_anchor"`
	LowConfidence    int            `json:"low_confidence"`
	MalformedBlocks  int            `json:"malformed_blocks"`
	OverridesApplied int            `json:"overrides_applied"`
	Strategies       map[string]int `json:"strategies"`
	StartedAt        time.Time      `json:"started_at"`
	FinishedAt       time.Time      `json:"finished_at"`
}

// SuccessRate 命中单元占已处理单元的百分比
func (s EnrichStats) SuccessRate() float64 {
	if s.Processed == 0 {
		return 0
	}
	return float64(s.Matched) * 100 / float64(s.Processed)
}

func (s *EnrichStats) noteStrategy(prefix, strategy string) {
	if strategy == "" {
		return
	}
	s.Strategies[prefix+":"+strategy]++
}

func (s *EnrichStats) noteParams(tp toolParams) {
	s.MalformedBlocks += tp.result.MalformedBlocks
	s.OverridesApplied += tp.applied
	if !tp.found {
		s.MissingAnchor++
		return
	}
	if tp.window.LowConfidence {
		s.LowConfidence++
	}
	s.noteStrategy("param", tp.result.Strategy)
}

func (s *EnrichStats) apply(d unitDelta) {
	s.ToolsInserted += d.toolsInserted
	s.ToolsUpdated += d.toolsUpdated
	s.ToolsUnchanged += d.toolsUnchanged
	s.ParamsInserted += d.paramsInserted
	s.ParamsUpdated += d.paramsUpdated
	s.ParamsUnchanged += d.paramsUnchanged
	s.Errors += d.conflicts
}

func (s EnrichStats) toRun() *entity.EnrichmentRun {
	return &entity.EnrichmentRun{
		Kind:            s.Kind,
		Trigger:         s.Trigger,
		Processed:       s.Processed,
		Matched:         s.Matched,
		ToolsInserted:   s.ToolsInserted,
		ToolsUpdated:    s.ToolsUpdated,
		ToolsUnchanged:  s.ToolsUnchanged,
		ParamsInserted:  s.ParamsInserted,
		ParamsUpdated:   s.ParamsUpdated,
		ParamsUnchanged: s.ParamsUnchanged,
		Errors:          s.Errors,
		LowConfidence:   s.LowConfidence,
		MalformedBlocks: s.MalformedBlocks,
		StartedAt:       s.StartedAt,
		FinishedAt:      s.FinishedAt,
	}
}

// ExtractedTool 一条解析结果，dry-run 与正式运行可直接对比
type ExtractedTool struct {
	Server string `json:"server"`
	extraction.ToolRecord
	ToolStrategy      string                       `json:"tool_strategy,omitempty"`
	Parameters        []extraction.ParameterRecord `json:"parameters,omitempty"`
	ParameterStrategy string                       `json:"parameter_strategy,omitempty"`
	Anchor            extraction.AnchorKind        `json:"anchor,omitempty"`
	LowConfidence     bool                         `json:"low_confidence,omitempty"`
}

type EnrichReport struct {
	Stats   EnrichStats     `json:"stats"`
	Records []ExtractedTool `json:"records"`
}

func newReport(kind string, opts EnrichOptions) *EnrichReport {
	trigger := opts.Trigger
	if trigger == "" {
		trigger = entity.TriggerCLI
	}
	return &EnrichReport{
		Stats: EnrichStats{
			Kind:       kind,
			Trigger:    trigger,
			DryRun:     opts.DryRun,
			Strategies: make(map[string]int),
			StartedAt:  timeNow(),
		},
		Records: []ExtractedTool{},
	}
}

// WriteJSON 把报告写到文件（--report）
func (r *EnrichReport) WriteJSON(path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}

var timeNow = time.Now
