package service

import (
	"errors"
	"fmt"
	"time"

	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/domain/repository"
	"MCPCatalog/internal/modules/catalog/infrastructure/extraction"
	"MCPCatalog/pkg/util"
	"MCPCatalog/pkg/zlog"

	"go.uber.org/zap"
)

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeInserted
	outcomeUpdated
)

// unitDelta 一个事务单元内的写入计数
type unitDelta struct {
	toolsInserted   int
	toolsUpdated    int
	toolsUnchanged  int
	paramsInserted  int
	paramsUpdated   int
	paramsUnchanged int
	conflicts       int
}

func (d *unitDelta) tool(o outcome) {
	switch o {
	case outcomeInserted:
		d.toolsInserted++
	case outcomeUpdated:
		d.toolsUpdated++
	default:
		d.toolsUnchanged++
	}
}

func (d *unitDelta) param(o outcome) {
	switch o {
	case outcomeInserted:
		d.paramsInserted++
	case outcomeUpdated:
		d.paramsUpdated++
	default:
		d.paramsUnchanged++
	}
}

func (d *unitDelta) add(o unitDelta) {
	d.toolsInserted += o.toolsInserted
	d.toolsUpdated += o.toolsUpdated
	d.toolsUnchanged += o.toolsUnchanged
	d.paramsInserted += o.paramsInserted
	d.paramsUpdated += o.paramsUpdated
	d.paramsUnchanged += o.paramsUnchanged
	d.conflicts += o.conflicts
}

// upsertTool 按 (server_id, name) 查找，不存在则插入，字段有变化才更新
func upsertTool(repo repository.ToolRepository, serverID string, rec extraction.ToolRecord, order int, now time.Time) (*entity.Tool, outcome, error) {
	existing, err := repo.GetToolByServerAndName(serverID, rec.Name)
	if err != nil {
		return nil, outcomeUnchanged, err
	}

	if existing == nil {
		schema := rec.InputSchema
		if schema == "" {
			schema = entity.EmptyInputSchema
		}
		t := &entity.Tool{
			Id:           util.GenerateUUID(),
			ServerId:     serverID,
			Name:         rec.Name,
			DisplayName:  rec.DisplayName,
			Description:  rec.Description,
			InputSchema:  schema,
			DisplayOrder: order,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repo.CreateTool(t); err != nil {
			return nil, outcomeUnchanged, err
		}
		return t, outcomeInserted, nil
	}

	changed := false
	if existing.DisplayName != rec.DisplayName {
		existing.DisplayName, changed = rec.DisplayName, true
	}
	if existing.Description != rec.Description {
		existing.Description, changed = rec.Description, true
	}
	// 只有代码块里给出了 schema 才覆盖
	if rec.InputSchema != "" && existing.InputSchema != rec.InputSchema {
		existing.InputSchema, changed = rec.InputSchema, true
	}
	if existing.DisplayOrder != order {
		existing.DisplayOrder, changed = order, true
	}
	if !changed {
		return existing, outcomeUnchanged, nil
	}
	existing.UpdatedAt = now
	if err := repo.UpdateTool(existing); err != nil {
		return nil, outcomeUnchanged, err
	}
	return existing, outcomeUpdated, nil
}

// upsertParameter 按 (tool_id, name) 查找；example_value 与其他字段一样随解析结果更新
func upsertParameter(repo repository.ToolParameterRepository, toolID string, rec extraction.ParameterRecord, order int, now time.Time) (outcome, error) {
	existing, err := repo.GetParameterByToolAndName(toolID, rec.Name)
	if err != nil {
		return outcomeUnchanged, err
	}

	if existing == nil {
		p := &entity.ToolParameter{
			Id:           util.GenerateUUID(),
			ToolId:       toolID,
			Name:         rec.Name,
			Type:         nullable(rec.Type),
			Description:  nullable(rec.Description),
			Required:     rec.Required.Ptr(),
			DefaultValue: nullable(rec.DefaultValue),
			ExampleValue: nullable(rec.ExampleValue),
			DisplayOrder: order,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repo.CreateParameter(p); err != nil {
			return outcomeUnchanged, err
		}
		return outcomeInserted, nil
	}

	changed := false
	if !sameString(existing.Type, rec.Type) {
		existing.Type, changed = nullable(rec.Type), true
	}
	if !sameString(existing.Description, rec.Description) {
		existing.Description, changed = nullable(rec.Description), true
	}
	if extraction.RequiredFromPtr(existing.Required) != rec.Required {
		existing.Required, changed = rec.Required.Ptr(), true
	}
	if !sameString(existing.DefaultValue, rec.DefaultValue) {
		existing.DefaultValue, changed = nullable(rec.DefaultValue), true
	}
	if !sameString(existing.ExampleValue, rec.ExampleValue) {
		existing.ExampleValue, changed = nullable(rec.ExampleValue), true
	}
	if existing.DisplayOrder != order {
		existing.DisplayOrder, changed = order, true
	}
	if !changed {
		return outcomeUnchanged, nil
	}
	existing.UpdatedAt = now
	if err := repo.UpdateParameter(existing); err != nil {
		return outcomeUnchanged, err
	}
	return outcomeUpdated, nil
}

// upsertTools 写入一个服务的全部工具，返回 name -> 行；自然键冲突只跳过该工具
func upsertTools(repo repository.ToolRepository, serverID, slug string, tools []extraction.ToolRecord, now time.Time, delta *unitDelta) (map[string]*entity.Tool, error) {
	saved := make(map[string]*entity.Tool, len(tools))
	for i, rec := range tools {
		t, o, err := upsertTool(repo, serverID, rec, i, now)
		if errors.Is(err, repository.ErrPersistenceConflict) {
			delta.conflicts++
			zlog.Error("tool natural key conflict", zap.String("server_slug", slug), zap.String("tool", rec.Name), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("upsert tool %s: %w", rec.Name, err)
		}
		delta.tool(o)
		saved[rec.Name] = t
	}
	return saved, nil
}

// upsertParameters 写入一个工具的全部参数；自然键冲突只跳过该参数
func upsertParameters(repo repository.ToolParameterRepository, toolID, slug, toolName string, params []extraction.ParameterRecord, now time.Time, delta *unitDelta) error {
	for i, rec := range params {
		o, err := upsertParameter(repo, toolID, rec, i, now)
		if errors.Is(err, repository.ErrPersistenceConflict) {
			delta.conflicts++
			zlog.Error("parameter natural key conflict",
				zap.String("server_slug", slug),
				zap.String("tool", toolName),
				zap.String("parameter", rec.Name),
				zap.Error(err))
			continue
		}
		if err != nil {
			return fmt.Errorf("upsert parameter %s.%s: %w", toolName, rec.Name, err)
		}
		delta.param(o)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sameString(stored *string, v string) bool {
	if stored == nil {
		return v == ""
	}
	return *stored == v
}
