package overrides

import (
	"fmt"
	"strings"

	"MCPCatalog/internal/modules/catalog/infrastructure/extraction"

	"github.com/BurntSushi/toml"
)

// ToolOverride 人工修正某个服务的工具；Skip 用于剔除误识别的工具
type ToolOverride struct {
	Server      string  `toml:"server"`
	Name        string  `toml:"name"`
	DisplayName *string `toml:"display_name"`
	Description *string `toml:"description"`
	Skip        bool    `toml:"skip"`
}

// ParameterOverride 人工修正或补充某个工具的参数；未填写的字段保持解析结果
type ParameterOverride struct {
	Server      string  `toml:"server"`
	Tool        string  `toml:"tool"`
	Name        string  `toml:"name"`
	Type        *string `toml:"type"`
	Description *string `toml:"description"`
	Required    *bool   `toml:"required"`
	Default     *string `toml:"default"`
	Example     *string `toml:"example"`
}

type Set struct {
	Tools      []ToolOverride      `toml:"tool"`
	Parameters []ParameterOverride `toml:"parameter"`

	tools  map[string]ToolOverride
	params map[string][]ParameterOverride
}

// Load 读取覆盖表，path 为空时返回空集合
func Load(path string) (*Set, error) {
	s := &Set{}
	if strings.TrimSpace(path) == "" {
		s.index()
		return s, nil
	}
	if _, err := toml.DecodeFile(path, s); err != nil {
		return nil, fmt.Errorf("load overrides %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	s.index()
	return s, nil
}

func Decode(data string) (*Set, error) {
	s := &Set{}
	if _, err := toml.Decode(data, s); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	s.index()
	return s, nil
}

func (s *Set) validate() error {
	for i, t := range s.Tools {
		if t.Server == "" || t.Name == "" {
			return fmt.Errorf("tool override #%d: server and name are required", i+1)
		}
	}
	for i, p := range s.Parameters {
		if p.Server == "" || p.Tool == "" || p.Name == "" {
			return fmt.Errorf("parameter override #%d: server, tool and name are required", i+1)
		}
	}
	return nil
}

func (s *Set) index() {
	s.tools = make(map[string]ToolOverride, len(s.Tools))
	for _, t := range s.Tools {
		s.tools[toolKey(t.Server, t.Name)] = t
	}
	s.params = make(map[string][]ParameterOverride)
	for _, p := range s.Parameters {
		k := toolKey(p.Server, p.Tool)
		s.params[k] = append(s.params[k], p)
	}
}

func toolKey(server, tool string) string {
	return server + "\x00" + tool
}

// Len 覆盖条目总数
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Tools) + len(s.Parameters)
}

// ApplyTools 对某个服务解析出的工具应用覆盖，返回新列表和生效的条目数
func (s *Set) ApplyTools(server string, tools []extraction.ToolRecord) ([]extraction.ToolRecord, int) {
	if s == nil || len(s.tools) == 0 {
		return tools, 0
	}

	applied := 0
	out := make([]extraction.ToolRecord, 0, len(tools))
	for _, t := range tools {
		o, ok := s.tools[toolKey(server, t.Name)]
		if !ok {
			out = append(out, t)
			continue
		}
		applied++
		if o.Skip {
			continue
		}
		if o.DisplayName != nil {
			t.DisplayName = *o.DisplayName
		}
		if o.Description != nil {
			t.Description = *o.Description
		}
		out = append(out, t)
	}
	return out, applied
}

// ApplyParameters 修补同名参数，解析漏掉的参数追加到末尾
func (s *Set) ApplyParameters(server, tool string, params []extraction.ParameterRecord) ([]extraction.ParameterRecord, int) {
	if s == nil {
		return params, 0
	}
	list := s.params[toolKey(server, tool)]
	if len(list) == 0 {
		return params, 0
	}

	out := make([]extraction.ParameterRecord, len(params), len(params)+len(list))
	copy(out, params)
	for _, o := range list {
		idx := -1
		for i := range out {
			if out[i].Name == o.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			out = append(out, extraction.ParameterRecord{Name: o.Name})
			idx = len(out) - 1
		}
		patch(&out[idx], o)
	}
	return out, len(list)
}

func patch(p *extraction.ParameterRecord, o ParameterOverride) {
	if o.Type != nil {
		p.Type = extraction.NormalizeType(*o.Type)
	}
	if o.Description != nil {
		p.Description = *o.Description
	}
	if o.Required != nil {
		p.Required = extraction.RequiredFromBool(*o.Required)
	}
	if o.Default != nil {
		p.DefaultValue = *o.Default
	}
	if o.Example != nil {
		p.ExampleValue = *o.Example
	}
}
