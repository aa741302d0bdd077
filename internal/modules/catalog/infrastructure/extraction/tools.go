package extraction

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

type toolStrategy struct {
	name string
	// suppress 先去掉参数说明块再匹配
	suppress bool
	extract  func(section string) []ToolRecord
}

var (
	boldHeadingRe     = regexp.MustCompile(`(?m)^###[ \t]*\*\*([A-Za-z0-9_-]+)\*\*[ \t]*$`)
	boldHeadingStop   = regexp.MustCompile(`(?m)^###[ \t]*\*\*`)
	numberedHeadingRe = regexp.MustCompile(`(?m)^###[ \t]*\d+\.[ \t]*.*?\(` + bt + `([A-Za-z0-9_-]+)` + bt + `\)[ \t]*$`)
	numberedStop      = regexp.MustCompile(`(?m)^###[ \t]*\d+\.`)
	bulletBacktickRe  = regexp.MustCompile(`(?m)^[ \t]*-[ \t]*` + bt + `([A-Za-z0-9_-]+)` + bt + `[ \t]*[-–—][ \t]*([^\n]+)`)
	tableRowRe        = regexp.MustCompile(`\|[ \t]*` + bt + `([A-Za-z0-9_-]+)` + bt + `[ \t]*\|[ \t]*([^|\n]+?)[ \t]*\|`)
	bulletBoldRe      = regexp.MustCompile(`(?m)^[ \t]*-[ \t]*\*\*([A-Za-z0-9_-]+)\*\*:?(?:\s*([^\s-][^\n]*))?`)
	bareHeadingRe     = regexp.MustCompile(`(?m)^###[ \t]+(.+?)[ \t]*$`)
	bareHeadingStop   = regexp.MustCompile(`(?m)^##`)
	toolCodeBlockRe   = regexp.MustCompile("(?s)```(?:json|javascript|typescript)?[ \\t]*\\n(.*?)```")
	leadingBulletRe   = regexp.MustCompile(`^[-*+][ \t]+`)
)

// 工具章节内的解析策略，按优先级排列，第一个有结果的策略胜出
var toolStrategies = []toolStrategy{
	{name: StrategyBoldHeading, extract: headingBlockTools(boldHeadingRe, boldHeadingStop)},
	{name: StrategyNumberedHeading, extract: headingBlockTools(numberedHeadingRe, numberedStop)},
	{name: StrategyBulletBacktick, suppress: true, extract: inlineTools(bulletBacktickRe)},
	{name: StrategyTable, suppress: true, extract: inlineTools(tableRowRe)},
	{name: StrategyBulletBold, suppress: true, extract: inlineTools(bulletBoldRe)},
	{name: StrategyBareHeading, extract: bareHeadingTools},
}

// ExtractTools 从整篇 README 中解析工具列表。
// 先在工具章节内依次尝试各策略，都失败时再对全文做代码块和三级标题兜底
func ExtractTools(doc string) ToolResult {
	doc = normalizeNewlines(doc)
	res := ToolResult{Tools: []ToolRecord{}}

	if section, ok := IsolateToolsSection(doc); ok {
		res.SectionFound = true
		if tools, strategy := ExtractSectionTools(section); len(tools) > 0 {
			res.Tools, res.Strategy = tools, strategy
			return res
		}
	}

	tools, malformed := codeBlockTools(doc)
	res.MalformedBlocks += malformed
	if len(tools) > 0 {
		res.Tools, res.Strategy = dedupeTools(tools), StrategyCodeBlock
		return res
	}

	if tools = bareHeadingTools(doc); len(tools) > 0 {
		res.Tools, res.Strategy = dedupeTools(tools), StrategyGlobalHeading
	}
	return res
}

// ExtractSectionTools 对已经切出来的工具章节依次尝试各策略
func ExtractSectionTools(section string) ([]ToolRecord, string) {
	section = normalizeNewlines(section)
	suppressed := SuppressParameterBlocks(section)
	for _, s := range toolStrategies {
		text := section
		if s.suppress {
			text = suppressed
		}
		if tools := s.extract(text); len(tools) > 0 {
			return dedupeTools(tools), s.name
		}
	}
	return nil, ""
}

func newTool(name, description string) ToolRecord {
	return ToolRecord{
		Name:        name,
		DisplayName: DisplayName(name),
		Description: description,
	}
}

// headingBlockTools 标题行给出工具名，正文第一行作为描述
func headingBlockTools(head, stop *regexp.Regexp) func(string) []ToolRecord {
	return func(section string) []ToolRecord {
		var tools []ToolRecord
		for _, b := range splitBlocks(section, head, stop) {
			tools = append(tools, newTool(b.groups[0], cleanDescription(b.body)))
		}
		return tools
	}
}

// inlineTools 同一行内同时给出工具名和描述
func inlineTools(re *regexp.Regexp) func(string) []ToolRecord {
	return func(section string) []ToolRecord {
		var tools []ToolRecord
		for _, m := range re.FindAllStringSubmatch(section, -1) {
			desc := leadingBulletRe.ReplaceAllString(strings.TrimSpace(m[2]), "")
			tools = append(tools, newTool(m[1], cleanDescription(desc)))
		}
		return tools
	}
}

// bareHeadingTools "### a_tool / b_tool" 形式；没有描述或名字不像工具标识符的标题都丢弃
func bareHeadingTools(text string) []ToolRecord {
	var tools []ToolRecord
	for _, b := range splitBlocks(text, bareHeadingRe, bareHeadingStop) {
		desc := cleanDescription(b.body)
		if desc == "" {
			continue
		}
		for _, raw := range strings.Split(b.groups[0], "/") {
			name := strings.Trim(strings.TrimSpace(raw), "`*")
			if !looksLikeToolName(name) {
				continue
			}
			tools = append(tools, newTool(name, desc))
		}
	}
	return tools
}

// codeBlockTools 从 ```json 代码块中读取 {"tools":[...]} 或单个 {"name":...} 定义
func codeBlockTools(doc string) ([]ToolRecord, int) {
	var (
		tools     []ToolRecord
		malformed int
	)
	for _, m := range toolCodeBlockRe.FindAllStringSubmatch(doc, -1) {
		code := strings.TrimSpace(m[1])
		if !strings.HasPrefix(code, "{") {
			continue
		}
		if !gjson.Valid(code) {
			malformed++
			continue
		}

		root := gjson.Parse(code)
		if list := root.Get("tools"); list.IsArray() {
			list.ForEach(func(_, item gjson.Result) bool {
				if t, ok := toolFromJSON(item); ok {
					tools = append(tools, t)
				}
				return true
			})
			continue
		}
		if t, ok := toolFromJSON(root); ok {
			tools = append(tools, t)
		}
	}
	return tools, malformed
}

func toolFromJSON(v gjson.Result) (ToolRecord, bool) {
	if !v.IsObject() {
		return ToolRecord{}, false
	}
	name := v.Get("name")
	// package.json 之类的 {"name": "@scope/pkg"} 不是工具
	if name.Type != gjson.String || !identifierRe.MatchString(name.Str) {
		return ToolRecord{}, false
	}

	t := newTool(name.Str, strings.TrimSpace(v.Get("description").String()))
	if dn := strings.TrimSpace(v.Get("display_name").String()); dn != "" {
		t.DisplayName = dn
	}
	schema := v.Get("input_schema")
	if !schema.Exists() {
		schema = v.Get("inputSchema")
	}
	if schema.IsObject() {
		t.InputSchema = compactJSON(schema.Raw)
	}
	return t, true
}

// dedupeTools 同名工具只保留第一次出现的
func dedupeTools(tools []ToolRecord) []ToolRecord {
	seen := make(map[string]struct{}, len(tools))
	out := tools[:0]
	for _, t := range tools {
		if _, ok := seen[t.Name]; ok {
			continue
		}
		seen[t.Name] = struct{}{}
		out = append(out, t)
	}
	return out
}
