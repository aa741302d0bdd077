package extraction

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

type parameterStrategy struct {
	name    string
	extract func(window string) ([]ParameterRecord, int)
}

var (
	detailedLineRe  = regexp.MustCompile(`^\s*- ` + bt + `([^` + bt + `]+)` + bt + `[ \t]*\(([^)]+)\):?[ \t]*(.+)$`)
	simpleLineRe    = regexp.MustCompile(`^\s*- ` + bt + `([^` + bt + `]+)` + bt + `[ \t]*[-–—][ \t]*(.*)$`)
	argumentsLineRe = regexp.MustCompile(`^\s*- ` + bt + `([^` + bt + `]+)` + bt + `:[ \t]*(.+)$`)

	jsonExampleRe = regexp.MustCompile("(?s)```json[ \\t]*\\n(\\{.*?\\})[ \\t]*\\n```")

	infoDefaultRe = regexp.MustCompile(`(?i)default:\s*(.+)`)
)

// 描述中的默认值写法；数字里的小数点不算句子结尾
var defaultPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[Dd]efaults? to (.+?)(?:[.,](?:\s|$)|$)`),
	regexp.MustCompile(`[Dd]efault is (.+?)(?:[.,](?:\s|$)|$)`),
	regexp.MustCompile(`[Dd]efault:?\s+(.+?)(?:[.,](?:\s|$)|$)`),
}

var parameterStrategies = []parameterStrategy{
	{StrategyDetailedList, detailedListParameters},
	{StrategySimpleList, simpleListParameters},
	{StrategyArgumentsList, argumentsListParameters},
	{StrategyJSONExample, jsonExampleParameters},
}

// ExtractParameters 在上下文窗口内依次尝试各参数策略，第一个有结果的策略胜出
func ExtractParameters(window string) ParameterResult {
	window = normalizeNewlines(window)
	res := ParameterResult{Parameters: []ParameterRecord{}}
	for _, s := range parameterStrategies {
		params, malformed := s.extract(window)
		res.MalformedBlocks += malformed
		if len(params) > 0 {
			res.Parameters, res.Strategy = dedupeParameters(params), s.name
			return res
		}
	}
	return res
}

// ExtractToolParameters 定位工具的上下文窗口并解析参数；定位失败时 ok 为 false
func ExtractToolParameters(doc, toolName string) (ContextWindow, ParameterResult, bool) {
	w, ok := BuildContextWindow(doc, toolName)
	if !ok {
		return ContextWindow{}, ParameterResult{Parameters: []ParameterRecord{}}, false
	}
	return w, ExtractParameters(w.Text), true
}

// - Parameters:
//   - `query` (string, optional): Search text. Defaults to all.
func detailedListParameters(window string) ([]ParameterRecord, int) {
	b, ok := firstBlock(window, labelDetailed)
	if !ok {
		return nil, 0
	}

	var params []ParameterRecord
	for _, line := range matchLines(detailedLineRe, b.bullets) {
		p := ParameterRecord{
			Name:        strings.TrimSpace(line[1]),
			Description: strings.TrimSpace(line[3]),
			Required:    RequiredYes,
		}
		for _, part := range strings.Split(line[2], ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			switch {
			case strings.Contains(part, "optional"):
				p.Required = RequiredNo
			case part == "required" || part == "":
			case p.Type == "":
				p.Type = NormalizeType(part)
			}
		}
		p.DefaultValue = defaultFromDescription(p.Description)
		params = append(params, p)
	}
	return params, 0
}

// **Parameters:**
// - `limit` - Max results (optional, default: 10)
func simpleListParameters(window string) ([]ParameterRecord, int) {
	b, ok := firstBlock(window, labelSimple)
	if !ok {
		return nil, 0
	}

	var params []ParameterRecord
	for _, line := range matchLines(simpleLineRe, b.bullets) {
		desc, info := splitTrailingInfo(strings.TrimSpace(line[2]))
		p := ParameterRecord{
			Name:        strings.TrimSpace(line[1]),
			Description: desc,
		}
		lower := strings.ToLower(info)
		switch {
		case strings.Contains(lower, "required"):
			p.Required = RequiredYes
		case strings.Contains(lower, "optional"):
			p.Required = RequiredNo
		}
		if d := infoDefaultRe.FindStringSubmatch(info); d != nil {
			p.DefaultValue = strings.TrimSpace(d[1])
		}
		params = append(params, p)
	}
	return params, 0
}

// splitTrailingInfo 拆出行尾括号里的 required/optional/default 说明；普通括号保留在描述中
func splitTrailingInfo(rest string) (desc, info string) {
	if !strings.HasSuffix(rest, ")") {
		return rest, ""
	}
	open := strings.LastIndex(rest, "(")
	if open < 0 {
		return rest, ""
	}
	candidate := rest[open+1 : len(rest)-1]
	lower := strings.ToLower(candidate)
	if !strings.Contains(lower, "required") && !strings.Contains(lower, "optional") && !strings.Contains(lower, "default") {
		return rest, ""
	}
	return strings.TrimSpace(rest[:open]), strings.TrimSpace(candidate)
}

// **Arguments:**
// - `id`: The identifier
func argumentsListParameters(window string) ([]ParameterRecord, int) {
	b, ok := firstBlock(window, labelArguments)
	if !ok {
		return nil, 0
	}

	var params []ParameterRecord
	for _, line := range matchLines(argumentsLineRe, b.bullets) {
		params = append(params, ParameterRecord{
			Name:        strings.TrimSpace(line[1]),
			Description: strings.TrimSpace(line[2]),
		})
	}
	return params, 0
}

// ```json {"arguments": {...}} ```，按示例值推断类型，不推断是否必填
func jsonExampleParameters(window string) ([]ParameterRecord, int) {
	malformed := 0
	for _, m := range jsonExampleRe.FindAllStringSubmatch(window, -1) {
		if !gjson.Valid(m[1]) {
			malformed++
			continue
		}
		args := gjson.Get(m[1], "arguments")
		if !args.IsObject() {
			continue
		}

		var params []ParameterRecord
		args.ForEach(func(key, value gjson.Result) bool {
			params = append(params, ParameterRecord{
				Name:         key.String(),
				Type:         inferType(value),
				ExampleValue: exampleValue(value),
			})
			return true
		})
		if len(params) > 0 {
			return params, malformed
		}
	}
	return nil, malformed
}

func inferType(v gjson.Result) string {
	switch v.Type {
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Number:
		if strings.ContainsAny(v.Raw, ".eE") {
			return "number"
		}
		return "integer"
	case gjson.String:
		return "string"
	case gjson.Null:
		return "null"
	default:
		if v.IsArray() {
			return "array"
		}
		return "object"
	}
}

func exampleValue(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	return compactJSON(v.Raw)
}

func matchLines(re *regexp.Regexp, lines []string) [][]string {
	var out [][]string
	for _, l := range lines {
		if m := re.FindStringSubmatch(strings.TrimRight(l, " \t\r")); m != nil {
			out = append(out, m)
		}
	}
	return out
}

func defaultFromDescription(desc string) string {
	for _, re := range defaultPatterns {
		if m := re.FindStringSubmatch(desc); m != nil {
			return strings.Trim(strings.TrimSpace(m[1]), "`")
		}
	}
	return ""
}

func dedupeParameters(params []ParameterRecord) []ParameterRecord {
	seen := make(map[string]struct{}, len(params))
	out := params[:0]
	for _, p := range params {
		if p.Name == "" {
			continue
		}
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	return out
}
