package extraction

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const bt = "`"

var (
	boldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
	codeRe   = regexp.MustCompile(bt + "([^" + bt + "]+)" + bt)

	identifierRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	displayReplacer = strings.NewReplacer("_", " ", "-", " ")
	newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

var typeSynonyms = map[string]string{
	"str":    "string",
	"text":   "string",
	"int":    "integer",
	"num":    "number",
	"float":  "number",
	"double": "number",
	"bool":   "boolean",
	"arr":    "array",
	"list":   "array",
	"obj":    "object",
	"dict":   "object",
}

// DisplayName firecrawl_scrape -> "Firecrawl Scrape"
func DisplayName(name string) string {
	words := strings.Fields(displayReplacer.Replace(name))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// capitalize 首字母大写，其余小写
func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

// MaxTypeLength 与 tool_parameters.type 列宽一致
const MaxTypeLength = 64

// NormalizeType 把常见的类型写法折叠成 JSON Schema 类型名；
// 不认识的写法原样保留，超过列宽的按字符截断
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if mapped, ok := typeSynonyms[t]; ok {
		return mapped
	}
	if utf8.RuneCountInString(t) > MaxTypeLength {
		t = strings.TrimSpace(string([]rune(t)[:MaxTypeLength]))
	}
	return t
}

// cleanDescription 去掉 markdown 强调/代码标记，只保留第一行非空文本
func cleanDescription(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = codeRe.ReplaceAllString(text, "$1")

	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			return l
		}
	}
	return strings.TrimSpace(text)
}

// looksLikeToolName 只接受 snake_case / kebab-case 形式的单个标识符，过滤掉普通标题
func looksLikeToolName(name string) bool {
	return identifierRe.MatchString(name) && strings.ContainsAny(name, "_-")
}

// headingLevel 返回 markdown 标题级别，非标题返回 0
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n > 6 {
		return 0
	}
	return n
}

func isFence(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~")
}

// block 由标题行切分出来的一段：groups 为标题正则的捕获组，body 为标题之后到终止标记之前的正文
type block struct {
	groups []string
	body   string
}

// splitBlocks 对 headRe 的每个命中，取其后直到 stopRe 下一次命中（或文本结尾）的正文
func splitBlocks(text string, headRe, stopRe *regexp.Regexp) []block {
	locs := headRe.FindAllStringSubmatchIndex(text, -1)
	out := make([]block, 0, len(locs))
	for _, loc := range locs {
		bodyStart := loc[1]
		bodyEnd := len(text)
		if next := stopRe.FindStringIndex(text[bodyStart:]); next != nil {
			bodyEnd = bodyStart + next[0]
		}

		groups := make([]string, 0, len(loc)/2-1)
		for g := 1; g < len(loc)/2; g++ {
			if loc[2*g] < 0 {
				groups = append(groups, "")
				continue
			}
			groups = append(groups, text[loc[2*g]:loc[2*g+1]])
		}
		out = append(out, block{groups: groups, body: text[bodyStart:bodyEnd]})
	}
	return out
}

// compactJSON 压缩 JSON 文本；失败时原样返回
func compactJSON(raw string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return strings.TrimSpace(raw)
	}
	return buf.String()
}

// normalizeNewlines CRLF / CR 统一成 LF，所有正则都按 LF 分行
func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	return newlineReplacer.Replace(text)
}
