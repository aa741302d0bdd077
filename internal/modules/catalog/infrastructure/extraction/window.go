package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// 窗口大小按字符计，不按字节
const (
	windowBefore = 200
	windowAfter  = 2000
)

var parameterMarkerRe = regexp.MustCompile(`(?im)` +
	`^[ \t]*[-*][ \t]+` + bt + `[^` + bt + `\n]+` + bt +
	`|\*\*(?:parameters|arguments):\*\*` +
	`|^[ \t]*- parameters:` +
	"|```json" +
	`|\|[ \t]*` + bt + `[^` + bt + `\n]+` + bt + `[ \t]*\|`)

type anchor struct {
	kind    AnchorKind
	pattern string
}

func anchorsFor(toolName string) []anchor {
	name := regexp.QuoteMeta(toolName)
	return []anchor{
		{AnchorHeadingExact, `(?i)###\s+` + name + `[ \t]*(?:\n|\z)`},
		{AnchorHeadingContains, `(?i)###\s+[^#\n]*` + name + `[^#\n]*(?:\n|\z)`},
		{AnchorBold, `(?i)\*\*` + name + `\*\*`},
		{AnchorBacktick, `(?i)` + bt + name + bt},
	}
}

// BuildContextWindow 在全文中定位工具名，截取其前 200 / 后 2000 个字符作为参数解析窗口。
// Start / End 为字节偏移（CRLF 已统一为 LF）；找不到任何锚点时返回 false
func BuildContextWindow(doc, toolName string) (ContextWindow, bool) {
	if strings.TrimSpace(toolName) == "" {
		return ContextWindow{}, false
	}
	doc = normalizeNewlines(doc)

	for _, a := range anchorsFor(toolName) {
		loc := regexp.MustCompile(a.pattern).FindStringIndex(doc)
		if loc == nil {
			continue
		}

		from, to := runesBefore(doc, loc[0], windowBefore), runesAfter(doc, loc[0], windowAfter)
		text := doc[from:to]
		return ContextWindow{
			Text:          text,
			Anchor:        a.kind,
			Start:         from,
			End:           to,
			LowConfidence: !parameterMarkerRe.MatchString(text),
		}, true
	}
	return ContextWindow{}, false
}

// runesBefore 从 pos 往前数 n 个字符，返回起点的字节偏移
func runesBefore(s string, pos, n int) int {
	for ; n > 0 && pos > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:pos])
		pos -= size
	}
	return pos
}

// runesAfter 从 pos 往后数 n 个字符，返回终点的字节偏移
func runesAfter(s string, pos, n int) int {
	for ; n > 0 && pos < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[pos:])
		pos += size
	}
	return pos
}
