package extraction

import (
	"regexp"
	"strings"
)

type sectionHeading struct {
	level int
	re    *regexp.Regexp
}

// 工具章节标题，按顺序尝试
var sectionHeadings = []sectionHeading{
	{2, regexp.MustCompile(`(?im)^##[ \t]*available[ \t]+tools[ \t]*$`)},
	{2, regexp.MustCompile(`(?im)^##[ \t]*tools[ \t]*$`)},
	{3, regexp.MustCompile(`(?im)^###[ \t]*available[ \t]+tools[ \t]*$`)},
	{3, regexp.MustCompile(`(?im)^###[ \t]*tools[ \t]*$`)},
}

// IsolateToolsSection 找到 README 中的工具章节，返回标题之后、下一个同级或更高级标题之前的正文。
// 正文为空的候选会被跳过，继续尝试下一个标题形式
func IsolateToolsSection(doc string) (string, bool) {
	doc = normalizeNewlines(doc)
	for _, h := range sectionHeadings {
		loc := h.re.FindStringIndex(doc)
		if loc == nil {
			continue
		}
		from := loc[1]
		body := strings.TrimPrefix(doc[from:sectionEnd(doc, from, h.level)], "\n")
		if strings.TrimSpace(body) == "" {
			continue
		}
		return body, true
	}
	return "", false
}

// sectionEnd 从 from 开始逐行扫描，返回第一个级别 <= level 的标题前的换行位置。
// 代码块里的 "# ..." 注释不算标题
func sectionEnd(doc string, from, level int) int {
	inFence := false
	pos := from
	for pos < len(doc) {
		lineEnd := len(doc)
		nl := strings.IndexByte(doc[pos:], '\n')
		if nl >= 0 {
			lineEnd = pos + nl
		}
		line := doc[pos:lineEnd]

		switch {
		case isFence(line):
			inFence = !inFence
		case !inFence && pos > from:
			if lvl := headingLevel(line); lvl > 0 && lvl <= level {
				return pos - 1
			}
		}

		if nl < 0 {
			break
		}
		pos = lineEnd + 1
	}
	return len(doc)
}

// SuppressParameterBlocks 删除参数说明块，避免参数行被工具策略误识别
func SuppressParameterBlocks(text string) string {
	text = normalizeNewlines(text)
	lines := strings.Split(text, "\n")
	blocks := findLabeledBlocks(lines)
	if len(blocks) == 0 {
		return text
	}

	out := make([]string, 0, len(lines))
	prev := 0
	for _, b := range blocks {
		out = append(out, lines[prev:b.first]...)
		prev = b.end
	}
	out = append(out, lines[prev:]...)
	return strings.Join(out, "\n")
}
