package extraction

import (
	"regexp"
	"strings"
)

type labelKind int

const (
	labelDetailed labelKind = iota
	labelSimple
	labelArguments
)

var parameterLabels = []struct {
	kind labelKind
	re   *regexp.Regexp
}{
	{labelDetailed, regexp.MustCompile(`(?i)^([ \t]*)(?:- )?Parameters:[ \t]*$`)},
	{labelSimple, regexp.MustCompile(`(?i)^([ \t]*)(?:[-*][ \t]+)?\*\*Parameters:\*\*[ \t]*$`)},
	{labelArguments, regexp.MustCompile(`(?i)^([ \t]*)(?:[-*][ \t]+)?\*\*Arguments:\*\*[ \t]*$`)},
}

var codeBulletRe = regexp.MustCompile(`^([ \t]*)- ` + bt + `[^` + bt + `]+` + bt + `(.*)$`)

// labeledBlock 一个参数标签行以及紧随其后的反引号列表，[first, end) 为覆盖的行号
type labeledBlock struct {
	kind    labelKind
	first   int
	end     int
	bullets []string
}

// findLabeledBlocks 找出所有 "Parameters:" / "**Parameters:**" / "**Arguments:**" 块，标签本身可以是列表项。
// 列表项缩进不能小于标签行，否则视为下一个工具的条目
func findLabeledBlocks(lines []string) []labeledBlock {
	var out []labeledBlock
	for i := 0; i < len(lines); i++ {
		kind, indent, ok := matchLabel(lines[i])
		if !ok {
			continue
		}

		b := labeledBlock{kind: kind, first: i}
		k := i + 1
		for k < len(lines) {
			next := k
			for next < len(lines) && strings.TrimSpace(lines[next]) == "" {
				next++
			}
			if next >= len(lines) || !isBlockBullet(lines[next], kind, indent) {
				break
			}
			b.bullets = append(b.bullets, lines[next])
			k = next + 1
		}
		if len(b.bullets) == 0 {
			continue
		}
		b.end = k
		out = append(out, b)
		i = k - 1
	}
	return out
}

func matchLabel(line string) (labelKind, int, bool) {
	line = strings.TrimRight(line, "\r")
	for _, l := range parameterLabels {
		if m := l.re.FindStringSubmatch(line); m != nil {
			return l.kind, len(m[1]), true
		}
	}
	return 0, 0, false
}

func isBlockBullet(line string, kind labelKind, indent int) bool {
	m := codeBulletRe.FindStringSubmatch(line)
	if m == nil || len(m[1]) < indent {
		return false
	}
	if kind == labelArguments {
		return strings.HasPrefix(m[2], ":")
	}
	return true
}

// firstBlock 返回指定类型的第一个块
func firstBlock(text string, kind labelKind) (labeledBlock, bool) {
	for _, b := range findLabeledBlocks(strings.Split(normalizeNewlines(text), "\n")) {
		if b.kind == kind {
			return b, true
		}
	}
	return labeledBlock{}, false
}
