package extraction

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolNames(tools []ToolRecord) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}

func paramByName(t *testing.T, params []ParameterRecord, name string) ParameterRecord {
	t.Helper()
	for _, p := range params {
		if p.Name == name {
			return p
		}
	}
	require.Failf(t, "parameter not found", "%s", name)
	return ParameterRecord{}
}

func TestExtractTools_BoldHeadings(t *testing.T) {
	doc := "## Available Tools\n### **jina_reader**\nReads a URL.\n### **jina_search**\nSearches."

	res := ExtractTools(doc)

	require.Len(t, res.Tools, 2)
	assert.True(t, res.SectionFound)
	assert.Equal(t, StrategyBoldHeading, res.Strategy)
	assert.Equal(t, "jina_reader", res.Tools[0].Name)
	assert.Equal(t, "Jina Reader", res.Tools[0].DisplayName)
	assert.Equal(t, "Reads a URL.", res.Tools[0].Description)
	assert.Equal(t, "jina_search", res.Tools[1].Name)
	assert.Equal(t, "Jina Search", res.Tools[1].DisplayName)
	assert.Equal(t, "Searches.", res.Tools[1].Description)
}

func TestExtractTools_FirstStrategyWins(t *testing.T) {
	doc := strings.Join([]string{
		"## Tools",
		"### **jina_reader**",
		"Reads a URL.",
		"- `other_tool` - Something else",
		"| `table_tool` | From a table |",
	}, "\n")

	res := ExtractTools(doc)

	assert.Equal(t, StrategyBoldHeading, res.Strategy)
	assert.Equal(t, []string{"jina_reader"}, toolNames(res.Tools))
}

func TestExtractTools_NumberedHeadings(t *testing.T) {
	doc := strings.Join([]string{
		"# Firecrawl",
		"## Available Tools",
		"### 1. Scrape Tool (`firecrawl_scrape`)",
		"Scrape content from a **single** URL.",
		"",
		"### 2. Map Tool (`firecrawl_map`)",
		"",
		"Map a website to discover URLs.",
		"## Installation",
		"### **not_a_tool**",
		"npm install",
	}, "\n")

	res := ExtractTools(doc)

	assert.Equal(t, StrategyNumberedHeading, res.Strategy)
	require.Equal(t, []string{"firecrawl_scrape", "firecrawl_map"}, toolNames(res.Tools))
	assert.Equal(t, "Scrape content from a single URL.", res.Tools[0].Description)
	assert.Equal(t, "Map a website to discover URLs.", res.Tools[1].Description)
	assert.Equal(t, "Firecrawl Scrape", res.Tools[0].DisplayName)
}

func TestExtractTools_ParameterBulletsAreNotTools(t *testing.T) {
	doc := strings.Join([]string{
		"## Tools",
		"- `web_search` - Search the web",
		"  **Parameters:**",
		"  - `query` - Search text (required)",
		"  - `limit` - Max results (optional)",
		"- `fetch_page` - Fetch a page",
		"  - Parameters:",
		"    - `url` (string): Page URL",
		"",
		"## License",
	}, "\n")

	res := ExtractTools(doc)

	assert.Equal(t, StrategyBulletBacktick, res.Strategy)
	assert.Equal(t, []string{"web_search", "fetch_page"}, toolNames(res.Tools))
	assert.Equal(t, "Search the web", res.Tools[0].Description)
}

func TestExtractTools_BulletedParameterLabels(t *testing.T) {
	t.Run("nested under the tool", func(t *testing.T) {
		doc := strings.Join([]string{
			"## Tools",
			"- `search_docs` - Search docs",
			"  - **Parameters:**",
			"    - `query` - Search text (required)",
			"    - `limit` - Max results (optional)",
			"- `fetch_page` - Fetch a page",
			"  * **Arguments:**",
			"    - `url`: Page URL",
		}, "\n")

		res := ExtractTools(doc)

		assert.Equal(t, StrategyBulletBacktick, res.Strategy)
		assert.Equal(t, []string{"search_docs", "fetch_page"}, toolNames(res.Tools))
	})

	t.Run("flat list", func(t *testing.T) {
		section := "- `search_docs` - Search docs\n- **Parameters:**\n- `query` - Search text (required)\n"

		tools, strategy := ExtractSectionTools(section)

		assert.Equal(t, StrategyBulletBacktick, strategy)
		assert.Equal(t, []string{"search_docs"}, toolNames(tools))
	})
}

func TestExtractTools_CRLF(t *testing.T) {
	doc := "# Srv\r\n## Tools\r\n- `search_docs` - Search docs\r\n- `fetch_page` - Fetch a page\r\n\r\n## License\r\nMIT\r\n"

	res := ExtractTools(doc)

	assert.True(t, res.SectionFound)
	assert.Equal(t, StrategyBulletBacktick, res.Strategy)
	require.Equal(t, []string{"search_docs", "fetch_page"}, toolNames(res.Tools))
	assert.Equal(t, "Fetch a page", res.Tools[1].Description)

	section, ok := IsolateToolsSection(doc)
	require.True(t, ok)
	assert.NotContains(t, section, "License")
}

func TestExtractTools_BulletBoldIgnoresParameterBlock(t *testing.T) {
	doc := "## Tools\n- **tool_x**\n**Parameters:**\n- `q` - Query text\n- **tool_y**: Second tool\n"

	res := ExtractTools(doc)

	assert.Equal(t, StrategyBulletBold, res.Strategy)
	require.Equal(t, []string{"tool_x", "tool_y"}, toolNames(res.Tools))
	assert.NotContains(t, res.Tools[0].Description, "Parameters")
	assert.Equal(t, "Second tool", res.Tools[1].Description)
}

func TestExtractTools_TableIgnoresParameterBlock(t *testing.T) {
	doc := strings.Join([]string{
		"## Tools",
		"| `list_repos` | List repositories |",
		"**Arguments:**",
		"- `owner`: Repository owner",
		"| `get_repo` | Get one repository |",
	}, "\n")

	res := ExtractTools(doc)

	assert.Equal(t, StrategyTable, res.Strategy)
	assert.Equal(t, []string{"list_repos", "get_repo"}, toolNames(res.Tools))
}

func TestSuppressParameterBlocks(t *testing.T) {
	in := "- `a_tool` - A\n**Arguments:**\n- `id`: The identifier\n- `b_tool` - B\n"
	out := SuppressParameterBlocks(in)

	assert.NotContains(t, out, "`id`")
	assert.Contains(t, out, "`a_tool`")
	assert.Contains(t, out, "`b_tool`")
}

func TestExtractTools_TableRows(t *testing.T) {
	doc := strings.Join([]string{
		"## Tools",
		"| Tool | Description |",
		"|------|-------------|",
		"| `list_repos` | List repositories for a user |",
		"| `create_issue` | Create an *issue* |",
	}, "\n")

	res := ExtractTools(doc)

	assert.Equal(t, StrategyTable, res.Strategy)
	require.Equal(t, []string{"list_repos", "create_issue"}, toolNames(res.Tools))
	assert.Equal(t, "List repositories for a user", res.Tools[0].Description)
	assert.Equal(t, "Create an issue", res.Tools[1].Description)
}

func TestExtractTools_BulletBold(t *testing.T) {
	doc := "## Tools\n- **get_weather**: Get the `current` weather\n- **get_forecast** Five day forecast\n"

	res := ExtractTools(doc)

	assert.Equal(t, StrategyBulletBold, res.Strategy)
	require.Equal(t, []string{"get_weather", "get_forecast"}, toolNames(res.Tools))
	assert.Equal(t, "Get the current weather", res.Tools[0].Description)
	assert.Equal(t, "Five day forecast", res.Tools[1].Description)
}

func TestExtractTools_BareAndMultiHeadings(t *testing.T) {
	doc := strings.Join([]string{
		"## Tools",
		"### Overview",
		"This server exposes search.",
		"### jina_search / jina_search_vip",
		"Search the web with Jina.",
		"### Notes",
		"Nothing to see.",
	}, "\n")

	res := ExtractTools(doc)

	assert.Equal(t, StrategyBareHeading, res.Strategy)
	require.Equal(t, []string{"jina_search", "jina_search_vip"}, toolNames(res.Tools))
	assert.Equal(t, "Search the web with Jina.", res.Tools[1].Description)
	assert.Equal(t, "Jina Search Vip", res.Tools[1].DisplayName)
}

func TestExtractTools_ProseHeadingRejected(t *testing.T) {
	doc := "## Tools\n### Overview\nThis server does things.\n### Usage\nRun it.\n"

	res := ExtractTools(doc)

	assert.True(t, res.SectionFound)
	assert.Empty(t, res.Tools)
	assert.Empty(t, res.Strategy)
}

func TestExtractTools_NoToolsAnywhere(t *testing.T) {
	for _, doc := range []string{
		"",
		"# Hello\n\nJust a README with prose.\n\n## Install\n\nnpm i\n",
	} {
		res := ExtractTools(doc)
		assert.Empty(t, res.Tools)
		assert.NotNil(t, res.Tools)
		assert.False(t, res.SectionFound)
		assert.Empty(t, res.Strategy)
		assert.Zero(t, res.MalformedBlocks)
	}
}

func TestExtractTools_CodeBlockFallback(t *testing.T) {
	doc := strings.Join([]string{
		"# File server",
		"```json",
		`{"name": "@acme/file-server", "version": "1.0.0"}`,
		"```",
		"```json",
		`{"tools": [`,
		"```",
		"```json",
		`{"tools": [{"name": "read_file", "description": "Read a file", "input_schema": {"type": "object", "properties": {"path": {"type": "string"}}}}, {"name": "write_file"}]}`,
		"```",
	}, "\n")

	res := ExtractTools(doc)

	assert.False(t, res.SectionFound)
	assert.Equal(t, StrategyCodeBlock, res.Strategy)
	assert.Equal(t, 1, res.MalformedBlocks)
	require.Equal(t, []string{"read_file", "write_file"}, toolNames(res.Tools))
	assert.Equal(t, "Read a file", res.Tools[0].Description)
	assert.Equal(t, `{"type":"object","properties":{"path":{"type":"string"}}}`, res.Tools[0].InputSchema)
	assert.Empty(t, res.Tools[1].InputSchema)
	assert.Equal(t, "Write File", res.Tools[1].DisplayName)
}

func TestExtractTools_GlobalHeadingFallback(t *testing.T) {
	doc := "# Server\n## Usage\n### read_file\nReads a file.\n### Overview\nProse.\n"

	res := ExtractTools(doc)

	assert.False(t, res.SectionFound)
	assert.Equal(t, StrategyGlobalHeading, res.Strategy)
	assert.Equal(t, []string{"read_file"}, toolNames(res.Tools))
}

func TestExtractTools_DuplicatesKeepFirst(t *testing.T) {
	doc := "## Tools\n- `a_tool` - first\n- `a_tool` - second\n"

	res := ExtractTools(doc)

	require.Len(t, res.Tools, 1)
	assert.Equal(t, "first", res.Tools[0].Description)
}

func TestExtractTools_Deterministic(t *testing.T) {
	doc := "## Tools\n### **a_tool**\nA.\n### **b_tool**\nB.\n"
	assert.Equal(t, ExtractTools(doc), ExtractTools(doc))
}

func TestIsolateToolsSection(t *testing.T) {
	t.Run("ends at next heading of same level", func(t *testing.T) {
		doc := "# X\n## Tools\n- `a_b` - c\n### Sub\nmore\n## Install\nnpm i\n"
		section, ok := IsolateToolsSection(doc)
		require.True(t, ok)
		assert.Equal(t, "- `a_b` - c\n### Sub\nmore", section)
	})

	t.Run("code comments do not end the section", func(t *testing.T) {
		doc := "## Tools\n```bash\n# start server\nnpx run\n```\n- `a_b` - c\n# Next\n"
		section, ok := IsolateToolsSection(doc)
		require.True(t, ok)
		assert.Contains(t, section, "- `a_b` - c")
		assert.NotContains(t, section, "# Next")
	})

	t.Run("empty section falls through to next form", func(t *testing.T) {
		doc := "## Tools\n\n## Other\n### Tools\n- `x_y` - z\n"
		section, ok := IsolateToolsSection(doc)
		require.True(t, ok)
		assert.Equal(t, "- `x_y` - z\n", section)
	})

	t.Run("case insensitive", func(t *testing.T) {
		_, ok := IsolateToolsSection("## AVAILABLE TOOLS\n- `x_y` - z")
		assert.True(t, ok)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := IsolateToolsSection("## Toolsmith\nabc\n#### Tools\nabc")
		assert.False(t, ok)
	})
}

func TestBuildContextWindow(t *testing.T) {
	t.Run("heading beats earlier backtick mention", func(t *testing.T) {
		doc := "Use `search_docs` to search.\n" + strings.Repeat("x", 500) + "\n### search_docs\n- `query` - text\n"
		w, ok := BuildContextWindow(doc, "search_docs")
		require.True(t, ok)
		assert.Equal(t, AnchorHeadingExact, w.Anchor)
		anchor := strings.Index(doc, "### search_docs")
		assert.Equal(t, anchor-windowBefore, w.Start)
		assert.Equal(t, len(doc), w.End)
		assert.False(t, w.LowConfidence)
	})

	t.Run("heading containing the name", func(t *testing.T) {
		w, ok := BuildContextWindow("### jina_search / jina_search_vip\nSearch.", "jina_search_vip")
		require.True(t, ok)
		assert.Equal(t, AnchorHeadingContains, w.Anchor)
		assert.Equal(t, 0, w.Start)
	})

	t.Run("bold then backtick", func(t *testing.T) {
		w, ok := BuildContextWindow("see **run_query** for details", "run_query")
		require.True(t, ok)
		assert.Equal(t, AnchorBold, w.Anchor)

		w, ok = BuildContextWindow("call `run_query` with sql", "RUN_QUERY")
		require.True(t, ok)
		assert.Equal(t, AnchorBacktick, w.Anchor)
	})

	t.Run("low confidence without parameter markers", func(t *testing.T) {
		w, ok := BuildContextWindow("### lonely_tool\nDoes nothing special.\n", "lonely_tool")
		require.True(t, ok)
		assert.True(t, w.LowConfidence)
	})

	t.Run("window is bounded", func(t *testing.T) {
		doc := strings.Repeat("a", 1000) + "### big_tool\n" + strings.Repeat("b", 5000)
		w, ok := BuildContextWindow(doc, "big_tool")
		require.True(t, ok)
		assert.Equal(t, 800, w.Start)
		assert.Equal(t, 3000, w.End)
		assert.Len(t, w.Text, windowBefore+windowAfter)
	})

	t.Run("window is counted in characters", func(t *testing.T) {
		doc := strings.Repeat("前", 300) + "### cjk_tool\n" + strings.Repeat("搜", 3000)
		w, ok := BuildContextWindow(doc, "cjk_tool")
		require.True(t, ok)
		assert.Equal(t, 100*len("前"), w.Start)
		assert.Equal(t, windowBefore+windowAfter, utf8.RuneCountInString(w.Text))
		assert.Equal(t, doc[w.Start:w.End], w.Text)
	})

	t.Run("crlf document", func(t *testing.T) {
		w, ok := BuildContextWindow("intro\r\n### crlf_tool\r\n**Parameters:**\r\n- `q` - Query\r\n", "crlf_tool")
		require.True(t, ok)
		assert.Equal(t, AnchorHeadingExact, w.Anchor)
		assert.NotContains(t, w.Text, "\r")
		assert.False(t, w.LowConfidence)
	})

	t.Run("multibyte boundaries", func(t *testing.T) {
		doc := strings.Repeat("é", 300) + "a\n### x_tool\nok"
		w, ok := BuildContextWindow(doc, "x_tool")
		require.True(t, ok)
		assert.True(t, utf8.ValidString(w.Text))
	})

	t.Run("not found", func(t *testing.T) {
		_, ok := BuildContextWindow("nothing here", "ghost_tool")
		assert.False(t, ok)
		_, ok = BuildContextWindow("nothing here", "  ")
		assert.False(t, ok)
	})

	t.Run("name is matched literally", func(t *testing.T) {
		_, ok := BuildContextWindow("### aXb\n", "a.b")
		assert.False(t, ok)
	})
}

func TestExtractParameters_SimpleList(t *testing.T) {
	window := "### search\n**Parameters:**\n- `query` - Search text (required)\n- `limit` - Max results (optional, default: 10)\n"

	res := ExtractParameters(window)

	assert.Equal(t, StrategySimpleList, res.Strategy)
	require.Len(t, res.Parameters, 2)

	query := res.Parameters[0]
	assert.Equal(t, "query", query.Name)
	assert.Equal(t, "Search text", query.Description)
	assert.Equal(t, RequiredYes, query.Required)
	assert.Empty(t, query.DefaultValue)

	limit := res.Parameters[1]
	assert.Equal(t, "limit", limit.Name)
	assert.Equal(t, RequiredNo, limit.Required)
	assert.Equal(t, "10", limit.DefaultValue)
	assert.Empty(t, limit.Type)
}

func TestExtractParameters_RequiredTriState(t *testing.T) {
	simple := ExtractParameters("**Parameters:**\n- `url` - The target URL (required)\n- `limit` - Max results (optional)\n- `mode` - Output mode\n")
	assert.Equal(t, RequiredYes, paramByName(t, simple.Parameters, "url").Required)
	assert.Equal(t, RequiredNo, paramByName(t, simple.Parameters, "limit").Required)
	assert.Equal(t, RequiredUnspecified, paramByName(t, simple.Parameters, "mode").Required)

	args := ExtractParameters("**Arguments:**\n- `id`: The identifier\n")
	assert.Equal(t, StrategyArgumentsList, args.Strategy)
	id := paramByName(t, args.Parameters, "id")
	assert.Equal(t, RequiredUnspecified, id.Required)
	assert.Nil(t, id.Required.Ptr())
	assert.Empty(t, id.Type)
	assert.Equal(t, "The identifier", id.Description)
}

func TestExtractParameters_SimpleListKeepsPlainParentheses(t *testing.T) {
	res := ExtractParameters("**Parameters:**\n- `url` - URL (http or https) to fetch (required)\n- `fmt` - Format (md or html)\n")

	url := paramByName(t, res.Parameters, "url")
	assert.Equal(t, "URL (http or https) to fetch", url.Description)
	assert.Equal(t, RequiredYes, url.Required)

	format := paramByName(t, res.Parameters, "fmt")
	assert.Equal(t, "Format (md or html)", format.Description)
	assert.Equal(t, RequiredUnspecified, format.Required)
}

func TestExtractParameters_DetailedList(t *testing.T) {
	window := strings.Join([]string{
		"### search_docs",
		"Search the docs.",
		"- Parameters:",
		"  - `query` (str): The search text",
		"  - `limit` (int, optional): Max results. Defaults to 10.",
		"  - `ratio` (float, optional): Threshold, default is 0.5",
		"  - `tags` (list, optional): Tags to filter. Default: none",
	}, "\n")

	res := ExtractParameters(window)

	assert.Equal(t, StrategyDetailedList, res.Strategy)
	require.Len(t, res.Parameters, 4)

	query := res.Parameters[0]
	assert.Equal(t, "string", query.Type)
	assert.Equal(t, RequiredYes, query.Required)
	assert.Empty(t, query.DefaultValue)

	limit := res.Parameters[1]
	assert.Equal(t, "integer", limit.Type)
	assert.Equal(t, RequiredNo, limit.Required)
	assert.Equal(t, "10", limit.DefaultValue)
	assert.Equal(t, "Max results. Defaults to 10.", limit.Description)

	ratio := res.Parameters[2]
	assert.Equal(t, "number", ratio.Type)
	assert.Equal(t, "0.5", ratio.DefaultValue)

	tags := res.Parameters[3]
	assert.Equal(t, "array", tags.Type)
	assert.Equal(t, "none", tags.DefaultValue)
}

func TestExtractParameters_JSONExample(t *testing.T) {
	window := "```json\n{\"arguments\": {\"count\": 5, \"flag\": true, \"items\": [1,2], \"ratio\": 0.5, \"q\": \"hi\", \"opts\": {\"a\": 1}, \"none\": null}}\n```"

	res := ExtractParameters(window)

	assert.Equal(t, StrategyJSONExample, res.Strategy)
	require.Len(t, res.Parameters, 7)

	want := []struct{ name, typ, example string }{
		{"count", "integer", "5"},
		{"flag", "boolean", "true"},
		{"items", "array", "[1,2]"},
		{"ratio", "number", "0.5"},
		{"q", "string", "hi"},
		{"opts", "object", `{"a":1}`},
		{"none", "null", "null"},
	}
	for i, w := range want {
		p := res.Parameters[i]
		assert.Equal(t, w.name, p.Name)
		assert.Equal(t, w.typ, p.Type, w.name)
		assert.Equal(t, w.example, p.ExampleValue, w.name)
		assert.Equal(t, RequiredUnspecified, p.Required, w.name)
	}
}

func TestExtractParameters_MalformedJSONSkipped(t *testing.T) {
	window := "```json\n{\"arguments\": {\"count\": }\n```\n\n```json\n{\"arguments\": {\"path\": \"/tmp\"}}\n```"

	res := ExtractParameters(window)

	assert.Equal(t, 1, res.MalformedBlocks)
	require.Len(t, res.Parameters, 1)
	assert.Equal(t, "path", res.Parameters[0].Name)
	assert.Equal(t, "/tmp", res.Parameters[0].ExampleValue)
}

func TestExtractParameters_NoMatch(t *testing.T) {
	res := ExtractParameters("Just prose about the tool.")
	assert.Empty(t, res.Parameters)
	assert.NotNil(t, res.Parameters)
	assert.Empty(t, res.Strategy)
}

func TestExtractParameters_BulletedLabels(t *testing.T) {
	window := "### search_docs\nSearch the docs.\n- **Parameters:**\n- `query` - Search text (required)\n- `limit` - Max results (optional)\n"

	res := ExtractParameters(window)

	assert.Equal(t, StrategySimpleList, res.Strategy)
	require.Len(t, res.Parameters, 2)
	assert.Equal(t, RequiredYes, paramByName(t, res.Parameters, "query").Required)
	assert.Equal(t, RequiredNo, paramByName(t, res.Parameters, "limit").Required)

	args := ExtractParameters("### get_item\n* **Arguments:**\n- `id`: The identifier\n")
	assert.Equal(t, StrategyArgumentsList, args.Strategy)
	require.Len(t, args.Parameters, 1)
	assert.Equal(t, "The identifier", args.Parameters[0].Description)
}

func TestExtractToolParameters_CharacterWindow(t *testing.T) {
	doc := "### cjk_search\n" + strings.Repeat("搜", 700) + "\n**Parameters:**\n- `q` - 查询内容 (required)\n"

	_, res, ok := ExtractToolParameters(doc, "cjk_search")

	require.True(t, ok)
	require.Len(t, res.Parameters, 1)
	assert.Equal(t, "q", res.Parameters[0].Name)
	assert.Equal(t, RequiredYes, res.Parameters[0].Required)
}

func TestExtractToolParameters_CRLF(t *testing.T) {
	doc := "## Tools\r\n### web_search\r\n**Parameters:**\r\n- `query` - Search text (required)\r\n"

	_, res, ok := ExtractToolParameters(doc, "web_search")

	require.True(t, ok)
	require.Len(t, res.Parameters, 1)
	assert.Equal(t, "Search text", res.Parameters[0].Description)
}

func TestExtractToolParameters(t *testing.T) {
	doc := strings.Join([]string{
		"## Tools",
		"### web_search",
		"Search the web.",
		"**Parameters:**",
		"- `query` - Search text (required)",
		"- `limit` - Max results (optional, default: 10)",
	}, "\n")

	w, res, ok := ExtractToolParameters(doc, "web_search")

	require.True(t, ok)
	assert.Equal(t, AnchorHeadingExact, w.Anchor)
	assert.False(t, w.LowConfidence)
	require.Len(t, res.Parameters, 2)
	assert.Equal(t, "10", res.Parameters[1].DefaultValue)

	_, res, ok = ExtractToolParameters(doc, "missing_tool")
	assert.False(t, ok)
	assert.Empty(t, res.Parameters)
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"firecrawl_scrape": "Firecrawl Scrape",
		"jina-reader":      "Jina Reader",
		"api_key":          "Api Key",
		"getURL":           "Geturl",
		"a__b":             "A B",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, DisplayName(in), in)
	}
}

func TestNormalizeType(t *testing.T) {
	cases := map[string]string{
		"str": "string", "Text": "string", "int": "integer", "num": "number",
		"float": "number", "double": "number", "bool": "boolean", "arr": "array",
		"list": "array", "obj": "object", "dict": "object", " String ": "string",
		"uuid": "uuid",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeType(in), in)
	}
}

func TestNormalizeType_LongTypeClamped(t *testing.T) {
	long := "'light' | 'dark' | 'system' | 'auto' | 'high-contrast' | 'sepia' | 'solarized'"

	got := NormalizeType(long)

	assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxTypeLength)
	assert.True(t, strings.HasPrefix(long, got))
}

func TestRequired(t *testing.T) {
	assert.Nil(t, RequiredUnspecified.Ptr())
	assert.True(t, *RequiredYes.Ptr())
	assert.False(t, *RequiredNo.Ptr())

	for _, r := range []Required{RequiredUnspecified, RequiredYes, RequiredNo} {
		assert.Equal(t, r, RequiredFromPtr(r.Ptr()))
	}

	b, err := RequiredUnspecified.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	var r Required
	require.NoError(t, r.UnmarshalJSON([]byte("false")))
	assert.Equal(t, RequiredNo, r)
}
