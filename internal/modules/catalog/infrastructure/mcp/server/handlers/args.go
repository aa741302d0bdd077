package handlers

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func argsOf(request mcp.CallToolRequest) (map[string]interface{}, bool) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	return args, ok
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

// jsonResult 工具结果统一返回 JSON 文本
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("encode result failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
