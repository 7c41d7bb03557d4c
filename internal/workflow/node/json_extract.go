// Package node 提供工作流节点间复用的输出处理逻辑
package node

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject 从模型输出里截取第一个完整的 JSON 值（对象或数组）。
// 模型偶尔会在 JSON 前后夹带说明文字或代码围栏，截取后再交给调用方反序列化。
// 完全找不到 JSON 时原样返回，让解码错误携带真实输出。
func ExtractJSONObject(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return raw
	}

	start, closer := firstJSONStart(raw)
	if start >= 0 {
		if end := strings.LastIndexByte(raw, closer); end > start {
			raw = raw[start : end+1]
		}
	}

	if startsWithJSONValue(raw) {
		return raw
	}
	return strings.TrimSpace(s)
}

func firstJSONStart(s string) (int, byte) {
	obj := strings.IndexByte(s, '{')
	arr := strings.IndexByte(s, '[')
	switch {
	case obj >= 0 && (arr < 0 || obj < arr):
		return obj, '}'
	case arr >= 0:
		return arr, ']'
	}
	return -1, 0
}

func startsWithJSONValue(s string) bool {
	tok, err := json.NewDecoder(strings.NewReader(s)).Token()
	if err != nil {
		return false
	}
	d, ok := tok.(json.Delim)
	return ok && (d == '{' || d == '[')
}
