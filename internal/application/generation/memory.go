package generation

import (
	"strings"
)

// MemoryBuffer 章节起草期间的有界上下文累积器。
// 只保存模型生成的章节正文，绝不保存指令提示词；
// 每起草一章追加一条，Context 按预算从最新的条目向前拼装。
type MemoryBuffer struct {
	entries  []string
	maxRunes int
}

// NewMemoryBuffer 创建记忆缓冲区，maxRunes 为上下文预算
func NewMemoryBuffer(maxRunes int) *MemoryBuffer {
	if maxRunes <= 0 {
		maxRunes = 4800
	}
	return &MemoryBuffer{maxRunes: maxRunes}
}

// Append 追加一段已生成的章节正文
func (m *MemoryBuffer) Append(generated string) {
	m.entries = append(m.entries, generated)
}

// Len 返回已累积的条目数
func (m *MemoryBuffer) Len() int {
	return len(m.entries)
}

// Context 拼装提示上下文：从最新条目向前回填，直到触达预算。
// 超预算的最早条目被整体丢弃，最新条目超预算时按 rune 截尾保留。
func (m *MemoryBuffer) Context() string {
	if len(m.entries) == 0 {
		return ""
	}

	budget := m.maxRunes
	kept := make([]string, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		entry := m.entries[i]
		runes := []rune(entry)
		if len(runes) <= budget {
			kept = append(kept, entry)
			budget -= len(runes)
			if budget <= 0 {
				break
			}
			continue
		}
		// 最新的条目即使超预算也要保留尾部，否则上一章完全丢失
		if len(kept) == 0 && budget > 0 {
			kept = append(kept, string(runes[len(runes)-budget:]))
		}
		break
	}

	// 反转回时间顺序
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, "\n\n---\n\n")
}
