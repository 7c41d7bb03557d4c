package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBuffer_GrowsByOnePerChapter(t *testing.T) {
	m := NewMemoryBuffer(4800)
	assert.Equal(t, 0, m.Len())

	m.Append("chapter one text")
	assert.Equal(t, 1, m.Len())

	m.Append("chapter two text")
	assert.Equal(t, 2, m.Len())

	m.Append("chapter three text")
	assert.Equal(t, 3, m.Len())
}

func TestMemoryBuffer_EmptyContext(t *testing.T) {
	m := NewMemoryBuffer(100)
	assert.Equal(t, "", m.Context())
}

func TestMemoryBuffer_ChronologicalOrderWithSeparator(t *testing.T) {
	m := NewMemoryBuffer(4800)
	m.Append("first")
	m.Append("second")
	m.Append("third")

	got := m.Context()
	assert.Equal(t, "first\n\n---\n\nsecond\n\n---\n\nthird", got)
}

func TestMemoryBuffer_DropsOldestWhenOverBudget(t *testing.T) {
	// 预算只够装下最新两条
	m := NewMemoryBuffer(10)
	m.Append("aaaaa") // 5 runes，应被整体丢弃
	m.Append("bbbb")  // 4 runes
	m.Append("ccc")   // 3 runes

	got := m.Context()
	assert.NotContains(t, got, "aaaaa")
	assert.Equal(t, "bbbb\n\n---\n\nccc", got)
}

func TestMemoryBuffer_NewestEntryTruncatedToTail(t *testing.T) {
	m := NewMemoryBuffer(4)
	m.Append("abcdefgh")

	got := m.Context()
	require.NotEmpty(t, got)
	// 超预算的最新条目保留尾部
	assert.Equal(t, "efgh", got)
}

func TestMemoryBuffer_TruncationCountsRunes(t *testing.T) {
	m := NewMemoryBuffer(3)
	m.Append("一二三四五六")

	got := m.Context()
	assert.Equal(t, "四五六", got)
	assert.Equal(t, 3, len([]rune(got)))
}

func TestMemoryBuffer_DefaultBudget(t *testing.T) {
	m := NewMemoryBuffer(0)
	long := strings.Repeat("x", 5000)
	m.Append(long)

	got := m.Context()
	assert.Equal(t, 4800, len([]rune(got)))
}

func TestMemoryBuffer_ExactBudgetKeepsEntry(t *testing.T) {
	m := NewMemoryBuffer(5)
	m.Append("aaa")
	m.Append("bbbbb")

	// 最新条目恰好吃满预算，更早的条目全部丢弃
	assert.Equal(t, "bbbbb", m.Context())
}
