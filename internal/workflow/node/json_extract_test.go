package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain object untouched",
			in:   `{"questions":[{"question":"Q1"}]}`,
			want: `{"questions":[{"question":"Q1"}]}`,
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  \n{\"summary\":\"S\"}\n  ",
			want: `{"summary":"S"}`,
		},
		{
			name: "markdown code fence stripped",
			in:   "```json\n{\"titles\":[\"A\",\"B\"]}\n```",
			want: `{"titles":["A","B"]}`,
		},
		{
			name: "leading prose stripped",
			in:   "Here is the outline you asked for:\n{\"chapters\":[{\"chapter_number\":1,\"chapter_title\":\"One\"}]}",
			want: `{"chapters":[{"chapter_number":1,"chapter_title":"One"}]}`,
		},
		{
			name: "trailing prose stripped",
			in:   "{\"summary\":\"S\"}\nLet me know if you need revisions.",
			want: `{"summary":"S"}`,
		},
		{
			name: "top level array",
			in:   "noise [1, 2, 3] noise",
			want: "[1, 2, 3]",
		},
		{
			name: "array before object picks array",
			in:   "[{\"a\":1}]",
			want: "[{\"a\":1}]",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   "   \n\t ",
			want: "",
		},
		{
			name: "no json at all passes through",
			in:   "I cannot produce that.",
			want: "I cannot produce that.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.in))
		})
	}
}

func TestExtractJSONObject_NestedBraces(t *testing.T) {
	in := "prefix {\"outer\":{\"inner\":[1,2]}} suffix"
	assert.Equal(t, `{"outer":{"inner":[1,2]}}`, ExtractJSONObject(in))
}
