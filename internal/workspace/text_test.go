package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short", in: "Hello", limit: 50, want: "Hello"},
		{name: "exact", in: "abcde", limit: 5, want: "abcde"},
		{name: "cut", in: "abcdef", limit: 5, want: "abcde..."},
		{name: "multibyte", in: "日本語のテキスト", limit: 3, want: "日本語..."},
		{name: "empty", in: "", limit: 3, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.limit))
		})
	}
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "docx", fileType("Brief.DOCX"))
	assert.Equal(t, "csv", fileType("data.v2.csv"))
	assert.Equal(t, "", fileType("Makefile"))
	assert.Equal(t, "", fileType("trailing."))
}
