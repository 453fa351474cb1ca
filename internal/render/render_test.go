package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fiabamia/fiaba/internal/gateway"
)

func TestWriterLayout(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)

	w.Header("I Miei Libri")
	w.Println("%-14s %s", "draft", "La Storia")
	w.Nested("fiaba access --token t --action preview")
	w.Item("detail")
	w.Line()
	w.Empty("nothing here")

	out := sb.String()
	assert.Contains(t, out, "I Miei Libri\n"+strings.Repeat("─", 60)+"\n")
	assert.Contains(t, out, "draft          La Storia\n")
	assert.Contains(t, out, "    └─ fiaba access")
	assert.Contains(t, out, "  detail\n")
	assert.Contains(t, out, "nothing here\n")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijkl", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestCardsTruncateLongTitles(t *testing.T) {
	long := strings.Repeat("x", 80)
	out := New(false).Cards([]gateway.BookCard{{Title: long, Badge: gateway.BadgeDraft}})
	assert.NotContains(t, out, long)
	assert.Contains(t, out, strings.Repeat("x", 41)+"...")
}
