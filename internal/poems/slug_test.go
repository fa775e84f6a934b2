package poems

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/justyntemme/poemario/pkg/models"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alba-X", "alba-x"},
		{"Canción de otoño-Anónimo", "cancion-de-otono-anonimo"},
		{"  ¡Qué   noche!  -  Pérez ", "que-noche-perez"},
		{"Ñandú-Ü", "nandu-u"},
		{"---", ""},
		{"   ", ""},
		{"日本語", ""},
		{"Poema 20-Neruda", "poema-20-neruda"},
		{"e\u0301", "e"},
		{"a\u20d7b", "a-b"},
		{"a\u0308\u0591b", "a-b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestSlugTruncates(t *testing.T) {
	long := strings.Repeat("palabra ", 30)
	got := Slug(long)
	assert.Len(t, got, MaxSlugLength)
	assert.True(t, strings.HasPrefix(got, "palabra-palabra"))
}

func TestSlugDeterministic(t *testing.T) {
	assert.Equal(t, Slug("Noche-Y"), Slug("Noche-Y"))
}

func TestAssignIDs(t *testing.T) {
	list := []models.Poem{
		{Title: "A", Author: "B"},
		{Title: "日本", Author: "語"},
		{Title: "A", Author: "B"},
		{Title: "Poema", Author: "3"},
		{Title: "C", Author: "D"},
	}
	AssignIDs(list)

	ids := make([]string, len(list))
	for i, p := range list {
		ids[i] = p.ID
		assert.Equal(t, i, p.Index)
	}
	assert.Equal(t, []string{"a-b", "poema-1", "poema-2", "poema-3", "c-d"}, ids)
}

func TestAssignIDsUniqueUnderFallbackClash(t *testing.T) {
	// second poem's natural slug is the fallback id of the third
	list := []models.Poem{
		{Title: "X", Author: "Y"},
		{Title: "Poema", Author: "2"},
		{Title: "X", Author: "Y"},
	}
	AssignIDs(list)

	seen := map[string]bool{}
	for _, p := range list {
		assert.False(t, seen[p.ID], "duplicate id %q", p.ID)
		seen[p.ID] = true
	}
	assert.Equal(t, "poema-2-2", list[2].ID)
}

func TestAssignIDsIdenticalPoems(t *testing.T) {
	c := NewCollection("title: A\nauthor: B\n\nsame\n---\ntitle: A\nauthor: B\n\nsame")
	all := c.All()
	assert.Equal(t, "a-b", all[0].ID)
	assert.Equal(t, "poema-1", all[1].ID)
}
