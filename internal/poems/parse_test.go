package poems

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/poemario/pkg/models"
)

const sample = `title: Alba
author: X

Line one
Line two
---
title: Noche
author: Y
tags: triste, breve

Sola
`

func TestParseSample(t *testing.T) {
	got := Parse(sample)
	want := []models.Poem{
		{Index: 0, Title: "Alba", Author: "X", Tags: []string{}, Content: "Line one\nLine two"},
		{Index: 1, Title: "Noche", Author: "Y", Tags: []string{"triste", "breve"}, Content: "Sola"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDelimiterCount(t *testing.T) {
	for n := 0; n < 5; n++ {
		blocks := make([]string, n+1)
		for i := range blocks {
			blocks[i] = "title: P\n\nbody"
		}
		text := strings.Join(blocks, "\n---\n")
		assert.Len(t, Parse(text), n+1, "delimiters=%d", n)
	}
}

func TestParseLineEndings(t *testing.T) {
	crlf := strings.ReplaceAll(sample, "\n", "\r\n")
	cr := strings.ReplaceAll(sample, "\n", "\r")
	want := Parse(sample)
	assert.Equal(t, want, Parse(crlf))
	assert.Equal(t, want, Parse(cr))
}

func TestParseEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []models.Poem
	}{
		{
			name: "no delimiters and no header",
			text: "  just a verse\n\nand another  \n",
			want: []models.Poem{{
				Title: models.DefaultTitle, Author: models.DefaultAuthor, Tags: []string{},
				Content: "and another",
			}},
		},
		{
			name: "header without body is kept",
			text: "title: Vacío\nauthor: Z",
			want: []models.Poem{{Title: "Vacío", Author: "Z", Tags: []string{}}},
		},
		{
			name: "stanzas collapse to one blank line",
			text: "title: E\n\nuno\n\n\n\ndos",
			want: []models.Poem{{
				Title: "E", Author: models.DefaultAuthor, Tags: []string{},
				Content: "uno\n\ndos",
			}},
		},
		{
			name: "indented delimiter and empty blocks",
			text: "---\ntitle: A\n\nx\n   ---   \n\n---\ntitle: B\n\ny\n---",
			want: []models.Poem{
				{Index: 0, Title: "A", Author: models.DefaultAuthor, Tags: []string{}, Content: "x"},
				{Index: 1, Title: "B", Author: models.DefaultAuthor, Tags: []string{}, Content: "y"},
			},
		},
		{
			name: "keys are case-insensitive and junk lines ignored",
			text: "TITLE: Mayús\nnot a header\nYear : 1920\nx-custom: ok\ntags: , a ,, b ,\n\nbody",
			want: []models.Poem{{
				Title: "Mayús", Author: models.DefaultAuthor, Year: "1920",
				Tags: []string{"a", "b"}, Content: "body",
			}},
		},
		{
			name: "blank header value falls back to placeholder",
			text: "title:   \nauthor: Q\n\nbody",
			want: []models.Poem{{
				Title: models.DefaultTitle, Author: "Q", Tags: []string{}, Content: "body",
			}},
		},
		{
			name: "three hyphens inside a line do not split",
			text: "title: G\n\nuno --- dos",
			want: []models.Poem{{
				Title: "G", Author: models.DefaultAuthor, Tags: []string{}, Content: "uno --- dos",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\n---\n  \n---\n"))
}

func TestNewCollection(t *testing.T) {
	c := NewCollection(sample)
	require.Equal(t, 2, c.Len())

	p, ok := c.ByID("noche-y")
	require.True(t, ok)
	assert.Equal(t, "Sola", p.Content)
	assert.Equal(t, 1, c.IndexOf("noche-y"))
	assert.Equal(t, -1, c.IndexOf("missing"))

	_, ok = c.ByID("missing")
	assert.False(t, ok)

	var nilColl *Collection
	assert.Equal(t, 0, nilColl.Len())
	assert.Nil(t, nilColl.All())
}
