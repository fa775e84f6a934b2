package models

import "strings"

// Placeholders used when a poem header omits the field
const (
	DefaultTitle  = "Sin título"
	DefaultAuthor = "Anónimo"
)

// Poem represents a single poem parsed from the collection file
type Poem struct {
	ID      string   `json:"id"`
	Index   int      `json:"index"`
	Title   string   `json:"title"`
	Author  string   `json:"author"`
	Year    string   `json:"year,omitempty"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
}

// Meta returns the secondary line shown under a poem title
func (p *Poem) Meta() string {
	parts := make([]string, 0, 3)
	if p.Author != "" {
		parts = append(parts, p.Author)
	}
	if p.Year != "" {
		parts = append(parts, p.Year)
	}
	if len(p.Tags) > 0 {
		parts = append(parts, strings.Join(p.Tags, " · "))
	}
	return strings.Join(parts, " — ")
}

// CopyText returns the text placed on the clipboard by the copy action
func (p *Poem) CopyText() string {
	return p.Title + "\n" + p.Meta() + "\n\n" + p.Content
}

// Blob returns the lowercase text searched by the list filter
func (p *Poem) Blob() string {
	return strings.ToLower(strings.Join([]string{
		p.Title,
		p.Author,
		p.Year,
		strings.Join(p.Tags, " "),
		p.Content,
	}, " "))
}
