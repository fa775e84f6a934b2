// Package poems turns the plain-text poem collection into ordered records
// with stable identifiers.
package poems

import (
	"regexp"
	"strings"

	"github.com/justyntemme/poemario/pkg/models"
)

var (
	delimiterRe  = regexp.MustCompile(`(?m)^\s*---\s*$`)
	blankRunRe   = regexp.MustCompile(`\n{2,}`)
	headerLineRe = regexp.MustCompile(`^([\w\-]+)\s*:\s*(.+)$`)
)

// Header keys understood by the parser
const (
	keyTitle  = "title"
	keyAuthor = "author"
	keyYear   = "year"
	keyTags   = "tags"
)

// Parse converts raw collection text into poems in source order.
// Ids are not assigned; see AssignIDs.
func Parse(text string) []models.Poem {
	norm := strings.ReplaceAll(text, "\r\n", "\n")
	norm = strings.ReplaceAll(norm, "\r", "\n")

	var poems []models.Poem
	for _, block := range delimiterRe.Split(norm, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		parts := blankRunRe.Split(block, -1)
		header := parseHeader(parts[0])
		body := strings.TrimSpace(strings.Join(parts[1:], "\n\n"))

		title := header[keyTitle]
		if title == "" {
			title = models.DefaultTitle
		}
		author := header[keyAuthor]
		if author == "" {
			author = models.DefaultAuthor
		}

		// Title always has a value, so this only guards future changes to the defaults
		if title == "" && body == "" {
			continue
		}

		poems = append(poems, models.Poem{
			Index:   len(poems),
			Title:   title,
			Author:  author,
			Year:    header[keyYear],
			Tags:    splitTags(header[keyTags]),
			Content: body,
		})
	}
	return poems
}

// parseHeader reads "key: value" lines; anything else is ignored
func parseHeader(raw string) map[string]string {
	header := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		m := headerLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		header[strings.ToLower(strings.TrimSpace(m[1]))] = strings.TrimSpace(m[2])
	}
	return header
}

func splitTags(raw string) []string {
	tags := []string{}
	if raw == "" {
		return tags
	}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
