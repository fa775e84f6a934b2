package poems

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/justyntemme/poemario/pkg/models"
)

// MaxSlugLength caps the length of generated identifiers
const MaxSlugLength = 80

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// isCombiningDiacritic matches the Combining Diacritical Marks block only.
// Other combining marks survive and become separators.
func isCombiningDiacritic(r rune) bool {
	return r >= 0x300 && r <= 0x36f
}

// Slug lowercases s, folds accents and collapses everything that is not
// an ASCII letter or digit into single hyphens.
func Slug(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isCombiningDiacritic))),
		strings.ToLower(s),
	)
	if err != nil {
		folded = strings.ToLower(s)
	}
	slug := nonAlnumRe.ReplaceAllString(folded, "-")
	slug = strings.TrimPrefix(slug, "-")
	slug = strings.TrimSuffix(slug, "-")
	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
	}
	return slug
}

// FallbackID is the positional identifier used when a slug is unusable
func FallbackID(index int) string {
	return fmt.Sprintf("poema-%d", index)
}

// AssignIDs sets ID and Index on every poem. The id is the slug of
// "title-author"; an empty or already-taken slug falls back to the
// positional id so ids stay unique within one parse.
func AssignIDs(poems []models.Poem) {
	taken := make(map[string]bool, len(poems))
	for i := range poems {
		poems[i].Index = i
		id := Slug(poems[i].Title + "-" + poems[i].Author)
		if id == "" || taken[id] {
			id = FallbackID(i)
		}
		for n := 2; taken[id]; n++ {
			id = fmt.Sprintf("%s-%d", FallbackID(i), n)
		}
		taken[id] = true
		poems[i].ID = id
	}
}
