// Package browse holds the list and detail state shared by the terminal
// views and the CLI: search filtering, the favorites-only toggle, random
// picks and prev/next navigation.
package browse

import (
	"strings"

	"github.com/justyntemme/poemario/pkg/models"
)

// FavoriteChecker reports favorite membership
type FavoriteChecker interface {
	IsFavorite(id string) bool
}

// Filter returns the poems whose searchable text contains query
// (case-insensitive), restricted to favorites when favoritesOnly is set.
// Source order is preserved.
func Filter(list []models.Poem, query string, favoritesOnly bool, favs FavoriteChecker) []models.Poem {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Poem, 0, len(list))
	for _, p := range list {
		if favoritesOnly && (favs == nil || !favs.IsFavorite(p.ID)) {
			continue
		}
		if q != "" && !strings.Contains(p.Blob(), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// OnlyFavorites returns the favorite poems in source order
func OnlyFavorites(list []models.Poem, favs FavoriteChecker) []models.Poem {
	return Filter(list, "", true, favs)
}
