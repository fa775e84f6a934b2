package browse

import (
	"errors"
	"math/rand/v2"

	"github.com/justyntemme/poemario/internal/poems"
	"github.com/justyntemme/poemario/pkg/models"
)

// ErrNotFound is returned when a poem id does not resolve
var ErrNotFound = errors.New("poema no encontrado")

// Favorites is the favorites capability the browse state needs
type Favorites interface {
	FavoriteChecker
	Load()
	Toggle(id string) (bool, error)
}

// State is the application state behind the list view: the collection,
// the current search and favorites-only toggle, and the derived list.
type State struct {
	collection    *poems.Collection
	favorites     Favorites
	query         string
	favoritesOnly bool
	filtered      []models.Poem
}

// NewState creates the state and computes the initial list
func NewState(collection *poems.Collection, favs Favorites) *State {
	s := &State{collection: collection, favorites: favs}
	s.refilter()
	return s
}

// Collection returns the full collection
func (s *State) Collection() *poems.Collection {
	return s.collection
}

// Favorites returns the favorites store
func (s *State) Favorites() Favorites {
	return s.favorites
}

// Query returns the current search text
func (s *State) Query() string {
	return s.query
}

// SetQuery updates the search text and re-filters
func (s *State) SetQuery(q string) {
	s.query = q
	s.refilter()
}

// FavoritesOnly reports whether the favorites-only filter is on
func (s *State) FavoritesOnly() bool {
	return s.favoritesOnly
}

// SetFavoritesOnly switches the favorites-only filter and re-filters
func (s *State) SetFavoritesOnly(on bool) {
	s.favoritesOnly = on
	s.refilter()
}

// Refresh reloads favorites from storage and re-filters. Call it whenever
// the in-memory set may be stale.
func (s *State) Refresh() {
	if s.favorites != nil {
		s.favorites.Load()
	}
	s.refilter()
}

// ToggleFavorite toggles id and re-filters so favorites-only views drop
// the poem immediately
func (s *State) ToggleFavorite(id string) (bool, error) {
	if s.favorites == nil {
		return false, nil
	}
	now, err := s.favorites.Toggle(id)
	s.refilter()
	return now, err
}

// IsFavorite reports favorite membership
func (s *State) IsFavorite(id string) bool {
	return s.favorites != nil && s.favorites.IsFavorite(id)
}

// Filtered returns the searched and filtered list
func (s *State) Filtered() []models.Poem {
	return s.filtered
}

// Active returns the list random picks draw from: every poem, or only
// favorites when the favorites-only filter is on. The search text does not apply.
func (s *State) Active() []models.Poem {
	if s.favoritesOnly {
		return OnlyFavorites(s.collection.All(), s.favorites)
	}
	return s.collection.All()
}

// Random picks a poem uniformly from the active list. r may be nil.
func (s *State) Random(r *rand.Rand) (models.Poem, bool) {
	active := s.Active()
	if len(active) == 0 {
		return models.Poem{}, false
	}
	var i int
	if r != nil {
		i = r.IntN(len(active))
	} else {
		i = rand.IntN(len(active))
	}
	return active[i], true
}

// Lookup resolves an id against the full collection
func (s *State) Lookup(id string) (models.Poem, error) {
	p, ok := s.collection.ByID(id)
	if !ok {
		return models.Poem{}, ErrNotFound
	}
	return p, nil
}

// NavigationList returns the list prev/next should walk when id is opened:
// the filtered list if it contains id, otherwise the full collection.
func (s *State) NavigationList(id string) []models.Poem {
	for _, p := range s.filtered {
		if p.ID == id {
			return s.filtered
		}
	}
	return s.collection.All()
}

func (s *State) refilter() {
	var all []models.Poem
	if s.collection != nil {
		all = s.collection.All()
	}
	s.filtered = Filter(all, s.query, s.favoritesOnly, s.favorites)
}
