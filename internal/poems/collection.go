package poems

import "github.com/justyntemme/poemario/pkg/models"

// Collection is an ordered, id-indexed set of poems
type Collection struct {
	poems []models.Poem
	byID  map[string]int
}

// NewCollection parses text and assigns ids
func NewCollection(text string) *Collection {
	list := Parse(text)
	AssignIDs(list)
	return FromPoems(list)
}

// FromPoems wraps poems that already carry ids
func FromPoems(list []models.Poem) *Collection {
	c := &Collection{
		poems: list,
		byID:  make(map[string]int, len(list)),
	}
	for i, p := range list {
		if _, dup := c.byID[p.ID]; !dup {
			c.byID[p.ID] = i
		}
	}
	return c
}

// All returns the poems in source order
func (c *Collection) All() []models.Poem {
	if c == nil {
		return nil
	}
	return c.poems
}

// Len returns the number of poems
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.poems)
}

// ByID looks up a poem by identifier
func (c *Collection) ByID(id string) (models.Poem, bool) {
	i := c.IndexOf(id)
	if i < 0 {
		return models.Poem{}, false
	}
	return c.poems[i], true
}

// IndexOf returns the source position of id, or -1
func (c *Collection) IndexOf(id string) int {
	if c == nil {
		return -1
	}
	if i, ok := c.byID[id]; ok {
		return i
	}
	return -1
}
