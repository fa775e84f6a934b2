package browse

import "github.com/justyntemme/poemario/pkg/models"

// Navigator is the detail-view state machine. It is Closed until Open
// succeeds; while Open it walks the list it was opened with, wrapping at
// both ends.
type Navigator struct {
	list  []models.Poem
	index int
	open  bool
}

// Open shows list[i]. It fails on an out-of-range index.
func (n *Navigator) Open(list []models.Poem, i int) bool {
	if i < 0 || i >= len(list) {
		return false
	}
	n.list = list
	n.index = i
	n.open = true
	return true
}

// OpenID shows the poem with the given id from list
func (n *Navigator) OpenID(list []models.Poem, id string) bool {
	for i, p := range list {
		if p.ID == id {
			return n.Open(list, i)
		}
	}
	return false
}

// Close returns to the Closed state
func (n *Navigator) Close() {
	n.open = false
	n.list = nil
	n.index = 0
}

// IsOpen reports whether a poem is shown
func (n *Navigator) IsOpen() bool {
	return n.open
}

// Current returns the shown poem
func (n *Navigator) Current() (models.Poem, bool) {
	if !n.open || len(n.list) == 0 {
		return models.Poem{}, false
	}
	return n.list[n.index], true
}

// Index returns the position of the shown poem within its list
func (n *Navigator) Index() int {
	return n.index
}

// Len returns the length of the list being walked
func (n *Navigator) Len() int {
	return len(n.list)
}

// Next moves forward one poem, wrapping to the start
func (n *Navigator) Next() (models.Poem, bool) {
	return n.Step(1)
}

// Prev moves back one poem, wrapping to the end
func (n *Navigator) Prev() (models.Poem, bool) {
	return n.Step(-1)
}

// Step moves by delta positions modulo the list length. On a closed
// navigator or an empty list it does nothing.
func (n *Navigator) Step(delta int) (models.Poem, bool) {
	if !n.open || len(n.list) == 0 {
		return models.Poem{}, false
	}
	size := len(n.list)
	n.index = ((n.index+delta)%size + size) % size
	return n.list[n.index], true
}
