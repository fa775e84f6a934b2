package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/poemario/internal/browse"
	"github.com/justyntemme/poemario/internal/route"
	"github.com/justyntemme/poemario/internal/ui/styles"
	"github.com/justyntemme/poemario/pkg/models"
)

// NotFoundText is shown when the requested poem does not exist
const NotFoundText = "Poema no encontrado"

// PoemView is the standalone poem page reached by id
type PoemView struct {
	svc   *Services
	state *browse.State
	pane  detailPane

	id      string
	missing bool

	// Dimensions
	width  int
	height int
}

// NewPoemView creates a new poem page
func NewPoemView(svc *Services) *PoemView {
	return &PoemView{
		svc:    svc,
		pane:   newDetailPane(svc),
		width:  80,
		height: 24,
	}
}

// SetState installs the browse state of the loaded source
func (v *PoemView) SetState(state *browse.State) {
	v.state = state
	v.pane.state = state
	v.pane.close()
}

// SetPoem resolves id. Prev/next walk the list it was opened from, or
// every poem when it is not in the current filter.
func (v *PoemView) SetPoem(id string) {
	v.id = id
	v.missing = true
	v.pane.close()
	if v.state == nil || id == "" {
		return
	}
	if _, err := v.state.Lookup(id); err != nil {
		return
	}
	v.pane.openID(v.state.NavigationList(id), id)
	v.missing = !v.pane.nav.IsOpen()
}

// Missing reports whether the last SetPoem found nothing
func (v *PoemView) Missing() bool {
	return v.missing
}

// CurrentPoem returns the poem on the page
func (v *PoemView) CurrentPoem() (models.Poem, bool) {
	return v.pane.current()
}

// Init implements View
func (v *PoemView) Init() tea.Cmd {
	if p, ok := v.pane.current(); ok {
		return SetLocation(route.Query(p.ID))
	}
	return nil
}

// Update implements View
func (v *PoemView) Update(msg tea.Msg) (View, tea.Cmd) {
	if cmd, ok := updateNotice(msg); ok {
		return v, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "backspace" {
			return v, SwitchTo(ViewList)
		}
		_, cmd := v.pane.handleKey(msg)
		return v, cmd
	case tea.MouseMsg:
		return v, v.pane.handleMouse(msg)
	}
	return v, nil
}

// View implements View
func (v *PoemView) View() string {
	var b strings.Builder

	// Header
	b.WriteString(v.renderHeader() + "\n")

	if v.missing {
		content := lipgloss.Place(
			v.width,
			max(1, v.height-3),
			lipgloss.Center,
			lipgloss.Center,
			styles.ErrorStyle.Render(NotFoundText),
		)
		b.WriteString(content + "\n")
		b.WriteString(v.renderFooter())
		return b.String()
	}

	body := lipgloss.NewStyle().Padding(1, 2).Render(v.pane.render())
	b.WriteString(lipgloss.PlaceHorizontal(v.width, lipgloss.Center, body) + "\n")
	b.WriteString(v.renderFooter())
	return b.String()
}

// SetSize implements View
func (v *PoemView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.pane.setSize(min(80, width-6), height-5)
}

// renderHeader renders the page header with the title and scroll progress
func (v *PoemView) renderHeader() string {
	title := NotFoundText
	if p, ok := v.pane.current(); ok {
		title = p.Title
	}
	maxTitleWidth := max(10, v.width/2)
	left := styles.PoemHeader.Render(" " + styles.TruncateText(title, maxTitleWidth) + " — Poemario ")

	right := ""
	if !v.missing {
		right = styles.PoemProgress.Render(fmt.Sprintf(" %3.0f%% ", v.pane.viewport.ScrollPercent()*100))
	}

	gap := max(0, v.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter renders the footer help
func (v *PoemView) renderFooter() string {
	help := []string{
		styles.HelpKey.Render("j/k") + styles.Help.Render(" desplazar"),
		styles.HelpKey.Render("esc/q") + styles.Help.Render(" volver"),
		styles.HelpKey.Render("?") + styles.Help.Render(" ayuda"),
	}
	return styles.FooterBar.Width(v.width).Render(strings.Join(help, "  "))
}
