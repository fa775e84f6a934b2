package views

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/justyntemme/poemario/internal/browse"
	"github.com/justyntemme/poemario/internal/route"
	"github.com/justyntemme/poemario/internal/source"
	"github.com/justyntemme/poemario/internal/ui/styles"
	"github.com/justyntemme/poemario/pkg/models"
)

// Empty and error texts shown in place of the list
const (
	EmptyText   = "No hay resultados."
	LoadingText = "Cargando poemas..."
)

// ListView displays the searchable poem list and the detail modal
type ListView struct {
	svc   *Services
	state *browse.State
	rng   *rand.Rand

	// Source
	src      *source.Source
	srcErr   error
	location string
	loading  bool

	// List position
	cursor int
	offset int // For scrolling

	// Search
	searchMode  bool
	searchInput textinput.Model

	// Detail modal
	modal  detailPane
	notice notice

	// Dimensions
	width  int
	height int
}

// NewListView creates a new list view
func NewListView(svc *Services) *ListView {
	searchInput := textinput.New()
	searchInput.Placeholder = "Buscar título, autor, año, etiquetas o texto..."
	searchInput.CharLimit = 100
	searchInput.Width = 40

	return &ListView{
		svc:         svc,
		modal:       newDetailPane(svc),
		searchInput: searchInput,
		loading:     true,
		width:       80,
		height:      24,
	}
}

// SetSource installs the browse state for a freshly loaded source. A non-nil
// err replaces the list with an explanation.
func (v *ListView) SetSource(state *browse.State, src *source.Source, location string, err error) {
	v.loading = false
	v.state = state
	v.src = src
	v.srcErr = err
	v.location = location
	v.modal.state = state
	v.modal.close()
	v.cursor = 0
	v.offset = 0
	v.searchMode = false
	v.searchInput.Blur()
	v.searchInput.SetValue("")
}

// SetRand fixes the random source used by the random action
func (v *ListView) SetRand(r *rand.Rand) {
	v.rng = r
}

// State returns the browse state, nil until a source loads
func (v *ListView) State() *browse.State {
	return v.state
}

// ModalOpen reports whether the detail modal is showing
func (v *ListView) ModalOpen() bool {
	return v.modal.nav.IsOpen()
}

// CurrentPoem returns the poem in the modal
func (v *ListView) CurrentPoem() (models.Poem, bool) {
	return v.modal.current()
}

// CapturingInput implements InputCapturer
func (v *ListView) CapturingInput() bool {
	return v.searchMode || v.ModalOpen()
}

// Init implements View. Returning to the list reloads favorites, since
// another process or the poem page may have changed them.
func (v *ListView) Init() tea.Cmd {
	v.Reload()
	return nil
}

// Reload re-reads favorites and keeps the cursor on the filtered list,
// which may have shrunk
func (v *ListView) Reload() {
	if v.state == nil {
		return
	}
	v.state.Refresh()
	v.clampCursor()
}

// Update implements View
func (v *ListView) Update(msg tea.Msg) (View, tea.Cmd) {
	if cmd, ok := updateNotice(msg); ok {
		return v, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.ModalOpen() {
			return v.updateModal(msg)
		}
		if v.searchMode {
			return v.updateSearch(msg)
		}
		return v.handleKey(msg)

	case tea.MouseMsg:
		return v.handleMouse(msg)
	}

	return v, nil
}

// updateSearch re-filters on every keystroke
func (v *ListView) updateSearch(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.searchMode = false
		v.searchInput.Blur()
		v.searchInput.SetValue("")
		v.setQuery("")
		return v, nil
	case "enter":
		v.searchMode = false
		v.searchInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	v.setQuery(v.searchInput.Value())
	return v, cmd
}

func (v *ListView) setQuery(q string) {
	if v.state == nil {
		return
	}
	v.state.SetQuery(q)
	v.cursor = 0
	v.offset = 0
}

// handleKey handles keys while browsing the list
func (v *ListView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		v.moveCursor(1)
	case "k", "up":
		v.moveCursor(-1)
	case "g", "home":
		v.cursor = 0
		v.offset = 0
	case "G", "end":
		v.cursor = len(v.items()) - 1
		v.clampCursor()
	case "ctrl+d", "pgdown":
		v.moveCursor(v.visibleLines() / 2)
	case "ctrl+u", "pgup":
		v.moveCursor(-v.visibleLines() / 2)
	case "/":
		if v.state == nil {
			return v, nil
		}
		v.searchMode = true
		v.searchInput.Focus()
		return v, textinput.Blink
	case "F":
		// Toggle favorites-only filter
		if v.state != nil {
			v.state.SetFavoritesOnly(!v.state.FavoritesOnly())
			v.cursor = 0
			v.offset = 0
		}
	case "f":
		if p, ok := v.selected(); ok {
			v.toggleFavorite(p.ID)
		}
	case "r":
		return v, v.openRandom()
	case "enter", " ", "space":
		if v.state != nil {
			return v, v.modal.open(v.state.Filtered(), v.cursor)
		}
	case "o":
		if p, ok := v.selected(); ok {
			return v, OpenPoem(p.ID)
		}
	case "c":
		if p, ok := v.selected(); ok {
			return v, copyCmd(v.svc, p, &v.notice)
		}
	case "m":
		if p, ok := v.selected(); ok {
			v.markRead(p.ID)
		}
	case "a":
		return v, SwitchTo(ViewOpen)
	case "T":
		// Cycle through themes
		return v, NotifyThemeChanged(styles.NextTheme())
	}
	return v, nil
}

// updateModal handles keys while the detail modal is open
func (v *ListView) updateModal(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return v, v.closeModal()
	case "o":
		p, _ := v.modal.current()
		v.modal.close()
		return v, OpenPoem(p.ID)
	case "ctrl+c":
		return v, tea.Quit
	}

	_, cmd := v.modal.handleKey(msg)
	v.clampCursor()
	return v, cmd
}

func (v *ListView) closeModal() tea.Cmd {
	v.modal.close()
	v.clampCursor()
	return SetLocation(route.ListLocation)
}

// handleMouse closes the modal on a click outside it, scrolls, and
// selects rows
func (v *ListView) handleMouse(msg tea.MouseMsg) (View, tea.Cmd) {
	if v.ModalOpen() {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !v.insideModal(msg.X, msg.Y) {
			return v, v.closeModal()
		}
		return v, v.modal.handleMouse(msg)
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		v.moveCursor(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		v.moveCursor(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		row := msg.Y - v.listTop() + v.offset
		if row >= 0 && row < len(v.items()) && msg.Y >= v.listTop() {
			v.cursor = row
			v.clampCursor()
		}
	}
	return v, nil
}

func (v *ListView) toggleFavorite(id string) {
	if _, err := v.state.ToggleFavorite(id); err != nil {
		v.svc.logger().Warn("saving favorite", zap.String("id", id), zap.Error(err))
	}
	// In favorites-only mode the poem may just have left the list
	v.clampCursor()
}

func (v *ListView) markRead(id string) {
	if v.svc == nil || v.svc.ReadState == nil || v.svc.ReadState.IsRead(id) {
		return
	}
	if err := v.svc.ReadState.MarkRead(id); err != nil {
		v.svc.logger().Warn("marking read", zap.String("id", id), zap.Error(err))
	}
}

// openRandom opens a uniformly random poem from the active list
func (v *ListView) openRandom() tea.Cmd {
	if v.state == nil {
		return nil
	}
	p, ok := v.state.Random(v.rng)
	if !ok {
		return nil
	}
	return v.modal.openID(v.state.Active(), p.ID)
}

// View implements View
func (v *ListView) View() string {
	if v.ModalOpen() {
		return lipgloss.Place(
			v.width,
			v.height,
			lipgloss.Center,
			lipgloss.Center,
			v.renderModal(),
		)
	}

	var b strings.Builder

	// Header
	b.WriteString(v.renderHeader() + "\n")

	// Search bar (if active)
	if v.searchMode {
		searchBar := styles.SearchInput.Render(v.searchInput.View())
		b.WriteString(searchBar + "\n")
	}

	// Loading state
	if v.loading {
		b.WriteString(v.placeBody(styles.MutedText.Render(LoadingText)))
		return b.String()
	}

	// Error state
	if v.srcErr != nil {
		b.WriteString(v.placeBody(v.renderSourceError()))
		return b.String()
	}

	items := v.items()

	// Empty state
	if len(items) == 0 {
		b.WriteString(v.placeBody(styles.MutedText.Render(EmptyText)))
		b.WriteString("\n")
		b.WriteString(v.renderFooter())
		return b.String()
	}

	// Poem list
	visibleLines := v.visibleLines()
	for i := v.offset; i < min(v.offset+visibleLines, len(items)); i++ {
		b.WriteString(v.renderPoemLine(items[i], i == v.cursor) + "\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(v.renderFooter())

	return b.String()
}

// SetSize implements View
func (v *ListView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.searchInput.Width = min(60, width-10)
	v.modal.setSize(v.modalWidth(), height-8)
}

func (v *ListView) modalWidth() int {
	return min(72, v.width-10)
}

func (v *ListView) placeBody(content string) string {
	return lipgloss.Place(
		v.width,
		max(1, v.height-4),
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// renderHeader renders the header bar
func (v *ListView) renderHeader() string {
	titleText := " Poemario "
	if v.state != nil && v.state.FavoritesOnly() {
		titleText = " ♥ Favoritos "
	}
	title := styles.TitleBar.Render(titleText)

	// Search indicator
	searchInfo := ""
	if v.state != nil && v.state.Query() != "" && !v.searchMode {
		searchInfo = styles.SecondaryText.Render(fmt.Sprintf(" [Buscar: %s]", v.state.Query()))
	}

	// Count info
	countInfo := ""
	if v.state != nil {
		countInfo = styles.Help.Render(fmt.Sprintf(" %d/%d poemas ", len(v.items()), v.state.Collection().Len()))
	}

	left := title + searchInfo
	gap := max(0, v.width-lipgloss.Width(left)-lipgloss.Width(countInfo))
	return left + strings.Repeat(" ", gap) + countInfo
}

// renderPoemLine renders a single poem line
func (v *ListView) renderPoemLine(p models.Poem, selected bool) string {
	indicator := "  "
	if v.state.IsFavorite(p.ID) {
		indicator = "♥ "
	}
	read := v.svc != nil && v.svc.ReadState != nil && v.svc.ReadState.IsRead(p.ID)
	readMark := "  "
	if read {
		readMark = "✓ "
	}

	line := p.Title
	if meta := p.Meta(); meta != "" {
		line += " — " + meta
	}
	line = styles.TruncateText(line, max(10, v.width-10))

	if selected {
		return styles.ListItemSelected.Width(v.width).Render("▸ " + indicator + readMark + line)
	}
	if indicator != "  " {
		indicator = styles.FavMark.Render(indicator)
	}
	if read {
		return styles.ListItemDimmed.Render("  " + indicator + readMark + line)
	}
	return styles.ListItem.Render("  " + indicator + readMark + line)
}

// renderFooter renders the footer help
func (v *ListView) renderFooter() string {
	help := []string{
		styles.HelpKey.Render("j/k") + styles.Help.Render(" nav"),
		styles.HelpKey.Render("enter") + styles.Help.Render(" leer"),
		styles.HelpKey.Render("o") + styles.Help.Render(" página"),
		styles.HelpKey.Render("/") + styles.Help.Render(" buscar"),
		styles.HelpKey.Render("f") + styles.Help.Render(" fav"),
		styles.HelpKey.Render("F") + styles.Help.Render(" favoritos"),
		styles.HelpKey.Render("r") + styles.Help.Render(" azar"),
		styles.HelpKey.Render("c") + styles.Help.Render(" copiar"),
		styles.HelpKey.Render("m") + styles.Help.Render(" leído"),
		styles.HelpKey.Render("q") + styles.Help.Render(" salir"),
	}

	helpText := strings.Join(help, "  ")
	if v.notice.text != "" {
		helpText = v.notice.render() + "  " + helpText
	}

	// Add theme indicator
	themeName := styles.CurrentTheme().Name
	themeIndicator := styles.MutedText.Render(" [Tema: "+themeName+"] ") + styles.HelpKey.Render("T")

	gap := max(0, v.width-lipgloss.Width(helpText)-lipgloss.Width(themeIndicator))
	return helpText + strings.Repeat(" ", gap) + themeIndicator
}

// renderSourceError explains why there is no list. No retry is attempted.
func (v *ListView) renderSourceError() string {
	dialog := styles.Dialog.Width(min(70, v.width-4)).Render(
		styles.DialogTitle.Render("No se pudo cargar "+v.location) + "\n\n" +
			styles.Help.Render("Comprueba la ruta o la URL indicada con --source,") + "\n" +
			styles.Help.Render("o pulsa ") + styles.HelpKey.Render("a") + styles.Help.Render(" para abrir otro archivo.") + "\n\n" +
			styles.MutedText.Render(v.srcErr.Error()),
	)
	return dialog
}

// renderModal renders the detail dialog
func (v *ListView) renderModal() string {
	footer := styles.HelpKey.Render("o") + styles.Help.Render(" página  ") +
		styles.HelpKey.Render("esc/q") + styles.Help.Render(" cerrar")
	return styles.Dialog.Width(v.modalWidth() + 4).Render(v.modal.render() + "\n" + footer)
}

// insideModal reports whether a cell falls within the centered dialog
func (v *ListView) insideModal(x, y int) bool {
	w, h := lipgloss.Size(v.renderModal())
	left := max(0, (v.width-w)/2)
	top := max(0, (v.height-h)/2)
	return x >= left && x < left+w && y >= top && y < top+h
}

// items returns the current filtered list
func (v *ListView) items() []models.Poem {
	if v.state == nil || v.srcErr != nil {
		return nil
	}
	return v.state.Filtered()
}

func (v *ListView) selected() (models.Poem, bool) {
	items := v.items()
	if v.cursor < 0 || v.cursor >= len(items) {
		return models.Poem{}, false
	}
	return items[v.cursor], true
}

// moveCursor moves the cursor by delta
func (v *ListView) moveCursor(delta int) {
	v.cursor += delta
	v.clampCursor()
}

// clampCursor keeps the cursor on an existing row and visible
func (v *ListView) clampCursor() {
	n := len(v.items())
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.updateOffset()
}

// updateOffset ensures the cursor is visible
func (v *ListView) updateOffset() {
	visibleLines := v.visibleLines()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visibleLines {
		v.offset = v.cursor - visibleLines + 1
	}
}

// listTop is the screen row of the first list line
func (v *ListView) listTop() int {
	if v.searchMode {
		return 4
	}
	return 1
}

// visibleLines returns the number of visible poem lines
func (v *ListView) visibleLines() int {
	// Account for header, footer, and margins
	lines := v.height - 3
	if v.searchMode {
		lines -= 3
	}
	if lines < 1 {
		lines = 1
	}
	return lines
}
