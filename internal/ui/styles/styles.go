package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Styles are rebuilt by ApplyTheme
var (
	TitleBar  lipgloss.Style
	FooterBar lipgloss.Style

	Help          lipgloss.Style
	HelpKey       lipgloss.Style
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style

	// Status messages; notices such as "Copiado" use these too
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style

	SearchInput lipgloss.Style

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListItemDimmed   lipgloss.Style // read poems

	PoemBody     lipgloss.Style
	PoemHeader   lipgloss.Style
	PoemProgress lipgloss.Style
	PoemTitle    lipgloss.Style
	PoemMeta     lipgloss.Style
	PoemTags     lipgloss.Style

	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style

	FavMark  lipgloss.Style
	ReadMark lipgloss.Style
)

// TruncateText shortens s to width cells, ending with an ellipsis when cut
func TruncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
