package styles

import "github.com/charmbracelet/lipgloss"

// Theme is a reading palette. Every style in this package derives from it.
type Theme struct {
	Name string

	Ink    lipgloss.Color // body text
	Paper  lipgloss.Color // text drawn on accent backgrounds
	Accent lipgloss.Color // title bar, selection, dialog borders
	Soft   lipgloss.Color // keys, meta line
	Faint  lipgloss.Color // help, tags, read rows
	Heart  lipgloss.Color // favorite marker
	Good   lipgloss.Color // read badge, success notices
	Bad    lipgloss.Color // errors, failed notices
}

var (
	// DarkTheme is the default
	DarkTheme = Theme{
		Name:   "dark",
		Ink:    "#F9FAFB",
		Paper:  "#1F2937",
		Accent: "#7C3AED",
		Soft:   "#06B6D4",
		Faint:  "#6B7280",
		Heart:  "#F43F5E",
		Good:   "#10B981",
		Bad:    "#EF4444",
	}

	LightTheme = Theme{
		Name:   "light",
		Ink:    "#1F2937",
		Paper:  "#FFFFFF",
		Accent: "#7C3AED",
		Soft:   "#0891B2",
		Faint:  "#9CA3AF",
		Heart:  "#E11D48",
		Good:   "#059669",
		Bad:    "#DC2626",
	}

	SepiaTheme = Theme{
		Name:   "sepia",
		Ink:    "#3B2F2F",
		Paper:  "#F4ECD8",
		Accent: "#8B5E34",
		Soft:   "#A0522D",
		Faint:  "#8B7D6B",
		Heart:  "#B22222",
		Good:   "#6B8E23",
		Bad:    "#B22222",
	}

	// TintaTheme is a high-contrast ink on paper palette
	TintaTheme = Theme{
		Name:   "tinta",
		Ink:    "#000000",
		Paper:  "#FFFFFF",
		Accent: "#1E3A8A",
		Soft:   "#1E3A8A",
		Faint:  "#525252",
		Heart:  "#9F1239",
		Good:   "#166534",
		Bad:    "#991B1B",
	}

	// themes is the cycle order for NextTheme
	themes = []Theme{DarkTheme, LightTheme, SepiaTheme, TintaTheme}

	current = DarkTheme
)

// ThemeNames lists the themes in cycle order
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// themeIndex returns the position of name, or -1
func themeIndex(name string) int {
	for i, t := range themes {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// CurrentTheme returns the active theme
func CurrentTheme() Theme {
	return current
}

// SetCurrentTheme activates the named theme. Unknown names fall back to dark.
func SetCurrentTheme(name string) {
	t := DarkTheme
	if i := themeIndex(name); i >= 0 {
		t = themes[i]
	}
	current = t
	ApplyTheme(t)
}

// NextTheme activates the theme after the current one and returns its name
func NextTheme() string {
	i := themeIndex(current.Name)
	next := themes[(i+1)%len(themes)]
	SetCurrentTheme(next.Name)
	return next.Name
}

// ApplyTheme rebuilds every style from t
func ApplyTheme(t Theme) {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	badge := func(text, bg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(text).Background(bg).Padding(0, 1).Bold(true)
	}

	TitleBar = badge(t.Paper, t.Accent)
	FooterBar = fg(t.Faint).Padding(0, 1)
	Help = fg(t.Faint)
	HelpKey = fg(t.Soft).Bold(true)
	MutedText = fg(t.Faint)
	SecondaryText = fg(t.Soft)

	ErrorStyle = fg(t.Bad).Bold(true).Padding(0, 1)
	SuccessStyle = fg(t.Good).Bold(true).Padding(0, 1)

	SearchInput = fg(t.Ink).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(0, 1)

	ListItem = fg(t.Ink).Padding(0, 2)
	ListItemSelected = badge(t.Paper, t.Accent).Padding(0, 2)
	ListItemDimmed = fg(t.Faint).Padding(0, 2)

	PoemBody = fg(t.Ink)
	PoemHeader = badge(t.Paper, t.Accent)
	PoemProgress = fg(t.Soft).Align(lipgloss.Right)
	PoemTitle = fg(t.Ink).Bold(true)
	PoemMeta = fg(t.Soft)
	PoemTags = fg(t.Faint).Italic(true)

	Dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(1, 2)
	DialogTitle = fg(t.Accent).Bold(true).MarginBottom(1)

	FavMark = fg(t.Heart).Bold(true)
	ReadMark = badge(t.Paper, t.Good)
}

func init() {
	ApplyTheme(DarkTheme)
}
