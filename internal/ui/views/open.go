package views

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/poemario/internal/ui/styles"
)

// OpenView displays a file picker for choosing another poem file
type OpenView struct {
	filepicker filepicker.Model
	selected   string
	err        error

	width  int
	height int
}

type clearPickErrorMsg struct{}

// NewOpenView creates a new open view rooted at the working directory
func NewOpenView() *OpenView {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	fp := filepicker.New()
	fp.AllowedTypes = []string{".txt"}
	fp.CurrentDirectory = cwd
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.Height = 15

	return &OpenView{
		filepicker: fp,
		width:      80,
		height:     24,
	}
}

// Init implements View
func (v *OpenView) Init() tea.Cmd {
	v.err = nil
	return v.filepicker.Init()
}

// Update implements View
func (v *OpenView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg.(type) {
	case clearPickErrorMsg:
		v.err = nil
		return v, nil
	}

	// Update file picker
	var cmd tea.Cmd
	v.filepicker, cmd = v.filepicker.Update(msg)

	// Check if a file was selected
	if didSelect, path := v.filepicker.DidSelectFile(msg); didSelect {
		v.selected = path
		return v, func() tea.Msg {
			return LoadSourceMsg{Location: path}
		}
	}

	// Check if user tried to select a disabled file
	if didSelect, path := v.filepicker.DidSelectDisabledFile(msg); didSelect {
		v.err = fmt.Errorf("no se puede abrir %s (no es un archivo .txt)", path)
		return v, tea.Tick(NoticeDuration, func(t time.Time) tea.Msg {
			return clearPickErrorMsg{}
		})
	}

	return v, cmd
}

// View implements View
func (v *OpenView) View() string {
	var b strings.Builder

	// Header
	b.WriteString(styles.TitleBar.Render(" Abrir poemas ") + "\n\n")

	// Instructions
	b.WriteString(styles.Help.Render("Elige un archivo .txt y pulsa Enter para cargarlo") + "\n")
	b.WriteString(styles.Help.Render("Esc para volver") + "\n\n")

	if v.selected != "" {
		b.WriteString(styles.SecondaryText.Render("Último: "+v.selected) + "\n\n")
	}

	// Show error
	if v.err != nil {
		b.WriteString(styles.ErrorStyle.Render(v.err.Error()) + "\n\n")
	}

	// File picker
	b.WriteString(v.filepicker.View())

	// Footer
	b.WriteString("\n\n")
	help := []string{
		styles.HelpKey.Render("↑/↓") + styles.Help.Render(" navegar"),
		styles.HelpKey.Render("enter") + styles.Help.Render(" abrir"),
		styles.HelpKey.Render("esc") + styles.Help.Render(" volver"),
	}
	b.WriteString(strings.Join(help, "  "))

	// Center the content
	content := styles.Dialog.Width(max(20, v.width-4)).Render(b.String())

	return lipgloss.Place(
		v.width,
		v.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// SetSize implements View
func (v *OpenView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.filepicker.Height = height - 15 // Leave room for header/footer
	if v.filepicker.Height < 5 {
		v.filepicker.Height = 5
	}
}
