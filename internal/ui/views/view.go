package views

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/justyntemme/poemario/internal/config"
	"github.com/justyntemme/poemario/internal/poems"
	"github.com/justyntemme/poemario/internal/readstate"
	"github.com/justyntemme/poemario/internal/share"
	"github.com/justyntemme/poemario/internal/source"
)

// ViewType represents different screens in the application
type ViewType int

const (
	ViewList ViewType = iota
	ViewPoem
	ViewOpen
)

// String returns the name of the view
func (v ViewType) String() string {
	switch v {
	case ViewList:
		return "List"
	case ViewPoem:
		return "Poem"
	case ViewOpen:
		return "Open"
	default:
		return "Unknown"
	}
}

// View is the interface that all views must implement
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// InputCapturer is implemented by views that sometimes need every key,
// such as while typing a search or while a dialog is open. The app skips
// its global bindings while CapturingInput is true.
type InputCapturer interface {
	CapturingInput() bool
}

// Services are the collaborators views act through. Config may be nil.
type Services struct {
	Config    *config.Config
	ReadState *readstate.Store
	Share     *share.Service
	Logger    *zap.Logger
}

func (s *Services) logger() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Message types for inter-view communication

// SourceLoadedMsg carries the result of loading the poem source
type SourceLoadedMsg struct {
	Source     *source.Source
	Collection *poems.Collection
	Err        error
}

// LoadSourceMsg asks the app to load poems from another location
type LoadSourceMsg struct {
	Location string
}

// OpenPoemMsg is sent when a poem should be shown on its own page
type OpenPoemMsg struct {
	ID string
}

// LocationMsg replaces the app's current location without adding history
type LocationMsg struct {
	Location string
}

// StoreChangedMsg reports a key written by another poemario process
type StoreChangedMsg struct {
	Key string
}

// ThemeChangedMsg is sent after the theme was cycled
type ThemeChangedMsg struct {
	Name string
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the error it was scheduled for. A newer error
// carries a higher Seq and is left alone.
type ClearErrorMsg struct {
	Seq int
}

// SwitchViewMsg requests a view switch
type SwitchViewMsg struct {
	View ViewType
}

// Helper functions to create messages

// SendError creates an error message command
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// ClearError clears error seq after d
func ClearError(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearErrorMsg{Seq: seq}
	})
}

// SwitchTo creates a command to switch views
func SwitchTo(view ViewType) tea.Cmd {
	return func() tea.Msg {
		return SwitchViewMsg{View: view}
	}
}

// SetLocation creates a command that rewrites the app location
func SetLocation(location string) tea.Cmd {
	return func() tea.Msg {
		return LocationMsg{Location: location}
	}
}

// OpenPoem creates a command that opens id on the poem page
func OpenPoem(id string) tea.Cmd {
	return func() tea.Msg {
		return OpenPoemMsg{ID: id}
	}
}

// NotifyThemeChanged creates a command announcing the new theme
func NotifyThemeChanged(name string) tea.Cmd {
	return func() tea.Msg {
		return ThemeChangedMsg{Name: name}
	}
}
