package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/justyntemme/poemario/internal/browse"
	"github.com/justyntemme/poemario/internal/config"
	"github.com/justyntemme/poemario/internal/favorites"
	"github.com/justyntemme/poemario/internal/poems"
	"github.com/justyntemme/poemario/internal/readstate"
	"github.com/justyntemme/poemario/internal/route"
	"github.com/justyntemme/poemario/internal/share"
	"github.com/justyntemme/poemario/internal/source"
	"github.com/justyntemme/poemario/internal/ui/styles"
	"github.com/justyntemme/poemario/internal/ui/views"
)

// ErrorDuration is how long the error bar stays up
const ErrorDuration = 5 * time.Second

// Deps are the application's collaborators. Config and Context may be nil.
type Deps struct {
	Context   context.Context
	Config    *config.Config
	Loader    *source.Loader
	Favorites browse.Favorites
	ReadState *readstate.Store
	Share     *share.Service
	Logger    *zap.Logger
}

// App is the main application model
type App struct {
	ctx    context.Context
	config *config.Config
	loader *source.Loader
	favs   browse.Favorites
	logger *zap.Logger
	keys   KeyMap

	// Current view state
	currentView views.ViewType

	// Window dimensions
	width  int
	height int

	// Source and navigation state
	sourceLocation string
	deepLink       string
	location       string
	state          *browse.State
	saveSource     bool

	// View models
	listView views.View
	poemView views.View
	openView views.View

	// Error/status message; errSeq pairs each error with its clear
	err      error
	errSeq   int
	showHelp bool
}

// NewApp creates a new application instance. deepLink, when set, is
// resolved once the source loads.
func NewApp(deps Deps, sourceLocation, deepLink string) *App {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Loader == nil {
		deps.Loader = &source.Loader{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	svc := &views.Services{
		Config:    deps.Config,
		ReadState: deps.ReadState,
		Share:     deps.Share,
		Logger:    deps.Logger,
	}

	app := &App{
		ctx:            deps.Context,
		config:         deps.Config,
		loader:         deps.Loader,
		favs:           deps.Favorites,
		logger:         deps.Logger,
		keys:           DefaultKeyMap(),
		currentView:    views.ViewList,
		sourceLocation: sourceLocation,
		deepLink:       deepLink,
		location:       route.ListLocation,
		width:          80,
		height:         24,
	}

	// Initialize views
	app.listView = views.NewListView(svc)
	app.poemView = views.NewPoemView(svc)
	app.openView = views.NewOpenView()

	if deps.Config != nil && deps.Config.Theme != "" {
		styles.SetCurrentTheme(deps.Config.Theme)
	}

	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadSource(a.sourceLocation),
		a.getCurrentView().Init(),
		tea.SetWindowTitle("Poemario"),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Propagate to all views
		a.listView.SetSize(msg.Width, msg.Height)
		a.poemView.SetSize(msg.Width, msg.Height)
		a.openView.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.FocusMsg:
		// Another process may have changed favorites while we were away
		a.refreshFavorites("focus")
		return a, nil

	case views.StoreChangedMsg:
		if msg.Key == favorites.StorageKey {
			a.refreshFavorites("store changed")
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if c, ok := a.getCurrentView().(views.InputCapturer); ok && c.CapturingInput() {
			break
		}

		// Global key handling
		switch {
		case key.Matches(msg, a.keys.Quit):
			// On the poem page or the file picker, go back to the list instead of quitting
			if a.currentView != views.ViewList {
				return a.switchView(views.ViewList)
			}
			return a, tea.Quit

		case key.Matches(msg, a.keys.Help):
			a.showHelp = !a.showHelp
			return a, nil

		case key.Matches(msg, a.keys.Escape):
			// Handle back navigation
			if a.showHelp {
				a.showHelp = false
				return a, nil
			}
			if a.currentView != views.ViewList {
				return a.switchView(views.ViewList)
			}
		}

	case views.SourceLoadedMsg:
		return a, a.applySource(msg)

	case views.LoadSourceMsg:
		a.saveSource = true
		return a, a.loadSource(msg.Location)

	case views.OpenPoemMsg:
		a.poemView.(*views.PoemView).SetPoem(msg.ID)
		return a.switchView(views.ViewPoem)

	case views.LocationMsg:
		a.location = msg.Location
		return a, nil

	case views.ThemeChangedMsg:
		if a.config != nil {
			if err := a.config.SetTheme(msg.Name); err != nil {
				a.logger.Warn("saving theme", zap.String("theme", msg.Name), zap.Error(err))
			}
		}
		return a, nil

	case views.ErrorMsg:
		a.err = msg.Err
		a.errSeq++
		return a, views.ClearError(a.errSeq, ErrorDuration)

	case views.ClearErrorMsg:
		if msg.Seq == a.errSeq {
			a.err = nil
		}
		return a, nil

	case views.SwitchViewMsg:
		return a.switchView(msg.View)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.currentView {
	case views.ViewList:
		a.listView, cmd = a.listView.Update(msg)
	case views.ViewPoem:
		a.poemView, cmd = a.poemView.Update(msg)
	case views.ViewOpen:
		a.openView, cmd = a.openView.Update(msg)
	}
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View implements tea.Model
func (a *App) View() string {
	// Add help overlay if shown
	if a.showHelp {
		return a.renderHelp()
	}

	content := a.getCurrentView().View()

	// Add error bar if there's an error
	if a.err != nil {
		errorBar := styles.ErrorStyle.Render("Error: " + a.err.Error())
		content = lipgloss.JoinVertical(lipgloss.Left, content, errorBar)
	}

	return content
}

// Location returns the current location: the list, or ?id=<poem> while
// a poem is shown
func (a *App) Location() string {
	return a.location
}

// CurrentView returns the active screen
func (a *App) CurrentView() views.ViewType {
	return a.currentView
}

// State returns the browse state, nil until the source loads
func (a *App) State() *browse.State {
	return a.state
}

// ListView returns the list screen
func (a *App) ListView() *views.ListView {
	return a.listView.(*views.ListView)
}

// PoemView returns the poem page
func (a *App) PoemView() *views.PoemView {
	return a.poemView.(*views.PoemView)
}

// switchView changes the current view and initializes it
func (a *App) switchView(view views.ViewType) (*App, tea.Cmd) {
	a.currentView = view
	a.err = nil
	if view == views.ViewList {
		a.location = route.ListLocation
	}

	return a, a.getCurrentView().Init()
}

// getCurrentView returns the current view model
func (a *App) getCurrentView() views.View {
	switch a.currentView {
	case views.ViewPoem:
		return a.poemView
	case views.ViewOpen:
		return a.openView
	default:
		return a.listView
	}
}

// refreshFavorites reloads favorites and re-filters
func (a *App) refreshFavorites(reason string) {
	if a.state == nil {
		return
	}
	a.ListView().Reload()
	a.logger.Debug("favorites reloaded", zap.String("reason", reason))
}

// loadSource reads and parses the poem source in the background
func (a *App) loadSource(location string) tea.Cmd {
	ctx := a.ctx
	loader := a.loader
	return func() tea.Msg {
		src, err := loader.Load(ctx, location)
		if err != nil {
			return views.SourceLoadedMsg{Source: &source.Source{Location: location}, Err: err}
		}
		return views.SourceLoadedMsg{Source: src, Collection: poems.NewCollection(src.Text)}
	}
}

// applySource installs a loaded collection and resolves a pending deep link
func (a *App) applySource(msg views.SourceLoadedMsg) tea.Cmd {
	location := a.sourceLocation
	if msg.Source != nil && msg.Source.Location != "" {
		location = msg.Source.Location
	}

	if msg.Err != nil {
		a.logger.Error("loading poems", zap.String("source", location), zap.Error(msg.Err))
		a.saveSource = false
		if a.state != nil {
			// Keep the collection we already have
			return views.SendError(msg.Err)
		}
		a.listView.(*views.ListView).SetSource(nil, msg.Source, location, msg.Err)
		if a.currentView == views.ViewOpen {
			_, cmd := a.switchView(views.ViewList)
			return cmd
		}
		return nil
	}

	a.sourceLocation = location
	a.state = browse.NewState(msg.Collection, a.favs)
	a.listView.(*views.ListView).SetSource(a.state, msg.Source, location, nil)
	a.poemView.(*views.PoemView).SetState(a.state)
	a.logger.Info("poems loaded",
		zap.String("source", location),
		zap.Int("count", msg.Collection.Len()),
		zap.String("size", humanize.Bytes(uint64(msg.Source.Size))),
	)

	if a.saveSource {
		a.saveSource = false
		if a.config != nil {
			a.config.Source = location
			if err := a.config.Save(); err != nil {
				a.logger.Warn("saving source", zap.Error(err))
			}
		}
		if a.currentView == views.ViewOpen {
			_, cmd := a.switchView(views.ViewList)
			return cmd
		}
	}

	if a.deepLink != "" {
		link := a.deepLink
		a.deepLink = ""
		id, _ := route.ParseDeepLink(link)
		return views.OpenPoem(id)
	}
	return nil
}

// renderHelp renders the help overlay
func (a *App) renderHelp() string {
	help := styles.Dialog.Width(60).Render(
		styles.DialogTitle.Render("Atajos de teclado") + "\n\n" +
			styles.HelpKey.Render("Lista") + "\n" +
			"  j/k     Mover\n" +
			"  /       Buscar (filtra al escribir)\n" +
			"  F       Solo favoritos\n" +
			"  f       Marcar/quitar favorito\n" +
			"  r       Poema al azar\n" +
			"  Enter   Leer en ventana\n" +
			"  o       Abrir en página\n" +
			"  c       Copiar\n" +
			"  m       Marcar como leído\n" +
			"  a       Abrir otro archivo\n" +
			"  T       Cambiar tema\n" +
			styles.MutedText.Render("          "+strings.Join(styles.ThemeNames(), " · ")) + "\n\n" +
			styles.HelpKey.Render("Poema") + "\n" +
			"  h/l     Anterior/Siguiente\n" +
			"  j/k     Desplazar\n" +
			"  f c s m Favorito, copiar, compartir, leído\n\n" +
			styles.HelpKey.Render("General") + "\n" +
			"  q       Salir/Volver\n" +
			"  Esc     Volver\n" +
			"  ?       Ayuda\n",
	)

	// Center the help dialog
	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		help,
	)
}
