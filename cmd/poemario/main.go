package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/poemario/internal/config"
	"github.com/justyntemme/poemario/internal/favorites"
	"github.com/justyntemme/poemario/internal/kv"
	"github.com/justyntemme/poemario/internal/logging"
	"github.com/justyntemme/poemario/internal/readstate"
	"github.com/justyntemme/poemario/internal/share"
	"github.com/justyntemme/poemario/internal/source"
	"github.com/justyntemme/poemario/internal/ui"
	"github.com/justyntemme/poemario/internal/ui/views"
)

// fetchTimeout bounds remote source downloads
const fetchTimeout = 30 * time.Second

// options are the flags shared by every command
type options struct {
	configPath string
	source     string
	store      string
	storePath  string
	deepLink   string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "poemario",
		Short: "Terminal reader for a plain-text poem collection",
		Long: `poemario loads a text file of poems separated by "---" lines and lets you
search, read, favorite, copy and share them.

Run without a subcommand to start the interactive reader.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: user config dir)")
	flags.StringVarP(&opts.source, "source", "s", "", "poem file path or http(s) URL")
	flags.StringVar(&opts.store, "store", "", "storage backend: file, sqlite or memory")
	flags.StringVar(&opts.storePath, "store-path", "", "storage file location")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	root.Flags().StringVar(&opts.deepLink, "open", "", "open a poem at start (id, ?id=... or #poema/...)")

	root.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newRandomCmd(opts),
		newFavCmd(opts),
		newReadCmd(opts),
		newPathCmd(opts),
	)
	return root
}

// runtime is everything a command needs, built from config and flags
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  kv.Store
	favs   *favorites.Store
	read   *readstate.Store
	loader *source.Loader
}

// open loads the config, applies flag overrides and opens the store
func (o *options) open() (*runtime, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if o.source != "" {
		cfg.Source = o.source
	}
	if o.store != "" {
		cfg.StoreBackend = o.store
	}
	if o.storePath != "" {
		cfg.StorePath = o.storePath
	}

	logger, err := logging.New(logging.Options{
		File:    cfg.ResolvedLogFile(),
		Level:   cfg.LogLevel,
		Verbose: o.verbose,
	})
	if err != nil {
		return nil, err
	}

	store, err := kv.Open(cfg.StoreBackend, cfg.ResolvedStorePath())
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("store opened",
		zap.String("backend", cfg.StoreBackend),
		zap.String("path", store.Path()),
	)

	return &runtime{
		cfg:    cfg,
		logger: logger,
		store:  store,
		favs:   favorites.New(store, logger),
		read:   readstate.New(store, logger),
		loader: source.NewLoader(fetchTimeout),
	}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("closing store", zap.Error(err))
	}
	_ = r.logger.Sync()
}

// shareService wires the clipboard and the configured share command
func (r *runtime) shareService() *share.Service {
	var sharer share.Sharer
	if r.cfg.ShareCommand != "" {
		sharer = share.CommandSharer{Command: r.cfg.ShareCommand}
	}
	return share.NewService(share.SystemClipboard{}, sharer, r.cfg.ShareBaseURL, r.logger)
}

// runTUI runs the interactive reader next to a watcher that forwards
// store changes made by other processes
func runTUI(cmd *cobra.Command, opts *options) error {
	rt, err := opts.open()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app := ui.NewApp(ui.Deps{
		Context:   ctx,
		Config:    rt.cfg,
		Loader:    rt.loader,
		Favorites: rt.favs,
		ReadState: rt.read,
		Share:     rt.shareService(),
		Logger:    rt.logger,
	}, rt.cfg.Source, opts.deepLink)

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithMouseCellMotion(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running program: %w", err)
		}
		return nil
	})

	watcher, err := kv.NewWatcher(rt.store, rt.logger)
	switch {
	case errors.Is(err, kv.ErrNotWatchable):
		rt.logger.Debug("store is not watchable, changes from other processes arrive on focus")
	case err != nil:
		rt.logger.Warn("store watcher unavailable", zap.Error(err))
	default:
		if err := watcher.Start(gctx); err != nil {
			rt.logger.Warn("starting store watcher", zap.Error(err))
			break
		}
		defer watcher.Stop()
		g.Go(func() error {
			forwardChanges(gctx, watcher.Changes(), p.Send)
			return nil
		})
	}

	return g.Wait()
}

// forwardChanges delivers store changes to the program until ctx ends or
// the channel closes
func forwardChanges(ctx context.Context, changes <-chan kv.Change, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			send(views.StoreChangedMsg{Key: c.Key})
		}
	}
}
