package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justyntemme/poemario/internal/browse"
	"github.com/justyntemme/poemario/internal/poems"
	"github.com/justyntemme/poemario/internal/route"
	"github.com/justyntemme/poemario/internal/source"
	"github.com/justyntemme/poemario/internal/ui/views"
	"github.com/justyntemme/poemario/pkg/models"
)

// errNoPoems is returned by random when the active list is empty
var errNoPoems = errors.New("no hay poemas")

// withState opens the runtime, loads the collection and runs fn
func withState(cmd *cobra.Command, opts *options, fn func(rt *runtime, st *browse.State) error) error {
	rt, err := opts.open()
	if err != nil {
		return err
	}
	defer rt.Close()

	st, err := rt.loadState(cmd.Context())
	if err != nil {
		return err
	}
	return fn(rt, st)
}

// loadState reads the configured source and builds the browse state
func (r *runtime) loadState(ctx context.Context) (*browse.State, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := r.loader.Load(ctx, r.cfg.Source)
	if err != nil {
		r.logger.Error("loading poems", zap.String("source", r.cfg.Source), zap.Error(err))
		return nil, err
	}
	collection := poems.NewCollection(src.Text)
	r.logger.Info("poems loaded",
		zap.String("source", src.Location),
		zap.Int("count", collection.Len()),
		zap.String("size", humanize.Bytes(uint64(src.Size))),
	)
	return browse.NewState(collection, r.favs), nil
}

// lookup resolves an id or deep link against the full collection
func lookup(st *browse.State, arg string) (models.Poem, error) {
	id, ok := route.ParseDeepLink(arg)
	if !ok {
		return models.Poem{}, fmt.Errorf("%w: %q", browse.ErrNotFound, arg)
	}
	p, err := st.Lookup(id)
	if err != nil {
		return models.Poem{}, fmt.Errorf("%w: %q", err, id)
	}
	return p, nil
}

func newListCmd(opts *options) *cobra.Command {
	var favoritesOnly bool

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List poems, optionally filtered by a search query",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(cmd, opts, func(rt *runtime, st *browse.State) error {
				st.SetFavoritesOnly(favoritesOnly)
				st.SetQuery(strings.Join(args, " "))

				out := cmd.OutOrStdout()
				list := st.Filtered()
				if len(list) == 0 {
					fmt.Fprintln(out, views.EmptyText)
					return nil
				}
				for _, p := range list {
					writeRow(out, p, st.IsFavorite(p.ID), rt.read.IsRead(p.ID))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&favoritesOnly, "favorites", "f", false, "only favorites")
	return cmd
}

// writeRow prints one tab-separated list line: marks, id, title, meta
func writeRow(w io.Writer, p models.Poem, favorite, read bool) {
	marks := ""
	if favorite {
		marks += "♥"
	}
	if read {
		marks += "✓"
	}
	if marks == "" {
		marks = "-"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marks, p.ID, p.Title, p.Meta())
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|deep link>",
		Short: "Print one poem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(cmd, opts, func(rt *runtime, st *browse.State) error {
				p, err := lookup(st, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p.CopyText())
				return nil
			})
		},
	}
}

func newRandomCmd(opts *options) *cobra.Command {
	var favoritesOnly bool

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print a random poem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(cmd, opts, func(rt *runtime, st *browse.State) error {
				st.SetFavoritesOnly(favoritesOnly)
				p, ok := st.Random(nil)
				if !ok {
					return errNoPoems
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, p.CopyText())
				fmt.Fprintln(out)
				fmt.Fprintln(out, rt.shareService().Link(p))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&favoritesOnly, "favorites", "f", false, "pick among favorites only")
	return cmd
}

func newFavCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fav <id|deep link>",
		Short: "Toggle a poem's favorite mark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(cmd, opts, func(rt *runtime, st *browse.State) error {
				p, err := lookup(st, args[0])
				if err != nil {
					return err
				}
				on, err := st.ToggleFavorite(p.ID)
				if err != nil {
					return fmt.Errorf("saving favorite: %w", err)
				}
				mark := "♡"
				if on {
					mark = "♥"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, p.ID)
				return nil
			})
		},
	}
}

func newReadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id|deep link>",
		Short: "Mark a poem as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(cmd, opts, func(rt *runtime, st *browse.State) error {
				p, err := lookup(st, args[0])
				if err != nil {
					return err
				}
				if !rt.read.IsRead(p.ID) {
					if err := rt.read.MarkRead(p.ID); err != nil {
						return fmt.Errorf("saving read mark: %w", err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Leído: %s\n", p.ID)
				return nil
			})
		},
	}
}

func newPathCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config, store, log and source locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:\t%s\n", rt.cfg.Path())
			fmt.Fprintf(out, "store:\t%s (%s)%s\n", rt.cfg.ResolvedStorePath(), rt.cfg.StoreBackend, fileSize(rt.store.Path()))
			fmt.Fprintf(out, "log:\t%s%s\n", rt.cfg.ResolvedLogFile(), fileSize(rt.cfg.ResolvedLogFile()))
			if source.IsRemote(rt.cfg.Source) {
				fmt.Fprintf(out, "source:\t%s\n", rt.cfg.Source)
			} else {
				fmt.Fprintf(out, "source:\t%s%s\n", rt.cfg.Source, fileSize(rt.cfg.Source))
			}
			return nil
		},
	}
}

// fileSize formats a file's size for path output, or "" when it does not exist
func fileSize(path string) string {
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return " " + humanize.Bytes(uint64(info.Size()))
}
