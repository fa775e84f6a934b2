package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/justyntemme/poemario/internal/browse"
	"github.com/justyntemme/poemario/internal/config"
	"github.com/justyntemme/poemario/internal/kv"
	"github.com/justyntemme/poemario/internal/ui/views"
)

const sampleText = `title: Rima LIII
author: Gustavo Adolfo Bécquer
year: 1871

Volverán las oscuras golondrinas
---
title: Caminante
author: Antonio Machado

Caminante, no hay camino
`

const (
	rimaID      = "rima-liii-gustavo-adolfo-becquer"
	caminanteID = "caminante-antonio-machado"
)

type fixture struct {
	dir    string
	config string
	source string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	for _, env := range []string{config.EnvSource, config.EnvStore, config.EnvStorePath, config.EnvLogLevel, config.EnvConfig} {
		t.Setenv(env, "")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "poemas.txt")
	require.NoError(t, os.WriteFile(src, []byte(sampleText), 0600))
	return &fixture{dir: dir, config: filepath.Join(dir, "config.yaml"), source: src}
}

// run executes the CLI with the fixture's config and source
func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", f.config, "--source", f.source}, args...))
	err := root.Execute()
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestListCommand(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "all", args: []string{"list"}, want: []string{rimaID, caminanteID}},
		{name: "query", args: []string{"list", "machado"}, want: []string{caminanteID}},
		{name: "multi word query", args: []string{"list", "oscuras", "golondrinas"}, want: []string{rimaID}},
		{name: "accented query", args: []string{"list", "bécquer"}, want: []string{rimaID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.run(t, tt.args...)
			require.NoError(t, err)

			rows := lines(out)
			require.Len(t, rows, len(tt.want))
			for i, id := range tt.want {
				fields := strings.Split(rows[i], "\t")
				require.Len(t, fields, 4)
				assert.Equal(t, "-", fields[0])
				assert.Equal(t, id, fields[1])
			}
		})
	}
}

func TestListNoResults(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "list", "inexistente")
	require.NoError(t, err)
	assert.Equal(t, views.EmptyText+"\n", out)
}

func TestFavToggleAndFavoritesFilter(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "fav", rimaID)
	require.NoError(t, err)
	assert.Equal(t, "♥ "+rimaID+"\n", out)

	out, err = f.run(t, "list", "--favorites")
	require.NoError(t, err)
	rows := lines(out)
	require.Len(t, rows, 1)
	assert.True(t, strings.HasPrefix(rows[0], "♥\t"+rimaID+"\t"))

	out, err = f.run(t, "fav", rimaID)
	require.NoError(t, err)
	assert.Equal(t, "♡ "+rimaID+"\n", out)

	out, err = f.run(t, "list", "-f")
	require.NoError(t, err)
	assert.Equal(t, views.EmptyText+"\n", out)
}

func TestReadCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "read", "?id="+caminanteID)
	require.NoError(t, err)
	assert.Equal(t, "Leído: "+caminanteID+"\n", out)

	// Marking again is harmless
	_, err = f.run(t, "read", caminanteID)
	require.NoError(t, err)

	out, err = f.run(t, "list", "machado")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "✓\t"+caminanteID))
}

func TestShowCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "show", "https://example.org/poema.html#poema/"+caminanteID)
	require.NoError(t, err)
	assert.Equal(t, "Caminante\nAntonio Machado\n\nCaminante, no hay camino\n", out)

	_, err = f.run(t, "show", "no-existe")
	assert.ErrorIs(t, err, browse.ErrNotFound)

	_, err = f.run(t, "show", "?otra=cosa")
	assert.ErrorIs(t, err, browse.ErrNotFound)
}

func TestRandomCommand(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "random", "--favorites")
	assert.ErrorIs(t, err, errNoPoems)

	_, err = f.run(t, "fav", caminanteID)
	require.NoError(t, err)

	out, err := f.run(t, "random", "--favorites")
	require.NoError(t, err)
	assert.Contains(t, out, "Caminante, no hay camino")
	assert.True(t, strings.HasSuffix(out, "poema.html?id="+caminanteID+"\n"), out)
}

func TestSQLiteBackendPersists(t *testing.T) {
	f := newFixture(t)
	storePath := filepath.Join(f.dir, "estado.db")

	_, err := f.run(t, "--store", "sqlite", "--store-path", storePath, "fav", rimaID)
	require.NoError(t, err)

	out, err := f.run(t, "--store", "sqlite", "--store-path", storePath, "list", "-f")
	require.NoError(t, err)
	assert.Contains(t, out, rimaID)

	// The default file store never saw the favorite
	out, err = f.run(t, "list", "-f")
	require.NoError(t, err)
	assert.Equal(t, views.EmptyText+"\n", out)
}

func TestUnknownBackend(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "--store", "redis", "list")
	assert.ErrorIs(t, err, kv.ErrUnknownBackend)
}

func TestMissingSource(t *testing.T) {
	f := newFixture(t)
	f.source = filepath.Join(f.dir, "no-hay.txt")

	_, err := f.run(t, "list")
	assert.Error(t, err)
}

func TestPathCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "path")
	require.NoError(t, err)
	assert.Contains(t, out, "config:\t"+f.config)
	assert.Contains(t, out, "store:\t"+filepath.Join(f.dir, "storage.json")+" (file)")
	assert.Contains(t, out, "log:\t"+filepath.Join(f.dir, "poemario.log"))
	assert.Regexp(t, `source:\t.+poemas\.txt \d+ B\n`, out)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	f := newFixture(t)

	cfg := config.Defaults(f.config)
	cfg.Source = filepath.Join(f.dir, "otro.txt")
	cfg.StoreBackend = kv.BackendMemory
	require.NoError(t, cfg.Save())

	// --source from the fixture wins over the saved source
	out, err := f.run(t, "list")
	require.NoError(t, err)
	assert.Len(t, lines(out), 2)

	// Memory store: nothing survives between runs
	_, err = f.run(t, "fav", rimaID)
	require.NoError(t, err)
	out, err = f.run(t, "list", "-f")
	require.NoError(t, err)
	assert.Equal(t, views.EmptyText+"\n", out)
}

func TestForwardChanges(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	changes := make(chan kv.Change, 2)
	changes <- kv.Change{Key: "a"}
	changes <- kv.Change{Key: "b"}
	close(changes)

	var got []tea.Msg
	forwardChanges(context.Background(), changes, func(m tea.Msg) { got = append(got, m) })

	assert.Equal(t, []tea.Msg{
		views.StoreChangedMsg{Key: "a"},
		views.StoreChangedMsg{Key: "b"},
	}, got)
}

func TestForwardChangesStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan kv.Change)

	done := make(chan struct{})
	go func() {
		defer close(done)
		forwardChanges(ctx, changes, func(tea.Msg) {})
	}()

	cancel()
	<-done
}
