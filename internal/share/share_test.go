package share

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/poemario/pkg/models"
)

type fakeClipboard struct {
	writes []string
	err    error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, text)
	return nil
}

type fakeSharer struct {
	available bool
	err       error
	calls     [][3]string
}

func (s *fakeSharer) Available() bool { return s.available }

func (s *fakeSharer) Share(title, text, url string) error {
	s.calls = append(s.calls, [3]string{title, text, url})
	return s.err
}

var noche = models.Poem{
	ID: "noche-y", Title: "Noche", Author: "Y",
	Tags: []string{"triste", "breve"}, Content: "Sola",
}

func TestCopy(t *testing.T) {
	clip := &fakeClipboard{}
	s := NewService(clip, nil, "", nil)

	require.NoError(t, s.Copy(noche))
	assert.Equal(t, []string{"Noche\nY — triste · breve\n\nSola"}, clip.writes)

	clip.err = errors.New("no display")
	assert.Error(t, s.Copy(noche))
}

func TestShareUsesPlatformWhenAvailable(t *testing.T) {
	clip := &fakeClipboard{}
	sharer := &fakeSharer{available: true}
	s := NewService(clip, sharer, "https://example.org/poema.html", nil)

	out, err := s.Share(noche)
	require.NoError(t, err)
	assert.Equal(t, Shared, out)
	assert.Empty(t, clip.writes)
	require.Len(t, sharer.calls, 1)
	assert.Equal(t, [3]string{
		"Noche",
		"Noche — Y — triste · breve",
		"https://example.org/poema.html?id=noche-y",
	}, sharer.calls[0])

	// a failing platform share is reported but does not fall back
	sharer.err = errors.New("cancelled")
	out, err = s.Share(noche)
	assert.Error(t, err)
	assert.Equal(t, Shared, out)
	assert.Empty(t, clip.writes)
}

func TestShareFallsBackToCopyingLink(t *testing.T) {
	for _, sharer := range []Sharer{nil, &fakeSharer{available: false}, CommandSharer{}} {
		clip := &fakeClipboard{}
		s := NewService(clip, sharer, "https://example.org/poema.html", nil)

		out, err := s.Share(noche)
		require.NoError(t, err)
		assert.Equal(t, LinkCopied, out)
		assert.Equal(t, []string{"https://example.org/poema.html?id=noche-y"}, clip.writes)
	}
}

func TestCommandSharerUnavailable(t *testing.T) {
	assert.False(t, CommandSharer{Command: "definitely-not-a-real-binary-xyz"}.Available())
	assert.ErrorIs(t, CommandSharer{}.Share("t", "x", "u"), ErrUnsupported)
}

func TestOSC52Fallback(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")

	var buf bytes.Buffer
	c := SystemClipboard{Terminal: &buf}
	require.NoError(t, c.writeOSC52("hola"))
	assert.Contains(t, buf.String(), base64.StdEncoding.EncodeToString([]byte("hola")))
	assert.Contains(t, buf.String(), "\x1b]52;")
}
