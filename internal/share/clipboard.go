package share

import (
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// SystemClipboard uses the desktop clipboard when one is reachable and
// falls back to an OSC 52 escape so copies also work over SSH.
type SystemClipboard struct {
	// Terminal receives the OSC 52 sequence; nil opens /dev/tty
	Terminal io.Writer
}

// WriteAll implements Clipboard
func (c SystemClipboard) WriteAll(text string) error {
	if !clipboard.Unsupported {
		if err := clipboard.WriteAll(text); err == nil {
			return nil
		}
	}
	return c.writeOSC52(text)
}

func (c SystemClipboard) writeOSC52(text string) error {
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" || strings.HasPrefix(os.Getenv("TERM"), "tmux") {
		seq = seq.Tmux()
	} else if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		seq = seq.Screen()
	}

	out := c.Terminal
	if out == nil {
		tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		defer tty.Close()
		out = tty
	}
	_, err := seq.WriteTo(out)
	return err
}
