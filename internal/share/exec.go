package share

import (
	"os/exec"
	"strings"
)

// CommandSharer pipes the share text to an external program, such as
// termux-share on Android.
type CommandSharer struct {
	// Command is the program and its arguments, split on whitespace
	Command string
}

// Available implements Sharer
func (s CommandSharer) Available() bool {
	fields := strings.Fields(s.Command)
	if len(fields) == 0 {
		return false
	}
	_, err := exec.LookPath(fields[0])
	return err == nil
}

// Share implements Sharer
func (s CommandSharer) Share(title, text, url string) error {
	fields := strings.Fields(s.Command)
	if len(fields) == 0 {
		return ErrUnsupported
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Stdin = strings.NewReader(text + "\n" + url + "\n")
	return cmd.Run()
}
