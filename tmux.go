package termpix

import (
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/BourgeoisBear/rasterm"
	"github.com/apex/log"
)

var tmuxPassthroughOnce sync.Once

// InTmux reports whether output goes through tmux or screen
func InTmux() bool {
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux" || rasterm.IsTmuxScreen()
}

// EnableTmuxPassthrough turns on allow-passthrough for the current pane.
// Graphics sequences are dropped by tmux without it.
func EnableTmuxPassthrough() {
	tmuxPassthroughOnce.Do(func() {
		// -p flag sets the option for the current pane only
		cmd := exec.Command("tmux", "set", "-p", "allow-passthrough", "on")
		if err := cmd.Run(); err != nil {
			log.WithError(err).Debug("failed to enable tmux passthrough")
		}
	})
}

// WrapPassthrough wraps an escape sequence in a tmux DCS passthrough envelope.
// Every ESC inside the sequence is doubled.
func WrapPassthrough(output string) string {
	if !strings.HasPrefix(output, "\x1b") {
		return output
	}
	return "\x1bPtmux;" + strings.ReplaceAll(output, "\x1b", "\x1b\x1b") + "\x1b\\"
}
