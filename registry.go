package termpix

import (
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
)

// ProtocolOverrideEnv forces a single protocol into the detected capability set
const ProtocolOverrideEnv = "TERMPIX_PROTOCOL"

// maxAncestry bounds the parent process walk
const maxAncestry = 16

// Terminal identifies a terminal emulator.
type Terminal int

const (
	TerminalUnknown Terminal = iota
	TerminalWindows
	TerminalWindowsPreview
	TerminalWindowsCanary
	TerminalKitty
	TerminalGhostty
	TerminalWezTerm
	TerminalITerm2
	TerminalKonsole
	TerminalVSCode
	TerminalMintty
	TerminalRio
	TerminalWarp
	TerminalFoot
	TerminalMlterm
	TerminalContour
	TerminalXterm
)

var terminalNames = map[Terminal]string{
	TerminalUnknown:        "unknown",
	TerminalWindows:        "Windows Terminal",
	TerminalWindowsPreview: "Windows Terminal Preview",
	TerminalWindowsCanary:  "Windows Terminal Canary",
	TerminalKitty:          "kitty",
	TerminalGhostty:        "Ghostty",
	TerminalWezTerm:        "WezTerm",
	TerminalITerm2:         "iTerm2",
	TerminalKonsole:        "Konsole",
	TerminalVSCode:         "VS Code",
	TerminalMintty:         "mintty",
	TerminalRio:            "Rio",
	TerminalWarp:           "Warp",
	TerminalFoot:           "foot",
	TerminalMlterm:         "mlterm",
	TerminalContour:        "Contour",
	TerminalXterm:          "xterm",
}

func (t Terminal) String() string {
	if name, ok := terminalNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Terminal(%d)", int(t))
}

// terminalCapabilities is the fixed protocol support table
var terminalCapabilities = map[Terminal]CapabilitySet{
	TerminalWindows:        NewCapabilitySet(Sixel, Halfblocks, Braille),
	TerminalWindowsPreview: NewCapabilitySet(Sixel, Halfblocks, Braille),
	TerminalWindowsCanary:  NewCapabilitySet(Sixel, Halfblocks, Braille),
	TerminalKitty:          NewCapabilitySet(Kitty, Halfblocks, Braille),
	TerminalGhostty:        NewCapabilitySet(Kitty, Halfblocks, Braille),
	TerminalWezTerm:        NewCapabilitySet(Sixel, Kitty, ITerm2, Halfblocks, Braille),
	TerminalITerm2:         NewCapabilitySet(Sixel, ITerm2, Halfblocks, Braille),
	TerminalKonsole:        NewCapabilitySet(Sixel, Kitty, Halfblocks, Braille),
	TerminalVSCode:         NewCapabilitySet(Sixel, ITerm2, Halfblocks, Braille),
	TerminalMintty:         NewCapabilitySet(Sixel, ITerm2, Halfblocks, Braille),
	TerminalRio:            NewCapabilitySet(Sixel, ITerm2, Halfblocks, Braille),
	TerminalWarp:           NewCapabilitySet(Kitty, ITerm2, Halfblocks, Braille),
	TerminalFoot:           NewCapabilitySet(Sixel, Halfblocks, Braille),
	TerminalMlterm:         NewCapabilitySet(Sixel, Halfblocks, Braille),
	TerminalContour:        NewCapabilitySet(Sixel, Halfblocks, Braille),
	TerminalXterm:          NewCapabilitySet(Sixel, Halfblocks, Braille),
}

// Capabilities returns the fixed capability set of t
func (t Terminal) Capabilities() CapabilitySet {
	if caps, ok := terminalCapabilities[t]; ok {
		return caps
	}
	return glyphOnly
}

// edition picks a sibling identity from keywords in the host executable path
type edition struct {
	keyword  string
	terminal Terminal
}

// marker is one environment signal identifying a terminal
type marker struct {
	env      string
	terminal Terminal            // set when the variable's presence is enough
	values   map[string]Terminal // matched case-insensitively against the value otherwise

	// host and editions disambiguate identities sharing one host process
	host     string
	editions []edition
}

// markers are checked in order, the first match wins.
// CONTOUR_PROFILE comes early because parent terminal variables leak into Contour.
var markers = []marker{
	{
		env:      "WT_SESSION",
		terminal: TerminalWindows,
		host:     "windowsterminal",
		editions: []edition{
			{keyword: "canary", terminal: TerminalWindowsCanary},
			{keyword: "preview", terminal: TerminalWindowsPreview},
		},
	},
	{env: "CONTOUR_PROFILE", terminal: TerminalContour},
	{env: "KITTY_WINDOW_ID", terminal: TerminalKitty},
	{env: "GHOSTTY_RESOURCES_DIR", terminal: TerminalGhostty},
	{env: "WEZTERM_EXECUTABLE", terminal: TerminalWezTerm},
	{env: "ITERM_SESSION_ID", terminal: TerminalITerm2},
	{env: "KONSOLE_VERSION", terminal: TerminalKonsole},
	{env: "XTERM_VERSION", terminal: TerminalXterm},
	{env: "TERM_PROGRAM", values: map[string]Terminal{
		"vscode":       TerminalVSCode,
		"iterm.app":    TerminalITerm2,
		"wezterm":      TerminalWezTerm,
		"ghostty":      TerminalGhostty,
		"rio":          TerminalRio,
		"warpterminal": TerminalWarp,
		"mintty":       TerminalMintty,
		"contour":      TerminalContour,
	}},
	{env: "LC_TERMINAL", values: map[string]Terminal{
		"iterm2": TerminalITerm2,
	}},
	{env: "TERM", values: map[string]Terminal{
		"xterm-kitty":   TerminalKitty,
		"xterm-ghostty": TerminalGhostty,
		"foot":          TerminalFoot,
		"foot-extra":    TerminalFoot,
		"mlterm":        TerminalMlterm,
		"mintty":        TerminalMintty,
		"contour":       TerminalContour,
		"wezterm":       TerminalWezTerm,
	}},
}

// Environment exposes the environment variables and process ancestry used for identification.
type Environment interface {
	LookupEnv(key string) (string, bool)
	// ParentProcesses returns executable paths from the immediate parent outwards
	ParentProcesses() ([]string, error)
}

// OSEnvironment reads the real process environment.
type OSEnvironment struct{}

// LookupEnv wraps os.LookupEnv
func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// ParentProcesses walks the process tree of the current process
func (OSEnvironment) ParentProcesses() ([]string, error) {
	return parentProcesses(maxAncestry)
}

// Identify detects the terminal from environment signals and returns its capability set.
// It never fails: unmatched environments yield TerminalUnknown.
func Identify(env Environment) (Terminal, CapabilitySet) {
	if env == nil {
		env = OSEnvironment{}
	}

	terminal := TerminalUnknown
	for _, m := range markers {
		if t, ok := m.match(env); ok {
			terminal = t
			if len(m.editions) > 0 {
				terminal = m.disambiguate(env)
			}
			break
		}
	}

	caps := terminal.Capabilities()
	if p, ok := protocolOverride(env); ok {
		caps = caps.With(p)
	}

	log.WithFields(log.Fields{
		"terminal":     terminal.String(),
		"capabilities": caps.String(),
	}).Debug("identified terminal")

	return terminal, caps
}

func (m marker) match(env Environment) (Terminal, bool) {
	value, ok := env.LookupEnv(m.env)
	if !ok || value == "" {
		return TerminalUnknown, false
	}
	if m.values == nil {
		return m.terminal, true
	}
	t, ok := m.values[strings.ToLower(value)]
	return t, ok
}

// disambiguate finds the host process in the ancestry and matches edition keywords in its path
func (m marker) disambiguate(env Environment) Terminal {
	ancestry, err := env.ParentProcesses()
	if err != nil {
		log.WithError(err).Debug("failed to walk process ancestry")
		return m.terminal
	}
	for _, path := range ancestry {
		lower := strings.ToLower(path)
		if !strings.Contains(lower, m.host) {
			continue
		}
		for _, e := range m.editions {
			if strings.Contains(lower, e.keyword) {
				return e.terminal
			}
		}
		return m.terminal
	}
	return m.terminal
}

func protocolOverride(env Environment) (Protocol, bool) {
	value, ok := env.LookupEnv(ProtocolOverrideEnv)
	if !ok || value == "" {
		return Auto, false
	}
	p, err := ParseProtocol(value)
	if err != nil || p == Auto {
		return Auto, false
	}
	return p, true
}
