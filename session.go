package termpix

import (
	"strings"
	"sync"

	"github.com/apex/log"

	"github.com/blacktop/go-termpix/pkg/csi"
)

// Session owns the connection to one terminal and memoizes what was learned
// by probing it. Cached results are discarded whenever the window size in
// character cells changes.
//
// A Session is safe for concurrent use; probes are serialized because each one
// is a write-then-read handshake on the shared terminal.
type Session struct {
	console csi.Console
	env     Environment
	imaging Imaging
	// passthrough wraps probes for tmux so they reach the outer terminal
	passthrough bool

	mu       sync.Mutex
	cols     int
	rows     int
	terminal *Terminal
	caps     CapabilitySet
	cell     *CellSize
	sixel    *bool
	kitty    *bool
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithConsole sets the terminal channel used for probing
func WithConsole(c csi.Console) SessionOption {
	return func(s *Session) { s.console = c }
}

// WithEnvironment sets the environment used to identify the terminal
func WithEnvironment(env Environment) SessionOption {
	return func(s *Session) { s.env = env }
}

// WithPassthrough wraps probe queries in tmux passthrough. Sessions on the
// controlling terminal always do this when InTmux reports true.
func WithPassthrough(enabled bool) SessionOption {
	return func(s *Session) { s.passthrough = enabled }
}

// WithImaging sets the image capability used for resizing and encoding
func WithImaging(im Imaging) SessionOption {
	return func(s *Session) { s.imaging = im }
}

// NewSession creates a session. Without options it probes the controlling
// terminal and reads the process environment.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	if s.console == nil {
		s.console = csi.Open()
		s.passthrough = s.passthrough || InTmux()
	}
	if s.env == nil {
		s.env = OSEnvironment{}
	}
	if s.imaging == nil {
		s.imaging = NewImaging()
	}
	return s
}

var (
	defaultSession     *Session
	defaultSessionOnce sync.Once
)

// DefaultSession returns the process-wide session for the controlling terminal
func DefaultSession() *Session {
	defaultSessionOnce.Do(func() {
		defaultSession = NewSession()
	})
	return defaultSession
}

// Imaging returns the session's image capability
func (s *Session) Imaging() Imaging {
	return s.imaging
}

// WindowSize returns the terminal size in character cells, 0x0 when unknown
func (s *Session) WindowSize() (cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateOnResize()
	return s.cols, s.rows
}

// invalidateOnResize drops cached probe results if the window size changed.
// Callers must hold s.mu.
func (s *Session) invalidateOnResize() {
	cols, rows, err := s.console.Size()
	if err != nil {
		cols, rows = 0, 0
	}
	if cols == s.cols && rows == s.rows {
		return
	}
	if s.cell != nil || s.sixel != nil || s.kitty != nil {
		log.WithFields(log.Fields{
			"from": [2]int{s.cols, s.rows},
			"to":   [2]int{cols, rows},
		}).Debug("window resized, discarding probe cache")
	}
	s.cols, s.rows = cols, rows
	s.cell = nil
	s.sixel = nil
	s.kitty = nil
}

// query sends seq to the terminal, through tmux when passthrough is on
func (s *Session) query(seq string) string {
	return csi.Query(s.console, s.wrap(seq))
}

// wrap converts seq (written after a leading ESC) into its tmux passthrough form
func (s *Session) wrap(seq string) string {
	if !s.passthrough {
		return seq
	}
	return strings.TrimPrefix(WrapPassthrough("\x1b"+seq), "\x1b")
}

// CellSize returns the pixel size of one character cell, DefaultCellSize when
// the terminal does not answer or answers with something unparseable
func (s *Session) CellSize() CellSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateOnResize()

	if s.cell == nil {
		cell := DefaultCellSize
		if w, h, ok := csi.ParseCellSize(s.query(csi.CellSizeQuery)); ok {
			cell = CellSize{Width: w, Height: h}
		}
		s.cell = &cell
	}
	return *s.cell
}

// SixelSupported reports whether the device attributes advertise sixel graphics
func (s *Session) SixelSupported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateOnResize()

	if s.sixel == nil {
		ok := csi.HasSixel(s.query(csi.DeviceAttributesQuery))
		s.sixel = &ok
	}
	return *s.sixel
}

// KittySupported reports whether the terminal acknowledged a kitty graphics test transmission
func (s *Session) KittySupported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateOnResize()

	if s.kitty == nil {
		ok := csi.HasGraphicsOK(csi.QueryGraphics(s.console, s.wrap(csi.KittyGraphicsQuery)))
		s.kitty = &ok
	}
	return *s.kitty
}

// Identify returns the terminal identity and its fixed capability set
func (s *Session) Identify() (Terminal, CapabilitySet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal == nil {
		t, caps := Identify(s.env)
		s.terminal = &t
		s.caps = caps
	}
	return *s.terminal, s.caps
}

// Capabilities merges the registry's capability set with what probing discovered
func (s *Session) Capabilities() CapabilitySet {
	_, caps := s.Identify()
	if !caps.Contains(Sixel) && s.SixelSupported() {
		caps = caps.With(Sixel)
	}
	if !caps.Contains(Kitty) && s.KittySupported() {
		caps = caps.With(Kitty)
	}
	return caps
}

// ResolveSize computes the target cell size of a srcW x srcH image using the
// session's cell geometry and window width
func (s *Session) ResolveSize(srcW, srcH int, requested TargetCellSize) TargetCellSize {
	cols, _ := s.WindowSize()
	return ResolveSize(srcW, srcH, requested.Width, requested.Height, s.CellSize(), cols)
}
