package termpix

import (
	"fmt"
	"slices"
	"strings"
)

// Protocol is a terminal image encoding.
type Protocol int

// Protocols are declared in auto-selection priority order.
const (
	// Auto picks the best protocol the terminal supports
	Auto Protocol = iota
	// Sixel is the indexed-color run-length graphics protocol
	Sixel
	// Kitty is the chunked compressed-image graphics protocol
	Kitty
	// ITerm2 is the inline base64 image protocol (OSC 1337)
	ITerm2
	// Halfblocks approximates the image with colored half-block glyphs
	Halfblocks
	// Braille approximates the image with braille dot patterns
	Braille
)

var protocolNames = map[Protocol]string{
	Auto:       "auto",
	Sixel:      "sixel",
	Kitty:      "kitty",
	ITerm2:     "iterm2",
	Halfblocks: "halfblocks",
	Braille:    "braille",
}

func (p Protocol) String() string {
	if name, ok := protocolNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Protocol(%d)", int(p))
}

// IsGlyph reports whether p renders with text glyphs instead of a graphics protocol
func (p Protocol) IsGlyph() bool {
	return p == Halfblocks || p == Braille
}

// ParseProtocol parses a protocol name, case-insensitively
func ParseProtocol(s string) (Protocol, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "auto":
		return Auto, nil
	case "blocks", "halfblock":
		return Halfblocks, nil
	case "inline", "iterm":
		return ITerm2, nil
	case "kgp":
		return Kitty, nil
	}
	for p, n := range protocolNames {
		if n == name {
			return p, nil
		}
	}
	return Auto, fmt.Errorf("unknown protocol %q", s)
}

// CapabilitySet is the ordered set of protocols a terminal understands,
// highest auto-selection priority first.
type CapabilitySet []Protocol

// glyphOnly is the set every terminal can display
var glyphOnly = NewCapabilitySet(Halfblocks, Braille)

// NewCapabilitySet builds a set from protocols, dropping duplicates and Auto
func NewCapabilitySet(protocols ...Protocol) CapabilitySet {
	set := make(CapabilitySet, 0, len(protocols))
	for _, p := range protocols {
		if p == Auto || slices.Contains(set, p) {
			continue
		}
		set = append(set, p)
	}
	slices.Sort(set)
	return set
}

// Contains reports whether p is in the set
func (c CapabilitySet) Contains(p Protocol) bool {
	return slices.Contains(c, p)
}

// Best returns the highest priority protocol, falling back to Halfblocks for an empty set
func (c CapabilitySet) Best() Protocol {
	if len(c) == 0 {
		return Halfblocks
	}
	return c[0]
}

// With returns a new set that also contains protocols
func (c CapabilitySet) With(protocols ...Protocol) CapabilitySet {
	return NewCapabilitySet(append(slices.Clone(c), protocols...)...)
}

func (c CapabilitySet) String() string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.String()
	}
	return strings.Join(names, ",")
}
