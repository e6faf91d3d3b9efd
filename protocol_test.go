package termpix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		in      string
		want    Protocol
		wantErr bool
	}{
		{"", Auto, false},
		{"auto", Auto, false},
		{"sixel", Sixel, false},
		{"  Kitty ", Kitty, false},
		{"kgp", Kitty, false},
		{"iterm2", ITerm2, false},
		{"ITERM", ITerm2, false},
		{"inline", ITerm2, false},
		{"halfblocks", Halfblocks, false},
		{"blocks", Halfblocks, false},
		{"braille", Braille, false},
		{"ascii", Auto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProtocol(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProtocolString(t *testing.T) {
	assert.Equal(t, "sixel", Sixel.String())
	assert.Equal(t, "halfblocks", Halfblocks.String())
	assert.Equal(t, "Protocol(42)", Protocol(42).String())
	assert.True(t, Braille.IsGlyph())
	assert.False(t, Kitty.IsGlyph())
}

func TestCapabilitySetOrdering(t *testing.T) {
	set := NewCapabilitySet(Braille, Auto, ITerm2, Sixel, Braille, Halfblocks)
	assert.Equal(t, CapabilitySet{Sixel, ITerm2, Halfblocks, Braille}, set)
	assert.Equal(t, Sixel, set.Best())
	assert.Equal(t, "sixel,iterm2,halfblocks,braille", set.String())
	assert.False(t, set.Contains(Kitty))
}

func TestCapabilitySetWith(t *testing.T) {
	base := NewCapabilitySet(Halfblocks, Braille)
	extended := base.With(Kitty, Halfblocks)

	assert.Equal(t, CapabilitySet{Kitty, Halfblocks, Braille}, extended)
	assert.Equal(t, CapabilitySet{Halfblocks, Braille}, base, "With must not modify the receiver")
	assert.Equal(t, Kitty, extended.Best())
}

func TestCapabilitySetBestEmpty(t *testing.T) {
	assert.Equal(t, Halfblocks, CapabilitySet(nil).Best())
}
