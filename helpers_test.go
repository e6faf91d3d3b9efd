package termpix

import (
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/blacktop/go-termpix/pkg/csi"
)

// scriptedConsole answers known queries with canned replies
type scriptedConsole struct {
	cols, rows int
	redirected bool
	replies    map[string]string // keyed by the query without its leading ESC
	writes     []string
	pending    []byte
}

func newScriptedConsole(replies map[string]string) *scriptedConsole {
	return &scriptedConsole{cols: 80, rows: 24, replies: replies}
}

func (c *scriptedConsole) Write(p []byte) (int, error) {
	query := strings.TrimPrefix(string(p), "\x1b")
	c.writes = append(c.writes, query)
	if reply, ok := c.replies[query]; ok {
		c.pending = append(c.pending, reply...)
	}
	return len(p), nil
}

func (c *scriptedConsole) ReadByte(time.Duration) (byte, error) {
	if len(c.pending) == 0 {
		return 0, csi.ErrTimeout
	}
	b := c.pending[0]
	c.pending = c.pending[1:]
	return b, nil
}

func (c *scriptedConsole) Size() (int, int, error) { return c.cols, c.rows, nil }

func (c *scriptedConsole) Redirected() bool { return c.redirected }

func (c *scriptedConsole) MakeRaw() (func() error, error) {
	return func() error { return nil }, nil
}

// count returns how many times query was written
func (c *scriptedConsole) count(query string) int {
	n := 0
	for _, w := range c.writes {
		if w == query {
			n++
		}
	}
	return n
}

// fakeEnv is an Environment backed by a map and a fixed ancestry
type fakeEnv struct {
	vars     map[string]string
	ancestry []string
	err      error
}

func (e fakeEnv) LookupEnv(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

func (e fakeEnv) ParentProcesses() ([]string, error) {
	return e.ancestry, e.err
}

// newTestSession returns a session that never touches the real terminal
func newTestSession(console *scriptedConsole, vars map[string]string) *Session {
	return NewSession(WithConsole(console), WithEnvironment(fakeEnv{vars: vars}))
}

func solidImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// noiseImage returns an image with many distinct colors that compresses poorly
func noiseImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	seed := uint32(2463534242)
	for i := range img.Pix {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		img.Pix[i] = uint8(seed)
		if i%4 == 3 {
			img.Pix[i] = 0xff
		}
	}
	return img
}

var (
	red         = color.NRGBA{R: 255, A: 255}
	blue        = color.NRGBA{B: 255, A: 255}
	transparent = color.NRGBA{}
)
