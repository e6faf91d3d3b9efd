package termpix

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"image/png"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kittyFrameRe = regexp.MustCompile(`\x1b_G([^;]*);([A-Za-z0-9+/=]*)\x1b\\`)

// kittyFrames splits an encoded transmission into control keys and payloads
func kittyFrames(t *testing.T, out string) (keys []string, payloads []string) {
	t.Helper()
	matches := kittyFrameRe.FindAllStringSubmatch(out, -1)
	require.NotEmpty(t, matches)

	var joined strings.Builder
	for _, m := range matches {
		joined.WriteString(m[0])
		keys = append(keys, m[1])
		payloads = append(payloads, m[2])
	}
	require.Equal(t, out, joined.String(), "output is only kitty frames")
	return keys, payloads
}

func TestEncodeKittyChunking(t *testing.T) {
	img := noiseImage(120, 120)
	out, err := EncodeKitty(nil, img, KittyOptions{Quiet: 2})
	require.NoError(t, err)

	keys, payloads := kittyFrames(t, out)
	encoded := strings.Join(payloads, "")
	assert.Len(t, payloads, (len(encoded)+KittyChunkSize-1)/KittyChunkSize)
	require.Greater(t, len(payloads), 1, "noise should need several chunks")

	for i, k := range keys {
		last := i == len(keys)-1
		switch {
		case i == 0:
			assert.Equal(t, "a=T,f=100,q=2,m=1", k)
		case last:
			assert.Equal(t, "m=0", k)
		default:
			assert.Equal(t, "m=1", k)
		}
		if !last {
			assert.Len(t, payloads[i], KittyChunkSize)
		}
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestEncodeKittySingleChunk(t *testing.T) {
	out, err := EncodeKitty(nil, solidImage(4, 4, red), KittyOptions{})
	require.NoError(t, err)

	keys, _ := kittyFrames(t, out)
	require.Len(t, keys, 1)
	assert.Equal(t, "a=T,f=100,q=0,m=0", keys[0])
}

func TestEncodeKittyCompressed(t *testing.T) {
	img := solidImage(64, 64, blue)
	out, err := EncodeKitty(nil, img, KittyOptions{Compress: true, Quiet: 1})
	require.NoError(t, err)

	keys, payloads := kittyFrames(t, out)
	assert.True(t, strings.HasPrefix(keys[0], "a=T,f=100,o=z,q=1,"))

	raw, err := base64.StdEncoding.DecodeString(strings.Join(payloads, ""))
	require.NoError(t, err)
	r, err := zlib.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	pngData, err := io.ReadAll(r)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(pngData))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestEncodeKittyEmpty(t *testing.T) {
	_, err := EncodeKitty(nil, nil, KittyOptions{})
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestKittyControlKeys(t *testing.T) {
	tests := []struct {
		name string
		opts KittyOptions
		want string
	}{
		{
			name: "defaults",
			want: "a=T,f=100,q=0",
		},
		{
			name: "all keys",
			opts: KittyOptions{
				Compress: true, ImageID: 7, PlacementID: 2, Quiet: 2,
				ZIndex: -1, XOffset: 3, YOffset: 4, Columns: 40, Rows: 12,
			},
			want: "a=T,f=100,o=z,i=7,p=2,q=2,z=-1,X=3,Y=4,c=40,r=12",
		},
		{
			name: "preserve aspect drops rows",
			opts: KittyOptions{Columns: 40, Rows: 12, PreserveAspect: true},
			want: "a=T,f=100,q=0,c=40",
		},
		{
			name: "preserve aspect without columns keeps rows",
			opts: KittyOptions{Rows: 12, PreserveAspect: true},
			want: "a=T,f=100,q=0,r=12",
		},
		{
			name: "quiet is clamped",
			opts: KittyOptions{Quiet: 9},
			want: "a=T,f=100,q=2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.controlKeys())
		})
	}
}

func TestDeleteGraphics(t *testing.T) {
	tests := []struct {
		name string
		opts DeleteOptions
		want string
	}{
		{
			name: "all",
			want: "\x1b_Ga=d,d=a,q=0\x1b\\",
		},
		{
			name: "all and free",
			opts: DeleteOptions{Free: true, Quiet: 2},
			want: "\x1b_Ga=d,d=A,q=2\x1b\\",
		},
		{
			name: "id implies by id",
			opts: DeleteOptions{ImageID: 5},
			want: "\x1b_Ga=d,d=i,i=5,q=0\x1b\\",
		},
		{
			name: "placement of an image",
			opts: DeleteOptions{ImageID: 5, PlacementID: 3, Free: true},
			want: "\x1b_Ga=d,d=I,i=5,p=3,q=0\x1b\\",
		},
		{
			name: "explicit upper-case mode is normalized",
			opts: DeleteOptions{Mode: 'C'},
			want: "\x1b_Ga=d,d=c,q=0\x1b\\",
		},
		{
			name: "z-index",
			opts: DeleteOptions{Mode: DeleteByZIndex, Free: true},
			want: "\x1b_Ga=d,d=Z,q=0\x1b\\",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeleteGraphics(tt.opts))
		})
	}
}
