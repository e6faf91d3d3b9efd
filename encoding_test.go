package termpix

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBase64Encode(t *testing.T) {
	tests := []struct {
		input    []byte
		expected string
	}{
		{[]byte(""), ""},
		{[]byte("f"), "Zg=="},
		{[]byte("fo"), "Zm8="},
		{[]byte("foo"), "Zm9v"},
		{[]byte("hello world"), "aGVsbG8gd29ybGQ="},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Base64Encode(tt.input))
	}
}

func TestChunkedBase64Encode(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		wantChunks int
	}{
		{"empty", 0, 0},
		{"single byte", 1, 1},
		{"exactly one chunk", rawChunkSize, 1},
		{"one over", rawChunkSize + 1, 2},
		{"several", 5*rawChunkSize + 100, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(strings.Repeat("x", tt.size))
			chunks := ChunkedBase64Encode(data)

			assert.Len(t, chunks, tt.wantChunks)
			for i, c := range chunks {
				if i < len(chunks)-1 {
					assert.Len(t, c, KittyChunkSize)
				} else {
					assert.LessOrEqual(t, len(c), KittyChunkSize)
				}
			}
			assert.Equal(t, base64.StdEncoding.EncodeToString(data), strings.Join(chunks, ""))
		})
	}
}

func TestParallelBase64EncodeMatchesSequential(t *testing.T) {
	data := noiseImage(100, 100).Pix
	assert.Equal(t, ChunkedBase64Encode(data), ParallelBase64Encode(data))
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), strings.Join(ParallelBase64Encode(data), ""))
}
