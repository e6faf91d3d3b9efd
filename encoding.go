package termpix

import (
	"encoding/base64"
	"sync"
)

const (
	// KittyChunkSize is the number of base64 characters carried by one kitty frame
	KittyChunkSize = 4096
	// rawChunkSize is the number of payload bytes that encode to exactly KittyChunkSize characters
	rawChunkSize = 3 * KittyChunkSize / 4

	// DefaultEncodingWorkers is the number of goroutines used for large payloads
	DefaultEncodingWorkers = 4
	// parallelThreshold is the payload size below which chunks are encoded inline
	parallelThreshold = 2 * rawChunkSize
)

// scratch buffers sized for one kitty chunk
var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, KittyChunkSize)
		return &b
	},
}

// Base64Encode encodes src with standard padding using a pooled scratch buffer
func Base64Encode(src []byte) string {
	scratch := scratchPool.Get().(*[]byte)
	out := base64.StdEncoding.AppendEncode((*scratch)[:0], src)
	s := string(out)
	*scratch = out
	scratchPool.Put(scratch)
	return s
}

// chunkCount is the number of rawChunkSize pieces in n bytes
func chunkCount(n int) int {
	return (n + rawChunkSize - 1) / rawChunkSize
}

// chunk returns piece i of data
func chunk(data []byte, i int) []byte {
	start := i * rawChunkSize
	return data[start:min(start+rawChunkSize, len(data))]
}

// ChunkedBase64Encode base64 encodes data in rawChunkSize pieces. Because the
// piece size is a multiple of 3, joining the results gives the base64 of data and
// every chunk but the last is exactly KittyChunkSize characters long.
func ChunkedBase64Encode(data []byte) []string {
	out := make([]string, chunkCount(len(data)))
	for i := range out {
		out[i] = Base64Encode(chunk(data, i))
	}
	return out
}

// ParallelBase64Encode is ChunkedBase64Encode with the pieces striped across
// DefaultEncodingWorkers goroutines. Small payloads are encoded inline.
func ParallelBase64Encode(data []byte) []string {
	if len(data) <= parallelThreshold {
		return ChunkedBase64Encode(data)
	}

	out := make([]string, chunkCount(len(data)))
	workers := min(len(out), DefaultEncodingWorkers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := range workers {
		go func() {
			defer wg.Done()
			for i := w; i < len(out); i += workers {
				out[i] = Base64Encode(chunk(data, i))
			}
		}()
	}
	wg.Wait()
	return out
}
