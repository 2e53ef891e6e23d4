package workload

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// ChunkWriter delivers one chunk to the consumer. It must not return before the
// chunk was handed to the transport, so that a slow consumer slows the stream
// down.
type ChunkWriter interface {
	WriteChunk(p []byte) error
}

// ChunkWriterFunc adapts a function to the ChunkWriter interface.
type ChunkWriterFunc func(p []byte) error

// WriteChunk calls f(p).
func (f ChunkWriterFunc) WriteChunk(p []byte) error {
	return f(p)
}

// Stream emits a fixed number of chunks, waiting at least Interval after each
// one, including the last.
type Stream struct {
	Chunks   int
	Interval time.Duration
	Clock    clockwork.Clock
}

// Run writes the chunks "chunk 1\n" to "chunk <Chunks>\n" to w, and returns the
// number of chunks written. The delay timer is only started once a write
// returns. If ctx is done while waiting, the timer is stopped and the context
// error is returned. A write error ends the stream immediately.
func (s Stream) Run(ctx context.Context, w ChunkWriter) (int, error) {
	for n := 1; n <= s.Chunks; n++ {
		if err := ctx.Err(); err != nil {
			return n - 1, err //nolint:wrapcheck // Context errors are passed through.
		}
		if err := w.WriteChunk(Chunk(n)); err != nil {
			return n - 1, fmt.Errorf("failed writing chunk %d: %w", n, err)
		}
		if err := s.wait(ctx); err != nil {
			return n, err
		}
	}

	return s.Chunks, nil
}

func (s Stream) wait(ctx context.Context) error {
	timer := s.Clock.NewTimer(s.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck // Context errors are passed through.
	case <-timer.Chan():
		return nil
	}
}

// Chunk returns the payload of the nth chunk.
func Chunk(n int) []byte {
	return fmt.Appendf(nil, "chunk %d\n", n)
}
