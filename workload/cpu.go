package workload

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// hashInput is the buffer hashed on every iteration.
var hashInput = bytes.Repeat([]byte("benchmark test data"), 100)

// ctxCheckInterval is how many hashes are computed between two checks of the
// context.
const ctxCheckInterval = 1024

// Hash computes iterations hex-encoded SHA-256 digests of a fixed buffer,
// discarding them, and returns the number of digests computed. A negative
// iterations value computes nothing. It stops early with the context error if
// ctx is cancelled.
func Hash(ctx context.Context, iterations int) (int, error) {
	done := 0
	for i := range max(iterations, 0) {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return done, err //nolint:wrapcheck // Context errors are passed through.
			}
		}
		sum := sha256.Sum256(hashInput)
		_ = hex.EncodeToString(sum[:])
		done++
	}

	return done, nil
}

// HashSummary is the message reported after hashing.
func HashSummary(iterations int) string {
	return fmt.Sprintf("Completed %d SHA256 hashes", iterations)
}
