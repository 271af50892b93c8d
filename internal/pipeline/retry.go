package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/Theubaa/Pdf-Vectorizer/internal/embed"
)

// MaxRetries bounds the embedding attempts per chunk.
const MaxRetries = 3

const (
	backoffBase = time.Second
	backoffCap  = 30 * time.Second
)

// IsRetryable reports whether err is a transient provider failure
// (rate limit or upstream 5xx) worth another attempt.
func IsRetryable(err error) bool {
	var re *embed.RetryableError
	return errors.As(err, &re)
}

// Backoff returns the wait before retry attempt n (0-indexed):
// exponential growth capped at backoffCap, plus up to 50% jitter so
// concurrent workers do not retry in lockstep.
func Backoff(attempt int) time.Duration {
	d := backoffBase << uint(attempt)
	d = min(d, backoffCap)
	return d + time.Duration(rand.Int64N(int64(d)/2))
}
