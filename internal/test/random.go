package test

import (
	"math/rand"
	"sync"
	"time"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomASCIIString produces an alphanumeric string whose length falls
// inclusively between minLen and maxLen. Degenerate bounds are clamped so the
// call never panics.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	n := minLen
	if spread := maxLen - minLen; spread > 0 {
		n += randomIntn(spread + 1)
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[randomIntn(len(alphabet))]
	}
	return string(out)
}

func randomIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
