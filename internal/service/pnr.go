package service

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const (
	pnrMin         = 100000
	pnrSpan        = 900000
	maxPNRAttempts = 64
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
}

// nextPNR draws 6-digit PNRs until taken reports a free one. The caller
// must hold the service lock since rng is not safe for concurrent use.
func nextPNR(rng *rand.Rand, taken func(string) bool) (string, error) {
	for range maxPNRAttempts {
		pnr := strconv.Itoa(pnrMin + rng.IntN(pnrSpan))
		if !taken(pnr) {
			return pnr, nil
		}
	}
	return "", ErrPNRExhausted
}
