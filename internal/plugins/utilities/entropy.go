package utilities

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	entropyCharset    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*-_"
	defaultEntropyLen = 24
	maxEntropyLen     = 256
)

// entropy generates a random password. Length defaults to 24 and is capped
// at 256; every character is drawn independently from crypto/rand.
func entropy(_ context.Context, params map[string]string) (string, error) {
	length := defaultEntropyLen
	if raw := params["length"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return "", fmt.Errorf("invalid length %q: expected a positive integer", raw)
		}
		length = n
	}
	if length > maxEntropyLen {
		return "", fmt.Errorf("length %d exceeds maximum of %d", length, maxEntropyLen)
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(entropyCharset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generating randomness: %w", err)
		}
		out[i] = entropyCharset[idx.Int64()]
	}
	return string(out), nil
}
