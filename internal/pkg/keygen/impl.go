package keygen

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var (
	ErrInvalidKeyLength        = errors.New("key length must be a positive multiple of 8 bits")
	ErrSecureRandomUnavailable = errors.New("secure random source unavailable")
)

// Source is the random capability keys and opponent moves are drawn from.
// Production code passes crypto/rand.Reader; tests substitute a fixed stream.
type Source = io.Reader

func DefaultSource() Source {
	return rand.Reader
}

func Generate(src Source, bits int) (SecretKey, error) {
	if bits <= 0 || bits%8 != 0 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidKeyLength, bits)
	}

	if src == nil {
		return "", fmt.Errorf("%w: no source configured", ErrSecureRandomUnavailable)
	}

	buf := make([]byte, bits/8)

	_, err := io.ReadFull(src, buf)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSecureRandomUnavailable, err)
	}

	return SecretKey(hex.EncodeToString(buf)), nil
}
