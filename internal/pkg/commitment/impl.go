package commitment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/vreid/fairplay/internal/pkg/keygen"
)

// Commit binds move to key. The key's hex text is the HMAC key and the move
// label is hashed byte for byte, so any HMAC-SHA256 tool reproduces the tag.
func Commit(move string, key keygen.SecretKey) Commitment {
	if len(key) == 0 {
		panic("commitment: empty key")
	}

	if len(move) == 0 {
		panic("commitment: empty move")
	}

	return Commitment{
		Tag:       ComputeTag(move, key),
		Algorithm: AlgorithmHMACSHA256,
	}
}

func ComputeTag(move string, key keygen.SecretKey) string {
	h := hmac.New(sha256.New, key.Bytes())
	h.Write([]byte(move))

	return hex.EncodeToString(h.Sum(nil))
}

func Verify(move string, key keygen.SecretKey, tag string) bool {
	if len(key) == 0 || len(move) == 0 {
		return false
	}

	return hmac.Equal([]byte(ComputeTag(move, key)), []byte(tag))
}
