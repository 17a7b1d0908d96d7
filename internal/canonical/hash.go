package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// shortHashLen is the number of leading hex characters embedded in an ETag.
const shortHashLen = 16

// ErrShortHash is returned when a hash is too short to derive the
// requested prefix from.
var ErrShortHash = errors.New("canonical: hash too short")

// Hash normalizes line endings and returns the SHA-256 digest of the
// content as 64 lowercase hex characters. Nil content is rejected;
// empty content hashes normally.
func Hash(content []byte) (string, error) {
	if content == nil {
		return "", ErrNilContent
	}
	sum := sha256.Sum256(NormalizeNewlines(content))
	return hex.EncodeToString(sum[:]), nil
}

// ShortHash returns the first n characters of hash. Hashes shorter than
// n are rejected rather than silently padded or returned whole.
func ShortHash(hash string, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("canonical: invalid prefix length %d", n)
	}
	if len(hash) < n {
		return "", fmt.Errorf("%w: need %d characters, have %d", ErrShortHash, n, len(hash))
	}
	return hash[:n], nil
}

// WeakETag formats a weak HTTP validator from a content hash:
//
//	W/"sha256:<first 16 hex chars>"
//
// Two documents carry the same ETag exactly when their canonical
// serializations share a hash prefix.
func WeakETag(hash string) (string, error) {
	short, err := ShortHash(hash, shortHashLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("W/\"sha256:%s\"", short), nil
}

// HashValue serializes the value tree canonically and hashes the result
// in one step.
func HashValue(v any) (string, error) {
	out, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(out)
}
