package domain

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
)

// NewID generates a URL-safe identifier using UUIDv4 bytes encoded as base32.
// The identifier is 26 characters long, lowercase, and contains no padding.
func NewID() (string, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	// RFC 4122 variant and version bits for a v4 UUID.
	raw[6] = (raw[6] & 0x0f) | 0x40
	raw[8] = (raw[8] & 0x3f) | 0x80

	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw[:])
	return strings.ToLower(encoded), nil
}

// joinCodeAlphabet omits characters that read ambiguously (0/O, 1/I/L).
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewJoinCode generates a short human-readable code of the given length from
// the provided randomness source. A nil source falls back to crypto/rand.
func NewJoinCode(r io.Reader, length int) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive")
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	var b strings.Builder
	b.Grow(length)
	for _, v := range buf {
		b.WriteByte(joinCodeAlphabet[int(v)%len(joinCodeAlphabet)])
	}
	return b.String(), nil
}
