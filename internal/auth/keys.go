// Package auth issues and verifies the signed tokens used by the listing
// endpoints: short-lived anti-forgery nonces and admin bearer tokens.
package auth

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keySize = 32

// deriveKey derives an independent HS256 key for one purpose, so a token
// signed for one action never verifies for another.
func deriveKey(secret []byte, purpose string) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, nil, []byte("storyfeed/"+purpose))
	key := make([]byte, keySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}
