// Package token mints the random identifiers and secrets handed out by the service.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// NewID returns "<prefix>_<yyyymmdd>_<random>". The date part keeps ids roughly sortable by
// creation day in the stores.
func NewID(prefix string, now time.Time) (string, error) {
	suffix, err := Secret(9)
	if err != nil {
		return "", err
	}
	return prefix + "_" + now.UTC().Format("20060102") + "_" + suffix, nil
}

// Secret returns n random bytes encoded as unpadded URL-safe base64.
func Secret(n int) (string, error) {
	b, err := Bytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
