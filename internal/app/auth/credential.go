package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"forager/internal/app/ports"
	"forager/internal/app/shared/token"
)

const (
	CredentialStatusActive  = "active"
	CredentialStatusRevoked = "revoked"

	playerIDPrefix = "ply"
	keyBytes       = 32
	saltBytes      = 16
)

var (
	ErrInvalidRequest     = errors.New("invalid auth request")
	ErrInvalidCredentials = errors.New("invalid player credentials")
)

// keyDigest is what the store keeps instead of the player key.
type keyDigest struct {
	salt []byte
	hash []byte
}

func digestKey(salt []byte, key string) keyDigest {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(key))
	return keyDigest{salt: salt, hash: h.Sum(nil)}
}

func storedDigest(rec ports.PlayerCredentialRecord) keyDigest {
	return keyDigest{salt: rec.KeySalt, hash: rec.KeyHash}
}

func (d keyDigest) matches(key string) bool {
	got := digestKey(d.salt, key)
	return len(d.hash) > 0 && subtle.ConstantTimeCompare(got.hash, d.hash) == 1
}

// issued is a freshly minted credential: the clear key goes to the player once, the digest to
// the store.
type issued struct {
	playerID string
	key      string
	digest   keyDigest
}

func issue(idFor func() (string, error)) (issued, error) {
	id, err := idFor()
	if err != nil {
		return issued{}, err
	}
	key, err := token.Secret(keyBytes)
	if err != nil {
		return issued{}, err
	}
	salt, err := token.Bytes(saltBytes)
	if err != nil {
		return issued{}, err
	}
	return issued{playerID: id, key: key, digest: digestKey(salt, key)}, nil
}
