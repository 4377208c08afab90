package model

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"
)

// HashSize is the width in bytes of every identity hash produced by the
// ledger: a transaction id, and the intermediate digests that feed it.
const HashSize = 32

// Hash is a 32-byte content hash.
type Hash [HashSize]byte

// IsZero reports whether h is the zero hash, used as the "no parent"
// sentinel for inputs that do not exist yet (there is none in this model,
// but tests use it to assert a transaction id was actually computed).
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String renders h as lowercase hex, the form ParseHash accepts back.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ParseHash parses the hex form produced by Hash.String.
func ParseHash(s string) (Hash, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, errors.Wrapf(err, "parsing hash %q", s)
	}
	if len(raw) != HashSize {
		return Hash{}, errors.Errorf("hash %q has %d bytes, want %d", s, len(raw), HashSize)
	}
	var h Hash
	copy(h[:], raw)
	return h, nil
}

// doubleSHA256 hashes data twice with SHA-256. Every identity in this
// package goes through it.
func doubleSHA256(data []byte) Hash {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return Hash(second)
}
