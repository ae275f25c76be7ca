package project

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Digest - фиксированный 256 битный хеш содержимого фида
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short is the first 12 hex digits, for logs.
func (d Digest) Short() string {
	return d.String()[:12]
}

// Combine builds a run digest: H( first || second ... ). The order of parts
// must be deterministic.
func Combine(parts ...Digest) Digest {
	h := sha256.New()
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// DigestBytes hashes b.
func DigestBytes(b []byte) Digest {
	return sha256.Sum256(b)
}

// DigestFile hashes the contents of path.
func DigestFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close() //nolint:errcheck // только чтение
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Digest{}, err
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out, nil
}
