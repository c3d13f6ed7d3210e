package password

import (
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/errors"
	"github.com/alexedwards/argon2id"
)

var params = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher wraps argon2id with a server-side pepper. Hashing is salted, so
// two hashes of the same password differ; Verify relies on the parameters
// embedded in the stored hash.
type Hasher struct {
	pepper string
}

func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := argon2id.CreateHash(plain+h.pepper, params)
	if err != nil {
		return "", errors.WrapInternal(err, "Hash")
	}
	return hash, nil
}

// Verify reports whether plain matches the stored hash. A malformed hash
// is treated as a mismatch, never an error.
func (h *Hasher) Verify(plain, hash string) bool {
	ok, err := argon2id.ComparePasswordAndHash(plain+h.pepper, hash)
	if err != nil {
		return false
	}
	return ok
}
