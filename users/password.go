package users

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters (OWASP recommended).
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

var (
	// ErrHashingFailed indicates an internal hashing failure. Fatal-class;
	// callers log it and return a generic message.
	ErrHashingFailed = errors.New("failed to hash password")

	// ErrPasswordMismatch covers both a wrong password and a malformed
	// stored hash. The two are deliberately indistinguishable so callers
	// cannot build a verification oracle.
	ErrPasswordMismatch = errors.New("password did not match")
)

// HashedPassword is the transient result of hashing a plaintext password.
// The hash string is self-describing: it embeds the algorithm parameters
// and the salt in PHC format.
type HashedPassword struct {
	Hash string
	Salt string
}

// Hasher derives and verifies one-way password hashes. Implementations
// must be safe for concurrent use.
type Hasher interface {
	Hash(plaintext string) (HashedPassword, error)
	Verify(plaintext, storedHash string) error
}

// Argon2Hasher implements Hasher using argon2id. Stateless.
type Argon2Hasher struct{}

var _ Hasher = Argon2Hasher{}

func NewArgon2Hasher() Argon2Hasher {
	return Argon2Hasher{}
}

// Hash derives an argon2id hash of the plaintext with a freshly generated
// random salt, encoded as a PHC string:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func (Argon2Hasher) Hash(plaintext string) (HashedPassword, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return HashedPassword{}, errors.Wrap(ErrHashingFailed, err.Error())
	}

	key := argon2.IDKey([]byte(plaintext), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		encodedSalt,
		base64.RawStdEncoding.EncodeToString(key),
	)

	return HashedPassword{Hash: encoded, Salt: encodedSalt}, nil
}

// Verify recomputes the hash using the parameters embedded in storedHash
// and compares in constant time. Malformed input and mismatch both return
// ErrPasswordMismatch.
func (Argon2Hasher) Verify(plaintext, storedHash string) error {
	parts := strings.Split(storedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrPasswordMismatch
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return ErrPasswordMismatch
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return ErrPasswordMismatch
	}
	if threads == 0 || threads > 255 {
		return ErrPasswordMismatch
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ErrPasswordMismatch
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return ErrPasswordMismatch
	}
	if len(expected) == 0 || len(expected) > 1<<10 {
		return ErrPasswordMismatch
	}

	computed := argon2.IDKey([]byte(plaintext), salt, iterations, memory, uint8(threads), uint32(len(expected)))

	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
