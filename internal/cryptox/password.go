// Package cryptox hashes and verifies user passwords with Argon2id, encoding
// the result as a PHC string that carries the algorithm, version, cost
// parameters, salt and digest:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<digest>
//
// Salt and digest use unpadded standard base64.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const algorithm = "argon2id"

var (
	ErrInvalidHash          = errors.New("invalid password hash")
	ErrIncompatibleVersion  = errors.New("incompatible argon2 version")
	ErrUnsupportedAlgorithm = errors.New("unsupported password hash algorithm")
	ErrInvalidParams        = errors.New("invalid argon2 parameters")
)

// Params are the Argon2id cost settings.
type Params struct {
	// Memory in KiB.
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams matches the OWASP minimum for Argon2id.
var DefaultParams = Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func (p Params) Validate() error {
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 || p.SaltLength == 0 || p.KeyLength == 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidParams, p)
	}
	if p.Memory < 8*uint32(p.Parallelism) {
		return fmt.Errorf("%w: memory must be at least 8*parallelism KiB", ErrInvalidParams)
	}
	return nil
}

// randomBytes is a test seam for the salt source.
var randomBytes = common.RandomBytes

// HashPassword derives an Argon2id hash of password with a fresh random salt.
// Two calls with the same password return different strings.
func HashPassword(password []byte, p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	salt, err := randomBytes(int(p.SaltLength))
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithm, argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches the encoded hash. A
// mismatch is (false, nil); an unparseable hash is an error.
func VerifyPassword(password []byte, encoded string) (bool, error) {
	p, salt, key, err := DecodeHash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// DecodeHash splits a PHC string into its parameters, salt and digest.
func DecodeHash(encoded string) (Params, []byte, []byte, error) {
	var p Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, nil, nil, ErrInvalidHash
	}
	if parts[1] != algorithm {
		return p, nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, parts[1])
	}

	v, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return p, nil, nil, fmt.Errorf("%w: version %q", ErrInvalidHash, parts[2])
	}
	version, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: version: %v", ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: %d", ErrIncompatibleVersion, version)
	}

	if err := decodeParams(parts[3], &p); err != nil {
		return p, nil, nil, fmt.Errorf("%w: params: %v", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	key, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: digest: %v", ErrInvalidHash, err)
	}

	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))
	if err := p.Validate(); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return p, salt, key, nil
}

// decodeParams parses exactly "m=<n>,t=<n>,p=<n>" in that order.
func decodeParams(s string, p *Params) error {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return fmt.Errorf("want m, t and p in %q", s)
	}

	values := make([]uint64, len(fields))
	for i, name := range []string{"m", "t", "p"} {
		raw, ok := strings.CutPrefix(fields[i], name+"=")
		if !ok {
			return fmt.Errorf("want %s= in %q", name, fields[i])
		}
		bits := 32
		if name == "p" {
			bits = 8
		}
		n, err := strconv.ParseUint(raw, 10, bits)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		values[i] = n
	}

	p.Memory = uint32(values[0])
	p.Iterations = uint32(values[1])
	p.Parallelism = uint8(values[2])
	return nil
}
