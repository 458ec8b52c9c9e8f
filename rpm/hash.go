package rpm

import (
	"crypto"
	_ "crypto/md5"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"hash"
)

// HashAlgorithm selects the digest used by the signature processor and
// by payload digesting. Values follow the conventional lowercase names.
type HashAlgorithm string

const (
	HashMD5    HashAlgorithm = "md5"
	HashSHA1   HashAlgorithm = "sha1"
	HashSHA256 HashAlgorithm = "sha256"
	HashSHA384 HashAlgorithm = "sha384"
	HashSHA512 HashAlgorithm = "sha512"
)

// CryptoHash maps the algorithm to its crypto.Hash.
func (a HashAlgorithm) CryptoHash() (crypto.Hash, error) {
	switch a {
	case HashMD5:
		return crypto.MD5, nil
	case HashSHA1:
		return crypto.SHA1, nil
	case HashSHA256:
		return crypto.SHA256, nil
	case HashSHA384:
		return crypto.SHA384, nil
	case HashSHA512:
		return crypto.SHA512, nil
	default:
		return 0, fmt.Errorf("%w: unsupported hash algorithm %q", ErrCrypto, string(a))
	}
}

// New returns a fresh hash state for the algorithm.
func (a HashAlgorithm) New() (hash.Hash, error) {
	h, err := a.CryptoHash()
	if err != nil {
		return nil, err
	}
	return h.New(), nil
}

// PGPID returns the OpenPGP digest algorithm identifier recorded in
// payload-digest header entries.
func (a HashAlgorithm) PGPID() (int32, error) {
	switch a {
	case HashMD5:
		return 1, nil
	case HashSHA1:
		return 2, nil
	case HashSHA256:
		return 8, nil
	case HashSHA384:
		return 9, nil
	case HashSHA512:
		return 10, nil
	default:
		return 0, fmt.Errorf("%w: unsupported hash algorithm %q", ErrCrypto, string(a))
	}
}

// Format is the package format version. It decides the width of the
// size entries written into a new signature header.
type Format int

const (
	Format3 Format = 3
	Format4 Format = 4
	Format6 Format = 6

	// FormatDefault is used when a caller does not care.
	FormatDefault = Format4
)

// ParseFormat validates a numeric format version.
func ParseFormat(v int) (Format, error) {
	switch v {
	case 3, 4, 6:
		return Format(v), nil
	default:
		return 0, fmt.Errorf("%w: unsupported package format version %d", ErrFormat, v)
	}
}

// WideSizes reports whether size entries use 64-bit tags.
func (f Format) WideSizes() bool { return f >= Format6 }
