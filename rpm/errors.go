package rpm

import "errors"

// Sentinel errors classifying every failure surfaced by this module.
// All returned errors wrap exactly one of them, so callers can match
// with errors.Is.
var (
	// ErrInput reports a precondition failure before any processing
	// begins: a referenced file does not exist or a stream cannot be
	// opened.
	ErrInput = errors.New("input error")

	// ErrFormat reports malformed or unsupported package bytes: bad
	// magic, index or data bounds violations, a region-trailer
	// mismatch, an unknown tag, or an unsupported format version.
	ErrFormat = errors.New("format error")

	// ErrCrypto reports key or algorithm failures: a rejected
	// passphrase, malformed key material, or an unsupported digest or
	// signature algorithm.
	ErrCrypto = errors.New("crypto error")

	// ErrIO reports a read or write failure on an underlying stream
	// after processing has started.
	ErrIO = errors.New("i/o error")
)
