package sign

import (
	"crypto/sha1"
	"crypto/sha256"

	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/etnz/rpm-sign/rpm"
)

// Processor is one stateful unit of the signing chain. The orchestrator
// drives the lifecycle strictly as Init, zero or more FeedHeader calls,
// zero or more FeedPayload calls, then Finish. All header bytes are fed
// before any payload bytes; processors rely on that ordering instead of
// detecting misuse.
//
// Each instance owns its accumulator exclusively and is used for a
// single signing operation.
type Processor interface {
	// Init announces the uncompressed archive size recorded in the
	// package's existing headers.
	Init(archiveSize int64)

	// FeedHeader consumes a slice of the payload header bytes.
	FeedHeader(p []byte)

	// FeedPayload consumes a slice of the payload bytes.
	FeedPayload(p []byte)

	// Finish emits this processor's entries into the new signature
	// header. A failure aborts the whole chain.
	Finish(h *rpm.Header) error
}

// Processors returns the signing chain in its fixed order: total size,
// SHA-256 of the header, SHA-1 of the header, MD5 of header and
// payload, payload size, and the PGP signature. The format version
// decides whether size entries use 32-bit or 64-bit tags.
func Processors(key *packet.PrivateKey, algo rpm.HashAlgorithm, format rpm.Format) ([]Processor, error) {
	sig, err := newSignatureProcessor(key, algo)
	if err != nil {
		return nil, err
	}
	return []Processor{
		&sizeProcessor{format: format},
		&headerDigestProcessor{tag: rpm.SigTagSHA256, h: sha256.New()},
		&headerDigestProcessor{tag: rpm.SigTagSHA1, h: sha1.New()},
		&md5Processor{},
		&payloadSizeProcessor{format: format},
		sig,
	}, nil
}
