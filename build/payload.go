package build

import (
	"encoding/hex"
	"hash"

	"github.com/etnz/rpm-sign/rpm"
)

func hexSum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// PayloadProcessor consumes the payload of a package under
// construction, in two independent streams: the raw file-tree bytes
// and the compressed archive bytes. At Finish it emits its computed
// entries into the payload header under construction.
//
// The lifecycle is FeedRaw and FeedCompressed in any interleaving,
// then exactly one Finish. Instances are single-use.
type PayloadProcessor interface {
	FeedRaw(p []byte)
	FeedCompressed(p []byte)
	Finish(h *rpm.Header) error
}

// PayloadSize returns a processor recording the uncompressed and
// compressed payload byte counts.
func PayloadSize() PayloadProcessor {
	return &payloadSize{}
}

type payloadSize struct {
	raw        int64
	compressed int64
}

func (p *payloadSize) FeedRaw(b []byte)        { p.raw += int64(len(b)) }
func (p *payloadSize) FeedCompressed(b []byte) { p.compressed += int64(len(b)) }

func (p *payloadSize) Finish(h *rpm.Header) error {
	if err := h.PutInt64(rpm.TagPayloadSize, p.raw); err != nil {
		return err
	}
	return h.PutInt64(rpm.TagPayloadSizeAlt, p.compressed)
}

// PayloadDigest returns a processor recording the digests of both
// payload streams with the given algorithm, plus the algorithm id.
func PayloadDigest(algo rpm.HashAlgorithm) (PayloadProcessor, error) {
	raw, err := algo.New()
	if err != nil {
		return nil, err
	}
	compressed, err := algo.New()
	if err != nil {
		return nil, err
	}
	id, err := algo.PGPID()
	if err != nil {
		return nil, err
	}
	return &payloadDigest{raw: raw, compressed: compressed, id: id}, nil
}

type payloadDigest struct {
	raw        hash.Hash
	compressed hash.Hash
	id         int32
}

func (p *payloadDigest) FeedRaw(b []byte)        { p.raw.Write(b) }
func (p *payloadDigest) FeedCompressed(b []byte) { p.compressed.Write(b) }

func (p *payloadDigest) Finish(h *rpm.Header) error {
	if err := h.PutStringArray(rpm.TagPayloadDigest, hexSum(p.compressed)); err != nil {
		return err
	}
	if err := h.PutStringArray(rpm.TagPayloadDigestAlt, hexSum(p.raw)); err != nil {
		return err
	}
	return h.PutInt32(rpm.TagPayloadDigestAlgo, p.id)
}
