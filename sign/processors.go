package sign

import (
	"crypto/md5"
	"encoding/hex"
	"hash"

	"github.com/etnz/rpm-sign/rpm"
)

// hexSum finalizes a digest as a lowercase hex string.
func hexSum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// sizeProcessor accumulates the total byte count of the payload header
// and payload.
type sizeProcessor struct {
	format rpm.Format
	total  int64
}

func (p *sizeProcessor) Init(int64)           {}
func (p *sizeProcessor) FeedHeader(b []byte)  { p.total += int64(len(b)) }
func (p *sizeProcessor) FeedPayload(b []byte) { p.total += int64(len(b)) }
func (p *sizeProcessor) Finish(h *rpm.Header) error {
	if p.format.WideSizes() {
		return h.PutInt64(rpm.SigTagLongSize, p.total)
	}
	return h.PutInt32(rpm.SigTagSize, int32(p.total))
}

// headerDigestProcessor digests only the payload header bytes and
// emits the hex-encoded result under its tag.
type headerDigestProcessor struct {
	tag rpm.Tag
	h   hash.Hash
}

func (p *headerDigestProcessor) Init(int64)          {}
func (p *headerDigestProcessor) FeedHeader(b []byte) { p.h.Write(b) }
func (p *headerDigestProcessor) FeedPayload([]byte)  {}
func (p *headerDigestProcessor) Finish(h *rpm.Header) error {
	return h.PutString(p.tag, hexSum(p.h))
}

// md5Processor digests the payload header followed by the payload and
// emits the raw digest bytes.
type md5Processor struct {
	h hash.Hash
}

func (p *md5Processor) Init(int64) { p.h = md5.New() }

func (p *md5Processor) FeedHeader(b []byte)  { p.h.Write(b) }
func (p *md5Processor) FeedPayload(b []byte) { p.h.Write(b) }
func (p *md5Processor) Finish(h *rpm.Header) error {
	return h.PutBinary(rpm.SigTagMD5, p.h.Sum(nil))
}

// payloadSizeProcessor records the uncompressed archive size announced
// at Init.
type payloadSizeProcessor struct {
	format      rpm.Format
	archiveSize int64
}

func (p *payloadSizeProcessor) Init(n int64)       { p.archiveSize = n }
func (p *payloadSizeProcessor) FeedHeader([]byte)  {}
func (p *payloadSizeProcessor) FeedPayload([]byte) {}
func (p *payloadSizeProcessor) Finish(h *rpm.Header) error {
	if p.format.WideSizes() {
		return h.PutInt64(rpm.SigTagLongArchiveSize, p.archiveSize)
	}
	return h.PutInt32(rpm.SigTagPayloadSize, int32(p.archiveSize))
}
