package sign

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/etnz/rpm-sign/rpm"
)

var (
	testHeaderBytes  = []byte("header bytes under digest")
	testPayloadBytes = []byte("payload bytes under digest")
)

// run drives one processor through the full lifecycle and returns the
// store it emitted into.
func run(t *testing.T, p Processor, archiveSize int64) *rpm.Header {
	t.Helper()
	store := rpm.NewSignatureHeader()
	p.Init(archiveSize)
	p.FeedHeader(testHeaderBytes)
	p.FeedPayload(testPayloadBytes)
	if err := p.Finish(store); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestSha256HeaderProcessor(t *testing.T) {
	store := run(t, &headerDigestProcessor{tag: rpm.SigTagSHA256, h: sha256.New()}, 0)
	sum := sha256.Sum256(testHeaderBytes)
	if got, want := store.GetString(rpm.SigTagSHA256), hex.EncodeToString(sum[:]); got != want {
		t.Errorf("sha256 entry = %q, want %q", got, want)
	}
}

func TestSha1HeaderProcessor(t *testing.T) {
	store := run(t, &headerDigestProcessor{tag: rpm.SigTagSHA1, h: sha1.New()}, 0)
	sum := sha1.Sum(testHeaderBytes)
	if got, want := store.GetString(rpm.SigTagSHA1), hex.EncodeToString(sum[:]); got != want {
		t.Errorf("sha1 entry = %q, want %q", got, want)
	}
}

func TestMd5Processor(t *testing.T) {
	store := run(t, &md5Processor{}, 0)
	h := md5.New()
	h.Write(testHeaderBytes)
	h.Write(testPayloadBytes)
	if got, want := store.GetBinary(rpm.SigTagMD5), h.Sum(nil); !bytes.Equal(got, want) {
		t.Errorf("md5 entry = %x, want %x", got, want)
	}
}

func TestDigestDeterminism(t *testing.T) {
	a := run(t, &md5Processor{}, 0).GetBinary(rpm.SigTagMD5)
	b := run(t, &md5Processor{}, 0).GetBinary(rpm.SigTagMD5)
	if !bytes.Equal(a, b) {
		t.Error("md5 digest differs between identical runs")
	}
}

func TestSizeProcessorWidths(t *testing.T) {
	total := int64(len(testHeaderBytes) + len(testPayloadBytes))

	store := run(t, &sizeProcessor{format: rpm.Format4}, 0)
	if got := store.GetInt32(rpm.SigTagSize); int64(got) != total {
		t.Errorf("format 4 size entry = %d, want %d", got, total)
	}
	if _, ok := store.Get(rpm.SigTagLongSize); ok {
		t.Error("format 4 must not emit the 64-bit size entry")
	}

	store = run(t, &sizeProcessor{format: rpm.Format6}, 0)
	if got := store.GetInt64(rpm.SigTagLongSize); got != total {
		t.Errorf("format 6 size entry = %d, want %d", got, total)
	}
	if _, ok := store.Get(rpm.SigTagSize); ok {
		t.Error("format 6 must not emit the 32-bit size entry")
	}
}

func TestPayloadSizeProcessorWidths(t *testing.T) {
	store := run(t, &payloadSizeProcessor{format: rpm.Format4}, 12345)
	if got := store.GetInt32(rpm.SigTagPayloadSize); got != 12345 {
		t.Errorf("format 4 payload size = %d, want 12345", got)
	}

	store = run(t, &payloadSizeProcessor{format: rpm.Format6}, 1<<35)
	if got := store.GetInt64(rpm.SigTagLongArchiveSize); got != 1<<35 {
		t.Errorf("format 6 payload size = %d, want %d", got, int64(1)<<35)
	}
}
