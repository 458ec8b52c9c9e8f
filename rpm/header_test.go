package rpm

import (
	"errors"
	"testing"
)

func TestPutTypeMismatch(t *testing.T) {
	h := NewHeader()
	if err := h.PutString(TagEpoch, "not a number"); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat for string into int32 tag, got %v", err)
	}
	if err := h.PutInt32(TagName, 1); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat for int32 into string tag, got %v", err)
	}
}

func TestPutUnknownTag(t *testing.T) {
	h := NewHeader()
	if err := h.PutString(Tag(424242), "x"); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat for unknown tag, got %v", err)
	}
}

func TestDomainsAreSeparate(t *testing.T) {
	// Tag 1000 is the package name (string) in the header domain and
	// the total size (int32) in the signature domain.
	if err := NewHeader().PutString(Tag(1000), "pkg"); err != nil {
		t.Errorf("header tag 1000 should accept a string: %v", err)
	}
	if err := NewSignatureHeader().PutInt32(Tag(1000), 42); err != nil {
		t.Errorf("signature tag 1000 should accept an int32: %v", err)
	}
	if err := NewSignatureHeader().PutString(Tag(1000), "pkg"); !errors.Is(err, ErrFormat) {
		t.Errorf("signature tag 1000 should reject a string, got %v", err)
	}
}

func TestLastPutWins(t *testing.T) {
	h := NewHeader()
	if err := h.PutString(TagName, "first"); err != nil {
		t.Fatal(err)
	}
	if err := h.PutString(TagName, "second"); err != nil {
		t.Fatal(err)
	}
	if got := h.GetString(TagName); got != "second" {
		t.Errorf("GetString = %q, want %q", got, "second")
	}
	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}
}

func TestEntriesSorted(t *testing.T) {
	h := NewHeader()
	h.PutString(TagArch, "x86_64") // 1022
	h.PutString(TagName, "pkg")    // 1000
	h.PutInt64(TagPayloadSize, 12) // 5158
	h.PutString(TagVersion, "1.0") // 1001
	h.PutInt32(TagEpoch, 1)        // 1003

	entries := h.Entries()
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Tag >= entries[i].Tag {
			t.Errorf("entries not in ascending tag order: %d before %d", entries[i-1].Tag, entries[i].Tag)
		}
	}
}

func TestTypedGetters(t *testing.T) {
	h := NewSignatureHeader()
	h.PutInt32(SigTagSize, 1234)
	h.PutInt64(SigTagLongArchiveSize, 1<<40)
	h.PutString(SigTagSHA256, "abcd")
	h.PutBinary(SigTagMD5, []byte{1, 2, 3})

	if got := h.GetInt32(SigTagSize); got != 1234 {
		t.Errorf("GetInt32 = %d, want 1234", got)
	}
	if got := h.GetInt64(SigTagLongArchiveSize); got != 1<<40 {
		t.Errorf("GetInt64 = %d, want %d", got, int64(1)<<40)
	}
	if got := h.GetString(SigTagSHA256); got != "abcd" {
		t.Errorf("GetString = %q, want %q", got, "abcd")
	}
	if got := h.GetBinary(SigTagMD5); len(got) != 3 || got[0] != 1 {
		t.Errorf("GetBinary = %v, want [1 2 3]", got)
	}
	// Absent tags return zero values.
	if got := h.GetInt32(SigTagPayloadSize); got != 0 {
		t.Errorf("GetInt32 on absent tag = %d, want 0", got)
	}
}
