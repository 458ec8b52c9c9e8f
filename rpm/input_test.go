package rpm

import (
	"bytes"
	"testing"
)

func TestLeadRoundTrip(t *testing.T) {
	lead := NewLead("test-pkg-1.0.0-1")
	rendered := lead.Render()
	if len(rendered) != LeadLength {
		t.Fatalf("rendered lead is %d bytes, want %d", len(rendered), LeadLength)
	}
	parsed, err := ParseLead(bytes.NewReader(rendered))
	if err != nil {
		t.Fatal(err)
	}
	if *parsed != *lead {
		t.Errorf("lead round trip: got %+v, want %+v", parsed, lead)
	}
}

func TestParseLeadBadMagic(t *testing.T) {
	rendered := NewLead("x").Render()
	rendered[0] = 0
	if _, err := ParseLead(bytes.NewReader(rendered)); err == nil {
		t.Error("expected error for bad lead magic")
	}
}

// buildTestPackage assembles a minimal but structurally complete
// package file: lead, padded signature header, payload header, payload.
func buildTestPackage(t *testing.T, sig, hdr *Header, payload []byte) []byte {
	t.Helper()
	sigBytes, err := RenderPadded(sig, true, SigTagHeaderSignatures)
	if err != nil {
		t.Fatal(err)
	}
	hdrBytes, err := Render(hdr, true, TagImmutable)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	buf.Write(NewLead("test-1.0-1").Render())
	buf.Write(sigBytes)
	buf.Write(hdrBytes)
	buf.Write(payload)
	return buf.Bytes()
}

func TestReadPackage(t *testing.T) {
	payload := []byte("foo")

	sig := NewSignatureHeader()
	sig.PutInt32(SigTagPayloadSize, int32(len(payload)))
	sig.PutString(SigTagSHA1, "0000")

	hdr := NewHeader()
	hdr.PutString(TagName, "test")
	hdr.PutString(TagVersion, "1.0")
	hdr.PutString(TagRelease, "1")
	hdr.PutString(TagArch, "noarch")

	file := buildTestPackage(t, sig, hdr, payload)

	pkg, err := ReadPackage(bytes.NewReader(file))
	if err != nil {
		t.Fatal(err)
	}

	if pkg.Lead.Name != "test-1.0-1" {
		t.Errorf("lead name = %q", pkg.Lead.Name)
	}
	if pkg.SignatureRegion.Start != LeadLength {
		t.Errorf("signature region start = %d, want %d", pkg.SignatureRegion.Start, LeadLength)
	}
	if pkg.SignatureRegion.Length%8 != 0 {
		t.Errorf("signature region length %d not 8-byte aligned", pkg.SignatureRegion.Length)
	}
	if pkg.PayloadRegion.Start != pkg.SignatureRegion.End() {
		t.Errorf("payload header start = %d, want %d", pkg.PayloadRegion.Start, pkg.SignatureRegion.End())
	}
	if pkg.PayloadStart != int64(len(file)-len(payload)) {
		t.Errorf("payload start = %d, want %d", pkg.PayloadStart, len(file)-len(payload))
	}
	if pkg.ArchiveSize != int64(len(payload)) {
		t.Errorf("archive size = %d, want %d", pkg.ArchiveSize, len(payload))
	}
	if got := pkg.SignatureHeader.GetString(SigTagSHA1); got != "0000" {
		t.Errorf("signature SHA1 entry = %q", got)
	}
	if got := pkg.PayloadHeader.GetString(TagName); got != "test" {
		t.Errorf("payload header name = %q", got)
	}
}

func TestArchiveSizeFallbacks(t *testing.T) {
	hdr := NewHeader()
	hdr.PutString(TagName, "test")

	t.Run("signature long size", func(t *testing.T) {
		sig := NewSignatureHeader()
		sig.PutInt64(SigTagLongArchiveSize, 1<<33)
		file := buildTestPackage(t, sig, hdr, nil)
		pkg, err := ReadPackage(bytes.NewReader(file))
		if err != nil {
			t.Fatal(err)
		}
		if pkg.ArchiveSize != 1<<33 {
			t.Errorf("archive size = %d, want %d", pkg.ArchiveSize, int64(1)<<33)
		}
	})

	t.Run("payload header archive size", func(t *testing.T) {
		sig := NewSignatureHeader()
		sig.PutString(SigTagSHA1, "0000")
		h := NewHeader()
		h.PutString(TagName, "test")
		h.PutInt32(TagArchiveSize, 512)
		file := buildTestPackage(t, sig, h, nil)
		pkg, err := ReadPackage(bytes.NewReader(file))
		if err != nil {
			t.Fatal(err)
		}
		if pkg.ArchiveSize != 512 {
			t.Errorf("archive size = %d, want 512", pkg.ArchiveSize)
		}
	})

	t.Run("negative counts as absent", func(t *testing.T) {
		sig := NewSignatureHeader()
		sig.PutInt32(SigTagPayloadSize, -7)
		h := NewHeader()
		h.PutString(TagName, "test")
		h.PutInt32(TagArchiveSize, 512)
		file := buildTestPackage(t, sig, h, nil)
		pkg, err := ReadPackage(bytes.NewReader(file))
		if err != nil {
			t.Fatal(err)
		}
		if pkg.ArchiveSize != 512 {
			t.Errorf("archive size = %d, want 512 (corrupt entry must not shadow)", pkg.ArchiveSize)
		}
	})

	t.Run("negative everywhere", func(t *testing.T) {
		sig := NewSignatureHeader()
		sig.PutInt32(SigTagPayloadSize, -7)
		h := NewHeader()
		h.PutString(TagName, "test")
		h.PutInt32(TagArchiveSize, -1)
		file := buildTestPackage(t, sig, h, nil)
		pkg, err := ReadPackage(bytes.NewReader(file))
		if err != nil {
			t.Fatal(err)
		}
		if pkg.ArchiveSize != 0 {
			t.Errorf("archive size = %d, want 0", pkg.ArchiveSize)
		}
	})

	t.Run("absent everywhere", func(t *testing.T) {
		sig := NewSignatureHeader()
		sig.PutString(SigTagSHA1, "0000")
		file := buildTestPackage(t, sig, hdr, nil)
		pkg, err := ReadPackage(bytes.NewReader(file))
		if err != nil {
			t.Fatal(err)
		}
		if pkg.ArchiveSize != 0 {
			t.Errorf("archive size = %d, want 0", pkg.ArchiveSize)
		}
	})
}
