package rpm

import (
	"fmt"
	"io"
)

// Package holds the parsed structure of an existing package file: the
// lead, both header sections, and the byte regions they occupy in the
// source stream. The payload itself is not read; only its start offset
// and declared archive size are derived.
type Package struct {
	Lead *Lead

	SignatureHeader *Header
	// SignatureRegion covers the signature header section including
	// its trailing alignment padding; this is the exact extent a
	// re-signing operation replaces.
	SignatureRegion Region

	PayloadHeader *Header
	PayloadRegion Region

	// PayloadStart is the offset of the first payload byte, right
	// after the payload header.
	PayloadStart int64

	// ArchiveSize is the uncompressed payload size recorded in the
	// existing headers, or 0 when absent.
	ArchiveSize int64
}

// countingReader wraps an io.Reader and counts the bytes read, giving
// every parsed section its absolute start offset.
type countingReader struct {
	r io.Reader
	n int64
}

// Read reads from the underlying io.Reader and increments the count.
func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// ReadPackage parses the lead, the signature header and the payload
// header from r, which must be positioned at the start of a package
// file. The payload is left unread in r.
func ReadPackage(r io.Reader) (*Package, error) {
	cr := &countingReader{r: r}

	lead, err := ParseLead(cr)
	if err != nil {
		return nil, err
	}

	sig, sigRegion, err := Parse(cr, DomainSignature, cr.n)
	if err != nil {
		return nil, fmt.Errorf("parsing signature header: %w", err)
	}
	// The signature header is padded to an 8-byte boundary; the pad
	// bytes belong to the region a re-sign replaces.
	if pad := Padding(int(sigRegion.Length)); pad > 0 {
		if _, err := io.CopyN(io.Discard, cr, int64(pad)); err != nil {
			return nil, fmt.Errorf("%w: signature header padding: %v", ErrFormat, err)
		}
		sigRegion.Length += int64(pad)
	}

	hdr, hdrRegion, err := Parse(cr, DomainHeader, cr.n)
	if err != nil {
		return nil, fmt.Errorf("parsing payload header: %w", err)
	}

	return &Package{
		Lead:            lead,
		SignatureHeader: sig,
		SignatureRegion: sigRegion,
		PayloadHeader:   hdr,
		PayloadRegion:   hdrRegion,
		PayloadStart:    hdrRegion.End(),
		ArchiveSize:     archiveSize(sig, hdr),
	}, nil
}

// archiveSize derives the uncompressed payload byte count from the
// parsed headers, trying the signature header first and falling back
// to the payload header's archive-size entries. A zero or negative
// value counts as absent; a corrupt entry must not shadow a usable one.
func archiveSize(sig, hdr *Header) int64 {
	if v := sig.GetInt32(SigTagPayloadSize); v > 0 {
		return int64(v)
	}
	if v := sig.GetInt64(SigTagLongArchiveSize); v > 0 {
		return v
	}
	if v := hdr.GetInt64(TagLongArchiveSize); v > 0 {
		return v
	}
	if v := hdr.GetInt32(TagArchiveSize); v > 0 {
		return int64(v)
	}
	return 0
}
