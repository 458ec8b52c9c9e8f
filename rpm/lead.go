package rpm

import (
	"bytes"
	"fmt"
	"io"
)

// LeadLength is the fixed size of the legacy lead at the start of
// every package file.
const LeadLength = 96

// leadMagic opens the lead.
var leadMagic = []byte{0xed, 0xab, 0xee, 0xdb}

// headerSignatureType is the only signature type modern packages use:
// the signature section is a header structure.
const headerSignatureType = 5

// Lead is the fixed 96-byte legacy header at the start of a package
// file. Its content is informational; all authoritative metadata lives
// in the header sections.
type Lead struct {
	Major         byte
	Minor         byte
	Type          int16
	Arch          int16
	Name          string // at most 65 bytes, NUL padded on disk
	OS            int16
	SignatureType int16
}

// ParseLead reads and decodes the 96-byte lead.
func ParseLead(r io.Reader) (*Lead, error) {
	var buf [LeadLength]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: reading lead: %v", ErrIO, err)
	}
	if !bytes.Equal(buf[:4], leadMagic) {
		return nil, fmt.Errorf("%w: bad lead magic", ErrFormat)
	}
	name := buf[10:76]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return &Lead{
		Major:         buf[4],
		Minor:         buf[5],
		Type:          int16(buf[6])<<8 | int16(buf[7]),
		Arch:          int16(buf[8])<<8 | int16(buf[9]),
		Name:          string(name),
		OS:            int16(buf[76])<<8 | int16(buf[77]),
		SignatureType: int16(buf[78])<<8 | int16(buf[79]),
	}, nil
}

// Render encodes the lead back to its 96-byte on-disk form.
func (l *Lead) Render() []byte {
	buf := make([]byte, LeadLength)
	copy(buf, leadMagic)
	buf[4] = l.Major
	buf[5] = l.Minor
	buf[6], buf[7] = byte(l.Type>>8), byte(l.Type)
	buf[8], buf[9] = byte(l.Arch>>8), byte(l.Arch)
	name := l.Name
	if len(name) > 65 {
		name = name[:65]
	}
	copy(buf[10:], name)
	buf[76], buf[77] = byte(l.OS>>8), byte(l.OS)
	buf[78], buf[79] = byte(l.SignatureType>>8), byte(l.SignatureType)
	// bytes 80..95 are reserved and stay zero
	return buf
}

// NewLead returns a lead for a binary package of the given name, with
// the header-style signature type set.
func NewLead(name string) *Lead {
	return &Lead{Major: 3, Minor: 0, Type: 0, Arch: 1, Name: name, OS: 1, SignatureType: headerSignatureType}
}
