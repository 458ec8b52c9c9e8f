package rpm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// headerMagic opens every header section: three magic bytes and a
// format version, followed by four reserved zero bytes.
var headerMagic = []byte{0x8e, 0xad, 0xe8, 0x01}

const (
	// indexEntrySize is the encoded size of one index record:
	// tag, type, offset and count as big-endian int32.
	indexEntrySize = 16

	// regionCount is the declared byte count of the immutable-region
	// marker, both in its index slot and in its trailer value.
	regionCount = 16

	// Sanity caps applied before allocating parse buffers.
	maxIndexEntries = 0x10000
	maxDataSize     = 256 << 20
)

// Region describes a contiguous extent of the underlying file. Regions
// are read-only views assigned when a file is parsed.
type Region struct {
	Start  int64
	Length int64
}

// End returns the offset of the first byte past the region.
func (r Region) End() int64 { return r.Start + r.Length }

// Render encodes the header's entries to the exact on-disk byte layout
// of a header section. When immutable is true a reserved region entry
// is synthesized as index slot 0 under regionTag, with its companion
// 16-byte trailer appended at the end of the data section. The trailer
// records the negative offset -(indexCount*16), which lets a reader
// recompute the exact index range covered by digests over the section.
//
// The result is not padded; see RenderPadded.
func Render(h *Header, immutable bool, regionTag Tag) ([]byte, error) {
	entries := h.Entries()

	indexCount := len(entries)
	if immutable {
		if _, err := TypeOf(h.domain, regionTag); err != nil {
			return nil, err
		}
		indexCount++
	}

	var index bytes.Buffer
	var data bytes.Buffer

	if immutable {
		// Slot 0 is reserved now, written once the trailer offset is
		// known (it sits at the end of the data section).
		index.Write(make([]byte, indexEntrySize))
	}

	for _, e := range entries {
		if err := checkCount(e); err != nil {
			return nil, err
		}
		// Align multi-byte numeric values on their natural boundary.
		if a := e.Type.alignment(); data.Len()%a != 0 {
			data.Write(make([]byte, a-data.Len()%a))
		}
		writeIndexEntry(&index, e.Tag, e.Type, int32(data.Len()), int32(e.Count))
		if err := encodeValue(&data, e); err != nil {
			return nil, err
		}
	}

	if immutable {
		trailerOffset := int32(data.Len())
		writeIndexEntry(&data, regionTag, TypeBinary, int32(-indexCount*indexEntrySize), regionCount)
		slot0 := make([]byte, 0, indexEntrySize)
		buf := bytes.NewBuffer(slot0)
		writeIndexEntry(buf, regionTag, TypeBinary, trailerOffset, regionCount)
		copy(index.Bytes()[:indexEntrySize], buf.Bytes())
	}

	out := bytes.NewBuffer(make([]byte, 0, 16+index.Len()+data.Len()))
	out.Write(headerMagic)
	out.Write([]byte{0, 0, 0, 0})
	binary.Write(out, binary.BigEndian, int32(indexCount))
	binary.Write(out, binary.BigEndian, int32(data.Len()))
	out.Write(index.Bytes())
	out.Write(data.Bytes())
	return out.Bytes(), nil
}

// RenderPadded renders the header and appends zero-fill bytes so the
// total length is a multiple of 8.
func RenderPadded(h *Header, immutable bool, regionTag Tag) ([]byte, error) {
	out, err := Render(h, immutable, regionTag)
	if err != nil {
		return nil, err
	}
	return append(out, make([]byte, Padding(len(out)))...), nil
}

// Parse reads one header section from r and reconstructs its entry
// store. start is the absolute offset of the section within the source
// stream; the returned Region covers the section's preamble, index and
// data, excluding any trailing alignment padding (which the caller
// consumes separately).
func Parse(r io.Reader, domain Domain, start int64) (*Header, Region, error) {
	var intro [16]byte
	if _, err := io.ReadFull(r, intro[:]); err != nil {
		return nil, Region{}, fmt.Errorf("%w: reading header section at %d: %v", ErrIO, start, err)
	}
	if !bytes.Equal(intro[:4], headerMagic) {
		return nil, Region{}, fmt.Errorf("%w: bad header magic at offset %d", ErrFormat, start)
	}
	indexCount := int(int32(binary.BigEndian.Uint32(intro[8:12])))
	dataLen := int(int32(binary.BigEndian.Uint32(intro[12:16])))
	if indexCount < 0 || indexCount > maxIndexEntries {
		return nil, Region{}, fmt.Errorf("%w: implausible index count %d", ErrFormat, indexCount)
	}
	if dataLen < 0 || dataLen > maxDataSize {
		return nil, Region{}, fmt.Errorf("%w: implausible data section length %d", ErrFormat, dataLen)
	}

	index := make([]byte, indexCount*indexEntrySize)
	if _, err := io.ReadFull(r, index); err != nil {
		return nil, Region{}, fmt.Errorf("%w: header index truncated: %v", ErrFormat, err)
	}
	data := make([]byte, dataLen)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, Region{}, fmt.Errorf("%w: header data section truncated: %v", ErrFormat, err)
	}

	h := &Header{domain: domain, entries: make(map[Tag]Entry, indexCount)}
	for i := 0; i < indexCount; i++ {
		rec := index[i*indexEntrySize : (i+1)*indexEntrySize]
		tag := Tag(int32(binary.BigEndian.Uint32(rec[0:4])))
		typ := Type(int32(binary.BigEndian.Uint32(rec[4:8])))
		offset := int(int32(binary.BigEndian.Uint32(rec[8:12])))
		count := int(int32(binary.BigEndian.Uint32(rec[12:16])))

		if i == 0 && tag == domain.regionTag() {
			if err := checkRegion(domain, typ, offset, count, data, indexCount); err != nil {
				return nil, Region{}, err
			}
			h.immutable = true
			h.regionTag = tag
			continue
		}

		value, err := decodeValue(typ, data, offset, count)
		if err != nil {
			return nil, Region{}, fmt.Errorf("decoding %s tag %d: %w", domain, tag, err)
		}
		if err := h.put(tag, typ, count, value); err != nil {
			return nil, Region{}, err
		}
	}

	region := Region{Start: start, Length: int64(16 + len(index) + dataLen)}
	return h, region, nil
}

// checkRegion validates the immutable-region marker: its index slot,
// and the 16-byte trailer at the recorded offset whose negative offset
// must point back over the whole index. A mismatch means the header was
// altered or corrupted after the region was sealed.
func checkRegion(domain Domain, typ Type, offset, count int, data []byte, indexCount int) error {
	if typ != TypeBinary || count != regionCount {
		return fmt.Errorf("%w: region marker has type %s count %d, want %s count %d",
			ErrFormat, typ, count, TypeBinary, regionCount)
	}
	if offset < 0 || offset+regionCount > len(data) {
		return fmt.Errorf("%w: region trailer offset %d outside data section", ErrFormat, offset)
	}
	trailer := data[offset : offset+regionCount]
	tag := Tag(int32(binary.BigEndian.Uint32(trailer[0:4])))
	ttyp := Type(int32(binary.BigEndian.Uint32(trailer[4:8])))
	toffset := int(int32(binary.BigEndian.Uint32(trailer[8:12])))
	tcount := int(int32(binary.BigEndian.Uint32(trailer[12:16])))
	if tag != domain.regionTag() || ttyp != TypeBinary || tcount != regionCount {
		return fmt.Errorf("%w: malformed region trailer", ErrFormat)
	}
	if want := -indexCount * indexEntrySize; toffset != want {
		return fmt.Errorf("%w: region trailer offset %d, want %d", ErrFormat, toffset, want)
	}
	return nil
}

func writeIndexEntry(w io.Writer, tag Tag, typ Type, offset, count int32) {
	binary.Write(w, binary.BigEndian, int32(tag))
	binary.Write(w, binary.BigEndian, int32(typ))
	binary.Write(w, binary.BigEndian, offset)
	binary.Write(w, binary.BigEndian, count)
}

// checkCount verifies the entry's declared count matches its value, so
// a value's encoded length always agrees with its wire type's element
// width.
func checkCount(e Entry) error {
	n := -1
	switch v := e.Value.(type) {
	case nil:
		n = 0
	case string:
		n = 1
	case []string:
		n = len(v)
	case []byte:
		n = len(v)
	case []int16:
		n = len(v)
	case []int32:
		n = len(v)
	case []int64:
		n = len(v)
	}
	if n != e.Count {
		return fmt.Errorf("%w: tag %d declares count %d for %d elements", ErrFormat, e.Tag, e.Count, n)
	}
	return nil
}

func encodeValue(data *bytes.Buffer, e Entry) error {
	switch e.Type {
	case TypeNull:
		return nil
	case TypeChar, TypeInt8, TypeBinary:
		data.Write(e.Value.([]byte))
	case TypeInt16:
		binary.Write(data, binary.BigEndian, e.Value.([]int16))
	case TypeInt32:
		binary.Write(data, binary.BigEndian, e.Value.([]int32))
	case TypeInt64:
		binary.Write(data, binary.BigEndian, e.Value.([]int64))
	case TypeString:
		data.WriteString(e.Value.(string))
		data.WriteByte(0)
	case TypeStringArray, TypeI18NString:
		for _, s := range e.Value.([]string) {
			data.WriteString(s)
			data.WriteByte(0)
		}
	default:
		return fmt.Errorf("%w: cannot encode type %s", ErrFormat, e.Type)
	}
	return nil
}

// decodeValue decodes one typed value from the data section,
// validating that every byte it touches stays within the section.
func decodeValue(typ Type, data []byte, offset, count int) (any, error) {
	if offset < 0 || count < 0 || offset > len(data) {
		return nil, fmt.Errorf("%w: value extent [%d:+%d] outside data section", ErrFormat, offset, count)
	}
	need := func(n int) error {
		if offset+n > len(data) {
			return fmt.Errorf("%w: value extent [%d:+%d] outside data section", ErrFormat, offset, n)
		}
		return nil
	}
	switch typ {
	case TypeNull:
		return nil, nil
	case TypeChar, TypeInt8, TypeBinary:
		if err := need(count); err != nil {
			return nil, err
		}
		out := make([]byte, count)
		copy(out, data[offset:offset+count])
		return out, nil
	case TypeInt16:
		if err := need(count * 2); err != nil {
			return nil, err
		}
		out := make([]int16, count)
		for i := range out {
			out[i] = int16(binary.BigEndian.Uint16(data[offset+i*2:]))
		}
		return out, nil
	case TypeInt32:
		if err := need(count * 4); err != nil {
			return nil, err
		}
		out := make([]int32, count)
		for i := range out {
			out[i] = int32(binary.BigEndian.Uint32(data[offset+i*4:]))
		}
		return out, nil
	case TypeInt64:
		if err := need(count * 8); err != nil {
			return nil, err
		}
		out := make([]int64, count)
		for i := range out {
			out[i] = int64(binary.BigEndian.Uint64(data[offset+i*8:]))
		}
		return out, nil
	case TypeString:
		if count != 1 {
			return nil, fmt.Errorf("%w: string value declares count %d", ErrFormat, count)
		}
		s, _, err := cString(data, offset)
		return s, err
	case TypeStringArray, TypeI18NString:
		// Each element consumes at least its NUL terminator, so the
		// count can never exceed the remaining data-section bytes.
		// Checked before allocating: the count is attacker-controlled.
		if count > len(data)-offset {
			return nil, fmt.Errorf("%w: string array count %d exceeds data section", ErrFormat, count)
		}
		out := make([]string, 0, count)
		pos := offset
		for i := 0; i < count; i++ {
			s, next, err := cString(data, pos)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
			pos = next
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot decode type %d", ErrFormat, int32(typ))
	}
}

// cString reads a NUL-terminated string starting at offset and returns
// it with the offset just past the terminator.
func cString(data []byte, offset int) (string, int, error) {
	if offset >= len(data) {
		return "", 0, fmt.Errorf("%w: string offset %d outside data section", ErrFormat, offset)
	}
	end := bytes.IndexByte(data[offset:], 0)
	if end < 0 {
		return "", 0, fmt.Errorf("%w: unterminated string at offset %d", ErrFormat, offset)
	}
	return string(data[offset : offset+end]), offset + end + 1, nil
}
