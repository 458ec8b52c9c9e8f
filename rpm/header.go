package rpm

import (
	"fmt"
	"sort"
)

// Entry is one tag's encoded (type, count, value) in a header section.
// The value is held as its decoded Go form: string, []string, []byte,
// []int16, []int32 or []int64 according to Type.
type Entry struct {
	Tag   Tag
	Type  Type
	Count int
	Value any
}

// Header is an ordered collection of entries forming one header
// section: either the signature header or the payload header of a
// package file. The zero value is not usable; use NewHeader or
// NewSignatureHeader.
//
// A Header is not safe for concurrent mutation; create one per
// parse/render/sign call.
type Header struct {
	domain  Domain
	entries map[Tag]Entry

	// region marker observed during parse, if any
	immutable bool
	regionTag Tag
}

// NewHeader returns an empty payload-header entry store.
func NewHeader() *Header {
	return &Header{domain: DomainHeader, entries: make(map[Tag]Entry)}
}

// NewSignatureHeader returns an empty signature-header entry store.
func NewSignatureHeader() *Header {
	return &Header{domain: DomainSignature, entries: make(map[Tag]Entry)}
}

// Domain returns the tag namespace this header belongs to.
func (h *Header) Domain() Domain { return h.domain }

// Immutable reports whether an immutable-region marker was seen when
// this header was parsed, and which tag it used.
func (h *Header) Immutable() (Tag, bool) { return h.regionTag, h.immutable }

// put validates the entry against the frozen tag registry and stores
// it, overriding any prior entry for the same tag.
func (h *Header) put(tag Tag, typ Type, count int, value any) error {
	declared, err := TypeOf(h.domain, tag)
	if err != nil {
		return err
	}
	if declared != typ {
		return fmt.Errorf("%w: %s tag %d holds %s values, not %s", ErrFormat, h.domain, tag, declared, typ)
	}
	h.entries[tag] = Entry{Tag: tag, Type: typ, Count: count, Value: value}
	return nil
}

// PutString stores a single NUL-terminated string value.
func (h *Header) PutString(tag Tag, v string) error {
	return h.put(tag, TypeString, 1, v)
}

// PutStringArray stores an ordered sequence of strings.
func (h *Header) PutStringArray(tag Tag, v ...string) error {
	return h.put(tag, TypeStringArray, len(v), v)
}

// PutInt32 stores a single 32-bit integer value.
func (h *Header) PutInt32(tag Tag, v int32) error {
	return h.put(tag, TypeInt32, 1, []int32{v})
}

// PutInt32s stores an ordered sequence of 32-bit integers.
func (h *Header) PutInt32s(tag Tag, v ...int32) error {
	return h.put(tag, TypeInt32, len(v), v)
}

// PutInt64 stores a single 64-bit integer value.
func (h *Header) PutInt64(tag Tag, v int64) error {
	return h.put(tag, TypeInt64, 1, []int64{v})
}

// PutInt64s stores an ordered sequence of 64-bit integers.
func (h *Header) PutInt64s(tag Tag, v ...int64) error {
	return h.put(tag, TypeInt64, len(v), v)
}

// PutInt16s stores an ordered sequence of 16-bit integers.
func (h *Header) PutInt16s(tag Tag, v ...int16) error {
	return h.put(tag, TypeInt16, len(v), v)
}

// PutBinary stores a raw byte value.
func (h *Header) PutBinary(tag Tag, v []byte) error {
	return h.put(tag, TypeBinary, len(v), v)
}

// Get returns the entry stored for tag, if any.
func (h *Header) Get(tag Tag) (Entry, bool) {
	e, ok := h.entries[tag]
	return e, ok
}

// GetString returns the string value stored for tag, or "" when the
// tag is absent or holds a different type.
func (h *Header) GetString(tag Tag) string {
	if e, ok := h.entries[tag]; ok {
		if s, ok := e.Value.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt32 returns the first 32-bit integer stored for tag, or 0.
func (h *Header) GetInt32(tag Tag) int32 {
	if e, ok := h.entries[tag]; ok {
		if v, ok := e.Value.([]int32); ok && len(v) > 0 {
			return v[0]
		}
	}
	return 0
}

// GetInt64 returns the first 64-bit integer stored for tag, or 0.
func (h *Header) GetInt64(tag Tag) int64 {
	if e, ok := h.entries[tag]; ok {
		if v, ok := e.Value.([]int64); ok && len(v) > 0 {
			return v[0]
		}
	}
	return 0
}

// GetBinary returns the raw bytes stored for tag, or nil.
func (h *Header) GetBinary(tag Tag) []byte {
	if e, ok := h.entries[tag]; ok {
		if v, ok := e.Value.([]byte); ok {
			return v
		}
	}
	return nil
}

// Len returns the number of entries in the store, not counting any
// synthesized region marker.
func (h *Header) Len() int { return len(h.entries) }

// Entries returns the stored entries ordered by ascending tag id. The
// reserved region entry is synthesized at render time and is never part
// of this list.
func (h *Header) Entries() []Entry {
	out := make([]Entry, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
