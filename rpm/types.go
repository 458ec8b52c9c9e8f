package rpm

import "fmt"

// Type identifies the wire encoding of a header entry value.
type Type int32

const (
	TypeNull        Type = 0
	TypeChar        Type = 1
	TypeInt8        Type = 2
	TypeInt16       Type = 3
	TypeInt32       Type = 4
	TypeInt64       Type = 5
	TypeString      Type = 6
	TypeBinary      Type = 7
	TypeStringArray Type = 8
	TypeI18NString  Type = 9
)

// String returns the conventional lowercase name of the type.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeChar:
		return "char"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeString:
		return "string"
	case TypeBinary:
		return "binary"
	case TypeStringArray:
		return "string array"
	case TypeI18NString:
		return "i18n string"
	default:
		return fmt.Sprintf("unknown(%d)", int32(t))
	}
}

// alignment returns the natural alignment of the type's elements within
// a header data section. Multi-byte integers start on their natural
// boundary; everything else is unaligned.
func (t Type) alignment() int {
	switch t {
	case TypeInt16:
		return 2
	case TypeInt32:
		return 4
	case TypeInt64:
		return 8
	default:
		return 1
	}
}

// Padding returns the number of zero-fill bytes needed to bring n up to
// an 8-byte boundary. The result is always in [0,7].
func Padding(n int) int {
	return (8 - n%8) % 8
}
