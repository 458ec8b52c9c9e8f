package rpm

import "fmt"

// Tag is a numeric identifier naming one header field. The same numeric
// value can mean different things in the two header sections of a
// package file, so every lookup is qualified by a Domain.
type Tag int32

// Domain selects the namespace a tag belongs to: the signature header
// or the payload (metadata) header.
type Domain int

const (
	DomainHeader Domain = iota
	DomainSignature
)

// String returns the conventional name of the domain.
func (d Domain) String() string {
	if d == DomainSignature {
		return "signature"
	}
	return "header"
}

// Signature header tags.
//
// IMPORTANT: these values are FROZEN wire constants of the RPM format.
// They must never change; adding new tags is fine.
const (
	SigTagHeaderSignatures Tag = 62 // immutable-region marker of the signature header

	SigTagPubkeys         Tag = 266
	SigTagDSA             Tag = 267
	SigTagRSA             Tag = 268
	SigTagSHA1            Tag = 269
	SigTagLongSize        Tag = 270
	SigTagLongArchiveSize Tag = 271
	SigTagSHA256          Tag = 273

	SigTagSize          Tag = 1000
	SigTagPGP           Tag = 1002
	SigTagMD5           Tag = 1004
	SigTagGPG           Tag = 1005
	SigTagPayloadSize   Tag = 1007
	SigTagReservedSpace Tag = 1008
)

// Payload header tags.
const (
	TagImmutable Tag = 63 // immutable-region marker of the payload header

	TagLongArchiveSize Tag = 271

	TagName              Tag = 1000
	TagVersion           Tag = 1001
	TagRelease           Tag = 1002
	TagEpoch             Tag = 1003
	TagSummary           Tag = 1004
	TagDescription       Tag = 1005
	TagBuildTime         Tag = 1006
	TagBuildHost         Tag = 1007
	TagSize              Tag = 1009
	TagLicense           Tag = 1014
	TagGroup             Tag = 1016
	TagOS                Tag = 1021
	TagArch              Tag = 1022
	TagArchiveSize       Tag = 1046
	TagSourcePackage     Tag = 1106
	TagPayloadFormat     Tag = 1124
	TagPayloadCompressor Tag = 1125
	TagPayloadFlags      Tag = 1126

	TagPayloadDigest     Tag = 5092
	TagPayloadDigestAlgo Tag = 5093
	TagPayloadDigestAlt  Tag = 5097
	TagRPMFormat         Tag = 5114
	TagPayloadSize       Tag = 5158
	TagPayloadSizeAlt    Tag = 5159
)

// sigTagTypes is the frozen wire-type table of the signature domain.
// Built once at process start and never mutated afterward.
var sigTagTypes = map[Tag]Type{
	SigTagHeaderSignatures: TypeBinary,
	SigTagPubkeys:          TypeStringArray,
	SigTagDSA:              TypeBinary,
	SigTagRSA:              TypeBinary,
	SigTagSHA1:             TypeString,
	SigTagLongSize:         TypeInt64,
	SigTagLongArchiveSize:  TypeInt64,
	SigTagSHA256:           TypeString,
	SigTagSize:             TypeInt32,
	SigTagPGP:              TypeBinary,
	SigTagMD5:              TypeBinary,
	SigTagGPG:              TypeBinary,
	SigTagPayloadSize:      TypeInt32,
	SigTagReservedSpace:    TypeBinary,
}

// headerTagTypes is the frozen wire-type table of the header domain.
var headerTagTypes = map[Tag]Type{
	TagImmutable:         TypeBinary,
	TagLongArchiveSize:   TypeInt64,
	TagName:              TypeString,
	TagVersion:           TypeString,
	TagRelease:           TypeString,
	TagEpoch:             TypeInt32,
	TagSummary:           TypeI18NString,
	TagDescription:       TypeI18NString,
	TagBuildTime:         TypeInt32,
	TagBuildHost:         TypeString,
	TagSize:              TypeInt32,
	TagLicense:           TypeString,
	TagGroup:             TypeI18NString,
	TagOS:                TypeString,
	TagArch:              TypeString,
	TagArchiveSize:       TypeInt32,
	TagSourcePackage:     TypeString,
	TagPayloadFormat:     TypeString,
	TagPayloadCompressor: TypeString,
	TagPayloadFlags:      TypeString,
	TagPayloadDigest:     TypeStringArray,
	TagPayloadDigestAlgo: TypeInt32,
	TagPayloadDigestAlt:  TypeStringArray,
	TagRPMFormat:         TypeInt32,
	TagPayloadSize:       TypeInt64,
	TagPayloadSizeAlt:    TypeInt64,
}

// TypeOf returns the declared wire type of tag within domain. An
// unknown tag means unsupported or corrupted input and is never
// silently ignored.
func TypeOf(domain Domain, tag Tag) (Type, error) {
	table := headerTagTypes
	if domain == DomainSignature {
		table = sigTagTypes
	}
	t, ok := table[tag]
	if !ok {
		return TypeNull, fmt.Errorf("%w: unknown %s tag %d", ErrFormat, domain, tag)
	}
	return t, nil
}

// regionTag returns the immutable-region marker tag of the domain.
func (d Domain) regionTag() Tag {
	if d == DomainSignature {
		return SigTagHeaderSignatures
	}
	return TagImmutable
}
