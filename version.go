package hl7v2

// Version represents an HL7 v2.x specification version as declared in the
// header segment's version field (MSH-12).
type Version string

// Commonly encountered HL7 v2 versions.
const (
	V22  Version = "2.2"
	V23  Version = "2.3"
	V231 Version = "2.3.1"
	V24  Version = "2.4"
	V25  Version = "2.5"
	V251 Version = "2.5.1"
	V26  Version = "2.6"
	V27  Version = "2.7"
	V28  Version = "2.8"
)

// String returns the version string.
func (v Version) String() string {
	return string(v)
}

// IsKnown reports whether this is a version this package has seen in the
// wild. Unknown versions still decode; the tag is carried opaquely.
func (v Version) IsKnown() bool {
	switch v {
	case V22, V23, V231, V24, V251, V25, V26, V27, V28:
		return true
	default:
		return false
	}
}
