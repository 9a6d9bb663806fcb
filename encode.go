package hl7v2

import (
	"github.com/gohl7/hl7v2/pool"
)

// Encode converts a Message tree back into raw segment-terminated text,
// applying escaping. Inverse of Decode: for any Message m produced by Decode
// on well-formed input, Decode(Encode(m)) carries identical content.
//
// The header segment's first two fields are reconstructed from the
// Message's delimiter set, not from stored field values. Trailing empty
// structure is canonicalized away.
func Encode(m *Message, opts ...Option) ([]byte, error) {
	o := applyOptions(opts)
	if m == nil || len(m.Segments) == 0 {
		return nil, ErrEmptyMessage
	}
	d := m.Delimiters
	if d == (Delimiters{}) {
		d = DefaultDelimiters()
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	b := pool.Acquire()
	defer b.Release()

	for i, seg := range m.Segments {
		if i > 0 {
			b.WriteString(o.SegmentTerminator)
		}
		if i == 0 {
			encodeHeader(b, seg, d)
		} else {
			encodeSegment(b, seg, d)
		}
	}
	b.WriteString(o.SegmentTerminator)

	o.Metrics.recordEncode()
	return b.Bytes(), nil
}

// EncodeString is Encode returning a string.
func EncodeString(m *Message, opts ...Option) (string, error) {
	out, err := Encode(m, opts...)
	return string(out), err
}

// encodeHeader writes the header segment. Fields 1 and 2 come from the
// delimiter set itself; the encoding-characters field is emitted verbatim,
// never escaped.
func encodeHeader(b *pool.Builder, seg *Segment, d Delimiters) {
	b.WriteString(seg.ID)
	b.WriteByte(d.Field)
	b.WriteString(d.Encoding())
	last := lastNonEmptyField(seg.Fields, 2)
	for i := 2; i < last; i++ {
		b.WriteByte(d.Field)
		encodeField(b, seg.Fields[i], d)
	}
}

func encodeSegment(b *pool.Builder, seg *Segment, d Delimiters) {
	b.WriteString(seg.ID)
	last := lastNonEmptyField(seg.Fields, 0)
	for i := 0; i < last; i++ {
		b.WriteByte(d.Field)
		encodeField(b, seg.Fields[i], d)
	}
}

// lastNonEmptyField returns one past the index of the last field holding
// content, but at least min. Trailing empty fields are not emitted.
func lastNonEmptyField(fields []*Field, min int) int {
	last := len(fields)
	for last > min && fields[last-1].isEmpty() {
		last--
	}
	return last
}

func encodeField(b *pool.Builder, f *Field, d Delimiters) {
	for i, r := range f.Repetitions {
		if i > 0 {
			b.WriteByte(d.Repetition)
		}
		for j, c := range r.Components {
			if j > 0 {
				b.WriteByte(d.Component)
			}
			for k, s := range c.Subcomponents {
				if k > 0 {
					b.WriteByte(d.Subcomponent)
				}
				escapeInto(b, s, d)
			}
		}
	}
}

// escapeInto writes value with every delimiter occurrence and control
// character escaped. Inverse of unescape.
func escapeInto(b *pool.Builder, value string, d Delimiters) {
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case d.Escape:
			writeEscape(b, 'E', d)
		case d.Field:
			writeEscape(b, 'F', d)
		case d.Component:
			writeEscape(b, 'S', d)
		case d.Repetition:
			writeEscape(b, 'R', d)
		case d.Subcomponent:
			writeEscape(b, 'T', d)
		case '\n':
			b.WriteByte(d.Escape)
			b.WriteString(".br")
			b.WriteByte(d.Escape)
		default:
			if c < 0x20 || c == 0x7f {
				b.WriteByte(d.Escape)
				b.WriteByte('X')
				b.WriteByte(hexUpper[c>>4])
				b.WriteByte(hexUpper[c&0x0f])
				b.WriteByte(d.Escape)
			} else {
				b.WriteByte(c)
			}
		}
	}
}

func writeEscape(b *pool.Builder, code byte, d Delimiters) {
	b.WriteByte(d.Escape)
	b.WriteByte(code)
	b.WriteByte(d.Escape)
}
