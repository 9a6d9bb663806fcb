package hl7v2

// Message is the in-memory representation of one HL7 v2 message: an ordered
// sequence of segments plus the delimiter set and declared version the
// message was decoded with.
//
// A Message is built once by Decode (or programmatically via NewMessage) and
// is immutable thereafter unless accessed through a MutTerser. Once fully
// decoded it is safe for concurrent readers.
type Message struct {
	// Segments in document order. Never empty for a decoded message; the
	// first segment is the header.
	Segments []*Segment

	// Delimiters is the five-character set governing this message's
	// encoding. Fixed for the Message's lifetime.
	Delimiters Delimiters

	// Version is the declared version tag (MSH-12), empty if absent.
	Version Version
}

// Segment is one logical record within a message: an identifying code plus
// an ordered sequence of fields. Field numbering is 1-based: Fields[0] is
// field 1. For the header segment, field 1 is the field separator character
// and field 2 is the four encoding characters.
type Segment struct {
	ID     string
	Fields []*Field
}

// Field is an ordered sequence of repetitions. A field with no repetition
// separator has exactly one repetition.
type Field struct {
	Repetitions []*Repetition
}

// Repetition is an ordered sequence of components. A field value with no
// component separator has exactly one component holding the raw value.
type Repetition struct {
	Components []*Component
}

// Component is an ordered sequence of subcomponents. Subcomponents are the
// leaves: unescaped text values.
type Component struct {
	Subcomponents []string
}

// headerID is the identifying code of a message header segment.
const headerID = "MSH"

// NewMessage builds a minimal programmatic message: a header segment with
// the default delimiters and the given version tag. Further content is added
// through a MutTerser.
func NewMessage(version Version) *Message {
	d := DefaultDelimiters()
	msh := &Segment{ID: headerID}
	msh.Fields = []*Field{
		newLeafField(string(d.Field)),
		newLeafField(d.Encoding()),
	}
	m := &Message{
		Segments:   []*Segment{msh},
		Delimiters: d,
		Version:    version,
	}
	if version != "" {
		// MSH-12 carries the version tag.
		for len(msh.Fields) < 12 {
			msh.Fields = append(msh.Fields, newLeafField(""))
		}
		msh.Fields[11] = newLeafField(string(version))
	}
	return m
}

// newLeafField builds a field holding a single repetition/component/
// subcomponent value.
func newLeafField(value string) *Field {
	return &Field{Repetitions: []*Repetition{{
		Components: []*Component{{Subcomponents: []string{value}}},
	}}}
}

// Header returns the message's header segment (the first segment).
func (m *Message) Header() *Segment {
	if len(m.Segments) == 0 {
		return nil
	}
	return m.Segments[0]
}

// Occurrences returns the number of segments with the given ID.
func (m *Message) Occurrences(id string) int {
	n := 0
	for _, s := range m.Segments {
		if s.ID == id {
			n++
		}
	}
	return n
}

// Segment returns the nth occurrence (1-based, document order) of the
// segment with the given ID, or nil, false if there are fewer occurrences.
func (m *Message) Segment(id string, occurrence int) (*Segment, bool) {
	if occurrence < 1 {
		return nil, false
	}
	n := 0
	for _, s := range m.Segments {
		if s.ID != id {
			continue
		}
		n++
		if n == occurrence {
			return s, true
		}
	}
	return nil, false
}

// AppendSegment appends a new empty segment with the given ID and returns it.
func (m *Message) AppendSegment(id string) *Segment {
	s := &Segment{ID: id}
	m.Segments = append(m.Segments, s)
	return s
}

// ControlID returns the message control ID (MSH-10), empty if absent.
func (m *Message) ControlID() string {
	h := m.Header()
	if h == nil {
		return ""
	}
	v, _ := h.value(10, 1, 1, 1)
	return v
}

// Field returns the nth field (1-based), or nil, false if the segment has
// fewer fields.
func (s *Segment) Field(n int) (*Field, bool) {
	if n < 1 || n > len(s.Fields) {
		return nil, false
	}
	return s.Fields[n-1], true
}

// value reads the subcomponent at the given 1-based coordinates. Absence and
// out-of-range are unified: both yield ok == false.
func (s *Segment) value(field, rep, comp, sub int) (string, bool) {
	if field < 1 || field > len(s.Fields) {
		return "", false
	}
	f := s.Fields[field-1]
	if rep < 1 || rep > len(f.Repetitions) {
		return "", false
	}
	r := f.Repetitions[rep-1]
	if comp < 1 || comp > len(r.Components) {
		return "", false
	}
	c := r.Components[comp-1]
	if sub < 1 || sub > len(c.Subcomponents) {
		return "", false
	}
	return c.Subcomponents[sub-1], true
}

// ContentEquals reports whether two messages carry identical content:
// same segment IDs and identical subcomponent values at every coordinate.
// Delimiter sets and version tags are not compared.
func ContentEquals(a, b *Message) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Segments) != len(b.Segments) {
		return false
	}
	for i, sa := range a.Segments {
		sb := b.Segments[i]
		if sa.ID != sb.ID || len(sa.Fields) != len(sb.Fields) {
			return false
		}
		for j, fa := range sa.Fields {
			fb := sb.Fields[j]
			if len(fa.Repetitions) != len(fb.Repetitions) {
				return false
			}
			for k, ra := range fa.Repetitions {
				rb := fb.Repetitions[k]
				if len(ra.Components) != len(rb.Components) {
					return false
				}
				for l, ca := range ra.Components {
					cb := rb.Components[l]
					if len(ca.Subcomponents) != len(cb.Subcomponents) {
						return false
					}
					for n, va := range ca.Subcomponents {
						if va != cb.Subcomponents[n] {
							return false
						}
					}
				}
			}
		}
	}
	return true
}
