package hl7v2

import (
	"strings"
	"time"
)

// Decode converts raw segment-terminated text into a Message tree, applying
// escape-sequence unescaping. The delimiter set is read from the header
// segment unless overridden via WithDelimiters.
//
// Decoding is all-or-nothing: a malformed message returns a *DecodeError and
// no partial tree. Superfluous trailing empty separators are canonicalized
// away at every level of the tree.
func Decode(raw []byte, opts ...Option) (*Message, error) {
	o := applyOptions(opts)
	start := time.Now()
	m, err := decode(string(raw), o)
	o.Metrics.recordDecode(time.Since(start), err)
	return m, err
}

// DecodeString is Decode for string input.
func DecodeString(raw string, opts ...Option) (*Message, error) {
	return Decode([]byte(raw), opts...)
}

// chunk is a slice of the raw input together with its absolute byte offset,
// so decode errors can point at the original text.
type chunk struct {
	text string
	off  int
}

func decode(raw string, o *Options) (*Message, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, decodeErrorf(ErrEmptyInput, 0, "zero-length or whitespace-only input")
	}

	lines := splitSegmentLines(raw, o)
	if len(lines) == 0 {
		return nil, decodeErrorf(ErrEmptyInput, 0, "no segment lines")
	}

	d, header, err := decodeHeader(lines[0], o.Delimiters)
	if err != nil {
		return nil, err
	}

	m := &Message{
		Segments:   []*Segment{header},
		Delimiters: d,
	}
	for _, line := range lines[1:] {
		seg, err := decodeSegment(line, d)
		if err != nil {
			return nil, err
		}
		m.Segments = append(m.Segments, seg)
	}

	if v, ok := header.value(12, 1, 1, 1); ok {
		m.Version = Version(v)
	}
	return m, nil
}

// splitSegmentLines splits raw input into non-empty segment lines with their
// offsets. In lenient mode CR, LF, and CRLF all terminate a segment;
// otherwise only the configured terminator does.
func splitSegmentLines(raw string, o *Options) []chunk {
	var lines []chunk
	if o.LenientNewlines {
		start := 0
		for i := 0; i < len(raw); i++ {
			if raw[i] != '\r' && raw[i] != '\n' {
				continue
			}
			if i > start {
				lines = append(lines, chunk{raw[start:i], start})
			}
			start = i + 1
		}
		if start < len(raw) {
			lines = append(lines, chunk{raw[start:], start})
		}
		return lines
	}

	term := o.SegmentTerminator
	start := 0
	for {
		i := strings.Index(raw[start:], term)
		if i < 0 {
			break
		}
		if i > 0 {
			lines = append(lines, chunk{raw[start : start+i], start})
		}
		start += i + len(term)
	}
	if start < len(raw) {
		lines = append(lines, chunk{raw[start:], start})
	}
	return lines
}

// decodeHeader parses the header segment. Its first field is the literal
// field separator character and its second field is the four remaining
// delimiters in canonical order; neither is escaped.
func decodeHeader(line chunk, override *Delimiters) (Delimiters, *Segment, error) {
	id := segmentCode(line.text)
	if len(id) < 3 || len(line.text) < len(id)+5 {
		return Delimiters{}, nil, decodeErrorf(ErrMalformedHeader, line.off,
			"header segment %q too short for separator and encoding characters", line.text)
	}

	sep := line.text[len(id)]
	encStart := len(id) + 1
	encEnd := strings.IndexByte(line.text[encStart:], sep)
	if encEnd < 0 {
		encEnd = len(line.text) - encStart
	}
	if encEnd != 4 {
		return Delimiters{}, nil, decodeErrorf(ErrMalformedHeader, line.off+encStart,
			"encoding characters field has length %d, want 4", encEnd)
	}
	enc := line.text[encStart : encStart+4]

	d := Delimiters{
		Field:        sep,
		Component:    enc[0],
		Repetition:   enc[1],
		Escape:       enc[2],
		Subcomponent: enc[3],
	}
	if err := d.Validate(); err != nil {
		return Delimiters{}, nil, decodeErrorf(ErrMalformedHeader, line.off,
			"duplicate delimiter characters in %q%s", sep, enc)
	}
	if override != nil {
		if err := override.Validate(); err != nil {
			return Delimiters{}, nil, decodeErrorf(ErrMalformedHeader, line.off,
				"invalid delimiter override: %v", err)
		}
		if *override != d {
			return Delimiters{}, nil, decodeErrorf(ErrMalformedHeader, line.off,
				"header delimiters %q%s do not match caller-supplied set", sep, enc)
		}
		d = *override
	}

	seg := &Segment{ID: id}
	// Fields 1 and 2 are the separator and encoding characters themselves,
	// stored verbatim and never unescaped.
	seg.Fields = []*Field{newLeafField(string(sep)), newLeafField(enc)}

	rest := line.text[encStart+4:]
	restOff := line.off + encStart + 4
	if len(rest) > 0 {
		// rest begins with a field separator introducing field 3.
		fields, err := decodeFields(chunk{rest[1:], restOff + 1}, d)
		if err != nil {
			return Delimiters{}, nil, err
		}
		seg.Fields = append(seg.Fields, fields...)
	}
	trimSegment(seg, 2)
	return d, seg, nil
}

// decodeSegment parses one non-header segment line.
func decodeSegment(line chunk, d Delimiters) (*Segment, error) {
	i := strings.IndexByte(line.text, d.Field)
	if i < 0 {
		return &Segment{ID: line.text}, nil
	}
	seg := &Segment{ID: line.text[:i]}
	fields, err := decodeFields(chunk{line.text[i+1:], line.off + i + 1}, d)
	if err != nil {
		return nil, err
	}
	seg.Fields = fields
	trimSegment(seg, 0)
	return seg, nil
}

// decodeFields splits a segment body into fields, each field into
// repetitions, components, and unescaped subcomponents.
func decodeFields(body chunk, d Delimiters) ([]*Field, error) {
	var fields []*Field
	for _, fc := range splitChunks(body, d.Field) {
		f := &Field{}
		for _, rc := range splitChunks(fc, d.Repetition) {
			r := &Repetition{}
			for _, cc := range splitChunks(rc, d.Component) {
				c := &Component{}
				for _, sc := range splitChunks(cc, d.Subcomponent) {
					v, err := unescape(sc.text, d, sc.off)
					if err != nil {
						return nil, err
					}
					c.Subcomponents = append(c.Subcomponents, v)
				}
				r.Components = append(r.Components, c)
			}
			f.Repetitions = append(f.Repetitions, r)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// splitChunks splits c on sep, preserving absolute offsets.
func splitChunks(c chunk, sep byte) []chunk {
	var out []chunk
	start := 0
	for i := 0; i <= len(c.text); i++ {
		if i == len(c.text) || c.text[i] == sep {
			out = append(out, chunk{c.text[start:i], c.off + start})
			start = i + 1
		}
	}
	return out
}

// trimSegment canonicalizes a segment by removing superfluous trailing empty
// structure at every level. keep is the minimum number of fields retained
// (2 for the header, whose separator fields are structural).
func trimSegment(s *Segment, keep int) {
	for _, f := range s.Fields {
		for _, r := range f.Repetitions {
			for _, c := range r.Components {
				for len(c.Subcomponents) > 1 && c.Subcomponents[len(c.Subcomponents)-1] == "" {
					c.Subcomponents = c.Subcomponents[:len(c.Subcomponents)-1]
				}
			}
			for len(r.Components) > 1 && r.Components[len(r.Components)-1].isEmpty() {
				r.Components = r.Components[:len(r.Components)-1]
			}
		}
		for len(f.Repetitions) > 1 && f.Repetitions[len(f.Repetitions)-1].isEmpty() {
			f.Repetitions = f.Repetitions[:len(f.Repetitions)-1]
		}
	}
	for len(s.Fields) > keep && s.Fields[len(s.Fields)-1].isEmpty() {
		s.Fields = s.Fields[:len(s.Fields)-1]
	}
}

func (c *Component) isEmpty() bool {
	return len(c.Subcomponents) == 1 && c.Subcomponents[0] == ""
}

func (r *Repetition) isEmpty() bool {
	return len(r.Components) == 1 && r.Components[0].isEmpty()
}

func (f *Field) isEmpty() bool {
	return len(f.Repetitions) == 1 && f.Repetitions[0].isEmpty()
}

// segmentCode returns the leading run of uppercase alphanumerics in line.
func segmentCode(line string) string {
	i := 0
	for i < len(line) && isSegmentChar(line[i]) {
		i++
	}
	return line[:i]
}

func isSegmentChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
