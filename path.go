package hl7v2

import (
	"github.com/gohl7/hl7v2/pool"
)

// Path is a structured locator parsed from a compact path expression. It is
// a pure value type with no reference to any Message.
//
// Grammar:
//
//	segment-id [ "(" occurrence | "*" ")" ] "-" field
//	           [ "(" repetition ")" ] [ "-" component [ "-" subcomponent ] ]
//
// Every index is 1-based: PID-5-1 addresses the family name component of
// the first PID segment. Omitted occurrence, repetition, component, and
// subcomponent indices all default to 1. A literal "*" in the occurrence
// position selects all occurrences of the segment ID in document order.
type Path struct {
	// Segment is the segment identifying code (3+ uppercase alphanumerics).
	Segment string

	// Occurrence selects the nth segment with this ID, 1-based. 1 when
	// omitted. Meaningless when AllOccurrences is set.
	Occurrence int

	// AllOccurrences is set by the wildcard form SEG(*)-....
	AllOccurrences bool

	// Field is the 1-based field number. Always present.
	Field int

	// Repetition is the 1-based repetition index, 1 when omitted.
	Repetition int

	// Component is the 1-based component number, 1 when omitted.
	Component int

	// Subcomponent is the 1-based subcomponent number, 1 when omitted.
	Subcomponent int

	// hasRepetition/hasComponent/hasSubcomponent preserve which parts were
	// written, so String can reproduce the caller's specificity.
	hasRepetition   bool
	hasComponent    bool
	hasSubcomponent bool
}

// String renders the Path in canonical grammar form, preserving the
// specificity it was parsed with.
func (p Path) String() string {
	return pool.BuildLabel(func(b *pool.Builder) {
		b.WriteString(p.Segment)
		if p.AllOccurrences {
			b.WriteString("(*)")
		} else if p.Occurrence > 1 {
			b.WriteOccurrence(p.Occurrence)
		}
		b.WritePart(p.Field)
		if p.hasRepetition {
			b.WriteOccurrence(p.Repetition)
		}
		if p.hasComponent {
			b.WritePart(p.Component)
			if p.hasSubcomponent {
				b.WritePart(p.Subcomponent)
			}
		}
	})
}

// withOccurrence returns a concrete copy of a wildcard path bound to one
// occurrence.
func (p Path) withOccurrence(n int) Path {
	p.AllOccurrences = false
	p.Occurrence = n
	return p
}

// pathParser is a hand-rolled scanner over the path expression.
type pathParser struct {
	src string
	pos int
}

// ParsePath parses a path expression into a structured Path. It fails with
// a *PathError wrapping ErrPathSyntax on any deviation from the grammar;
// the error carries the byte offset of the problem.
func ParsePath(expr string) (Path, error) {
	s := pathParser{src: expr}
	p := Path{Occurrence: 1, Repetition: 1, Component: 1, Subcomponent: 1}

	seg := s.takeSegmentID()
	if len(seg) < 3 {
		return Path{}, pathSyntaxErrorf(expr, s.pos,
			"segment ID must be 3 or more uppercase alphanumerics")
	}
	p.Segment = seg

	if s.peek() == '(' {
		s.pos++
		if s.peek() == '*' {
			s.pos++
			p.AllOccurrences = true
		} else {
			n, err := s.takeIndex("occurrence index")
			if err != nil {
				return Path{}, err
			}
			p.Occurrence = n
		}
		if err := s.expect(')'); err != nil {
			return Path{}, err
		}
	}

	if err := s.expect('-'); err != nil {
		return Path{}, err
	}
	n, err := s.takeIndex("field number")
	if err != nil {
		return Path{}, err
	}
	p.Field = n

	if s.peek() == '(' {
		s.pos++
		n, err := s.takeIndex("repetition index")
		if err != nil {
			return Path{}, err
		}
		if err := s.expect(')'); err != nil {
			return Path{}, err
		}
		p.Repetition = n
		p.hasRepetition = true
	}

	if s.peek() == '-' {
		s.pos++
		n, err := s.takeIndex("component number")
		if err != nil {
			return Path{}, err
		}
		p.Component = n
		p.hasComponent = true

		if s.peek() == '-' {
			s.pos++
			n, err := s.takeIndex("subcomponent number")
			if err != nil {
				return Path{}, err
			}
			p.Subcomponent = n
			p.hasSubcomponent = true
		}
	}

	if s.pos != len(s.src) {
		return Path{}, pathSyntaxErrorf(expr, s.pos,
			"trailing characters %q", s.src[s.pos:])
	}
	return p, nil
}

// peek returns the next byte without consuming it, or 0 at end of input.
func (s *pathParser) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *pathParser) expect(c byte) error {
	if s.peek() != c {
		return pathSyntaxErrorf(s.src, s.pos, "expected %q", string(c))
	}
	s.pos++
	return nil
}

func (s *pathParser) takeSegmentID() string {
	start := s.pos
	for s.pos < len(s.src) && isSegmentChar(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// takeIndex consumes a positive decimal integer.
func (s *pathParser) takeIndex(what string) (int, error) {
	start := s.pos
	n := 0
	for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		n = n*10 + int(s.src[s.pos]-'0')
		if n > 1<<20 {
			return 0, pathSyntaxErrorf(s.src, start, "%s too large", what)
		}
		s.pos++
	}
	if s.pos == start {
		return 0, pathSyntaxErrorf(s.src, start, "expected %s", what)
	}
	if n == 0 {
		return 0, pathSyntaxErrorf(s.src, start, "%s is 1-based, got 0", what)
	}
	return n, nil
}
