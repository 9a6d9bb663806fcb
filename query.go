package hl7v2

// Query searches repeating segment occurrences by value equality or
// arbitrary predicate. All comparisons are exact: case-sensitive, no
// trimming.
type Query struct {
	msg *Message
}

// NewQuery creates a Query over msg.
func NewQuery(msg *Message) *Query {
	return &Query{msg: msg}
}

// SegmentView is a read-only projection of one segment occurrence, handed to
// predicates and returned by searches.
type SegmentView struct {
	seg        *Segment
	occurrence int
}

// ID returns the segment identifying code.
func (v SegmentView) ID() string {
	return v.seg.ID
}

// Occurrence returns this segment's 1-based occurrence index among
// same-ID segments.
func (v SegmentView) Occurrence() int {
	return v.occurrence
}

// Field returns the field's primary value (first repetition, first
// component, first subcomponent), or "" when absent.
func (v SegmentView) Field(n int) string {
	s, _ := v.seg.value(n, 1, 1, 1)
	return s
}

// Component returns one component's primary value within a field, or ""
// when absent.
func (v SegmentView) Component(field, component int) string {
	s, _ := v.seg.value(field, 1, component, 1)
	return s
}

// FieldCount returns the number of fields the segment holds.
func (v SegmentView) FieldCount() int {
	return len(v.seg.Fields)
}

// views iterates occurrences of segmentID in document order.
func (q *Query) views(segmentID string, fn func(SegmentView) bool) {
	occ := 0
	for _, seg := range q.msg.Segments {
		if seg.ID != segmentID {
			continue
		}
		occ++
		if !fn(SegmentView{seg: seg, occurrence: occ}) {
			return
		}
	}
}

// FindFirst scans occurrences of segmentID in document order and returns the
// first whose field value equals want exactly, or ok == false when none
// matches.
func (q *Query) FindFirst(segmentID string, field int, want string) (SegmentView, bool) {
	var found SegmentView
	ok := false
	q.views(segmentID, func(v SegmentView) bool {
		if v.Field(field) == want {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

// FilterRepeating collects every occurrence whose field value equals want,
// in document order.
func (q *Query) FilterRepeating(segmentID string, field int, want string) []SegmentView {
	var matches []SegmentView
	q.views(segmentID, func(v SegmentView) bool {
		if v.Field(field) == want {
			matches = append(matches, v)
		}
		return true
	})
	return matches
}

// FilterByComponent collects every occurrence whose component value equals
// want, in document order.
func (q *Query) FilterByComponent(segmentID string, field, component int, want string) []SegmentView {
	var matches []SegmentView
	q.views(segmentID, func(v SegmentView) bool {
		if v.Component(field, component) == want {
			matches = append(matches, v)
		}
		return true
	})
	return matches
}

// AnyMatch reports whether any occurrence of segmentID satisfies pred.
func (q *Query) AnyMatch(segmentID string, pred func(SegmentView) bool) bool {
	any := false
	q.views(segmentID, func(v SegmentView) bool {
		if pred(v) {
			any = true
			return false
		}
		return true
	})
	return any
}

// AllMatch reports whether every occurrence of segmentID satisfies pred.
// With zero occurrences it is vacuously true.
func (q *Query) AllMatch(segmentID string, pred func(SegmentView) bool) bool {
	all := true
	q.views(segmentID, func(v SegmentView) bool {
		if !pred(v) {
			all = false
			return false
		}
		return true
	})
	return all
}

// CountWhere returns the number of occurrences of segmentID satisfying pred.
func (q *Query) CountWhere(segmentID string, pred func(SegmentView) bool) int {
	n := 0
	q.views(segmentID, func(v SegmentView) bool {
		if pred(v) {
			n++
		}
		return true
	})
	return n
}

// GetValuesWhere returns resultField's value for every occurrence whose
// filterField equals filterValue, in document order.
func (q *Query) GetValuesWhere(segmentID string, filterField int, filterValue string, resultField int) []string {
	var values []string
	q.views(segmentID, func(v SegmentView) bool {
		if v.Field(filterField) == filterValue {
			values = append(values, v.Field(resultField))
		}
		return true
	})
	return values
}
