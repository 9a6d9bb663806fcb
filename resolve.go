package hl7v2

// coords are fully resolved 1-based coordinates of a subcomponent within a
// message: the segment's position in Message.Segments plus the four nested
// indices. CachedTerser memoizes these per path string.
type coords struct {
	segIndex int // index into Message.Segments, -1 when not found
	field    int
	rep      int
	comp     int
	sub      int
}

// resolveRead locates the subcomponent addressed by p. Absence at any level
// (missing occurrence, out-of-range index) yields ok == false; it is never
// an error. Sparse messages resolve predictably.
func resolveRead(m *Message, p Path) (string, bool) {
	c, ok := resolveCoords(m, p)
	if !ok {
		return "", false
	}
	return readCoords(m, c)
}

// resolveCoords maps a Path to concrete coordinates, reporting whether the
// addressed subcomponent exists.
func resolveCoords(m *Message, p Path) (coords, bool) {
	c := coords{segIndex: -1, field: p.Field, rep: p.Repetition, comp: p.Component, sub: p.Subcomponent}
	occ := 0
	for i, seg := range m.Segments {
		if seg.ID != p.Segment {
			continue
		}
		occ++
		if occ == p.Occurrence {
			c.segIndex = i
			break
		}
	}
	if c.segIndex < 0 {
		return c, false
	}
	if _, ok := m.Segments[c.segIndex].value(c.field, c.rep, c.comp, c.sub); !ok {
		return c, false
	}
	return c, true
}

// readCoords reads the value at previously resolved coordinates.
func readCoords(m *Message, c coords) (string, bool) {
	if c.segIndex < 0 || c.segIndex >= len(m.Segments) {
		return "", false
	}
	return m.Segments[c.segIndex].value(c.field, c.rep, c.comp, c.sub)
}

// resolveWrite locates the path for mutation, extending the tree as needed,
// and sets the target subcomponent.
//
// Auto-creation rules: a missing segment occurrence is appended only when it
// is the next contiguous occurrence (index == existing+1); anything further
// fails with ErrSegmentCreation. Field/repetition/component/subcomponent
// indices beyond current length append empty placeholders contiguously up to
// the requested index. Existing structure is never truncated or reordered.
func resolveWrite(m *Message, rawPath string, p Path, value string) error {
	seg, ok := m.Segment(p.Segment, p.Occurrence)
	if !ok {
		existing := m.Occurrences(p.Segment)
		if p.Occurrence != existing+1 {
			return segmentCreationError(rawPath, p.Segment, p.Occurrence, existing)
		}
		seg = m.AppendSegment(p.Segment)
	}

	for len(seg.Fields) < p.Field {
		seg.Fields = append(seg.Fields, newLeafField(""))
	}
	f := seg.Fields[p.Field-1]

	for len(f.Repetitions) < p.Repetition {
		f.Repetitions = append(f.Repetitions, &Repetition{
			Components: []*Component{{Subcomponents: []string{""}}},
		})
	}
	r := f.Repetitions[p.Repetition-1]

	for len(r.Components) < p.Component {
		r.Components = append(r.Components, &Component{Subcomponents: []string{""}})
	}
	c := r.Components[p.Component-1]

	for len(c.Subcomponents) < p.Subcomponent {
		c.Subcomponents = append(c.Subcomponents, "")
	}
	c.Subcomponents[p.Subcomponent-1] = value
	return nil
}
