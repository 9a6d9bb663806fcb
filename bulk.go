package hl7v2

import (
	"github.com/gohl7/hl7v2/pool"
)

// BulkTerser resolves many paths, or one wildcard pattern, in a single call.
type BulkTerser struct {
	t *Terser
}

// NewBulkTerser creates a BulkTerser over msg.
func NewBulkTerser(msg *Message) *BulkTerser {
	return &BulkTerser{t: NewTerser(msg)}
}

// PathResult is the outcome of resolving one path in a batch. Err is set
// only for malformed path text; absence is Found == false with a nil Err.
type PathResult struct {
	Path  string
	Value string
	Found bool
	Err   error
}

// GetMultiple resolves each path independently, preserving caller order in
// the result. A failure to parse one path reports that entry's Err without
// aborting the batch: batch calls are per-path, never all-or-nothing.
func (b *BulkTerser) GetMultiple(paths []string) []PathResult {
	results := make([]PathResult, len(paths))
	for i, path := range paths {
		v, ok, err := b.t.Get(path)
		results[i] = PathResult{Path: path, Value: v, Found: ok, Err: err}
	}
	return results
}

// PatternMatch is one wildcard expansion: the resolved concrete path label
// and the value at it.
type PatternMatch struct {
	// Path is the concrete label, e.g. "OBX(2)-5" for the second expansion
	// of "OBX(*)-5".
	Path  string
	Value string
	// Found is false when the occurrence exists but the addressed
	// subcomponent does not.
	Found bool
}

// GetPattern expands the wildcard occurrence marker to every existing
// occurrence of the segment ID in document order and resolves the remainder
// of the path against each. Occurrences whose resolved value is empty or
// absent are included; use GetAllFromSegments for the non-empty convenience
// form. The path must use the wildcard form SEG(*)-....
func (b *BulkTerser) GetPattern(pattern string) ([]PatternMatch, error) {
	p, err := ParsePath(pattern)
	if err != nil {
		return nil, err
	}
	if !p.AllOccurrences {
		return nil, pathSyntaxErrorf(pattern, 0, "pattern requires a wildcard occurrence, e.g. %s(*)-%d", p.Segment, p.Field)
	}

	n := b.t.msg.Occurrences(p.Segment)
	matches := make([]PatternMatch, 0, n)
	for i := 1; i <= n; i++ {
		concrete := p.withOccurrence(i)
		v, ok := resolveRead(b.t.msg, concrete)
		matches = append(matches, PatternMatch{
			Path:  patternLabel(concrete, i),
			Value: v,
			Found: ok,
		})
	}
	return matches, nil
}

// GetAllFromSegments is the convenience form of GetPattern: values only,
// with empty and absent occurrences skipped.
func (b *BulkTerser) GetAllFromSegments(pattern string) ([]string, error) {
	matches, err := b.GetPattern(pattern)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Found && m.Value != "" {
			values = append(values, m.Value)
		}
	}
	return values, nil
}

// patternLabel renders the concrete path for occurrence i, always spelling
// the occurrence index so labels are unambiguous.
func patternLabel(p Path, i int) string {
	return pool.BuildLabel(func(b *pool.Builder) {
		b.WriteString(p.Segment)
		b.WriteOccurrence(i)
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
