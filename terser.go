package hl7v2

import "iter"

// Terser reads subcomponent values from a Message by path expression,
// parsing and resolving on every call. It borrows the Message for reads and
// is safe for concurrent use once the Message is no longer mutated.
type Terser struct {
	msg     *Message
	metrics *Metrics
}

// NewTerser creates a direct Terser over msg.
func NewTerser(msg *Message) *Terser {
	return &Terser{msg: msg}
}

// WithMetrics attaches a Metrics recorder to lookups and returns the Terser.
func (t *Terser) WithMetrics(m *Metrics) *Terser {
	t.metrics = m
	return t
}

// Message returns the underlying message.
func (t *Terser) Message() *Message {
	return t.msg
}

// Get resolves a path expression to a subcomponent value. The error is
// non-nil only for malformed path text; semantic absence (missing segment,
// out-of-range index) returns ok == false with a nil error.
//
// A wildcard path is rejected here: use BulkTerser.GetPattern.
func (t *Terser) Get(path string) (value string, ok bool, err error) {
	p, err := ParsePath(path)
	if err != nil {
		t.metrics.recordLookup(false, err)
		return "", false, err
	}
	if p.AllOccurrences {
		err := pathSyntaxErrorf(path, 0, "wildcard occurrence requires GetPattern")
		t.metrics.recordLookup(false, err)
		return "", false, err
	}
	value, ok = resolveRead(t.msg, p)
	t.metrics.recordLookup(ok, nil)
	return value, ok, nil
}

// FieldValues returns a lazy, restartable sequence of every non-empty value
// of the given field across all occurrences of the segment ID, in document
// order. Empty values are skipped by contract.
func (t *Terser) FieldValues(segmentID string, field int) iter.Seq[string] {
	return t.values(segmentID, field, 1, 1)
}

// ComponentValues is FieldValues narrowed to one component of the field.
func (t *Terser) ComponentValues(segmentID string, field, component int) iter.Seq[string] {
	return t.values(segmentID, field, 1, component)
}

// RepetitionValues is FieldValues narrowed to one repetition of the field.
func (t *Terser) RepetitionValues(segmentID string, field, repetition int) iter.Seq[string] {
	return t.values(segmentID, field, repetition, 1)
}

func (t *Terser) values(segmentID string, field, rep, comp int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, seg := range t.msg.Segments {
			if seg.ID != segmentID {
				continue
			}
			v, ok := seg.value(field, rep, comp, 1)
			if !ok || v == "" {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// MutTerser is a Terser that can also write. It requires exclusive access to
// its Message for the duration of any Set call: no other reader or writer
// may touch the Message mid-mutation.
type MutTerser struct {
	Terser
}

// NewMutTerser creates a mutable Terser over msg.
func NewMutTerser(msg *Message) *MutTerser {
	return &MutTerser{Terser{msg: msg}}
}

// Set writes value at the path, extending the tree per the auto-creation
// rules: contiguous appends only, empty placeholders for skipped slots,
// never truncating or reordering. It fails with a *PathError wrapping
// ErrPathSyntax for malformed or wildcard paths, or ErrSegmentCreation for
// a non-contiguous segment occurrence.
func (t *MutTerser) Set(path, value string) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	if p.AllOccurrences {
		return pathSyntaxErrorf(path, 0, "wildcard occurrence not allowed in Set")
	}
	return resolveWrite(t.msg, path, p, value)
}
