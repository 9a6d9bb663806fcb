package hl7v2

import (
	"errors"
	"slices"
	"testing"
)

const oruR01 = "MSH|^~\\&|LAB|FAC|||20250120||ORU^R01|55|P|2.5\r" +
	"PID|1||PAT001||DOE^JOHN^A\r" +
	"OBX|1|NM|NA||140|mmol/l\r" +
	"OBX|2|NM|GLUCOSE||182|mg/dl\r" +
	"OBX|3|NM|K||4.1|mmol/l"

func TestTerserGet(t *testing.T) {
	msg := mustDecode(t, adtA01)
	tr := NewTerser(msg)

	tests := []struct {
		path  string
		want  string
		found bool
	}{
		{"PID-5-1", "DOE", true}, // family name, 1-based components
		{"PID-5-2", "JOHN", true},
		{"PID-5", "DOE", true}, // defaults to component 1
		{"PID-3", "PAT001", true},
		{"MSH-9-1", "ADT", true},
		{"MSH-9-2", "A01", true},
		{"MSH-10", "123", true},
		{"MSH-1", "|", true},
		{"MSH-2", `^~\&`, true},
		{"PID-99", "", false},     // nonexistent field: not found, not an error
		{"PID-5-9", "", false},    // nonexistent component
		{"PID-5(2)-1", "", false}, // nonexistent repetition
		{"PID(2)-5", "", false},   // nonexistent occurrence
		{"OBX-1", "", false},      // nonexistent segment
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok, err := tr.Get(tt.path)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.path, err)
			}
			if ok != tt.found || got != tt.want {
				t.Errorf("Get(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestTerserGet_SyntaxError(t *testing.T) {
	tr := NewTerser(mustDecode(t, adtA01))
	if _, _, err := tr.Get("PID--5"); !errors.Is(err, ErrPathSyntax) {
		t.Errorf("Get(PID--5) error = %v; want ErrPathSyntax", err)
	}
	if _, _, err := tr.Get("PID(*)-5"); !errors.Is(err, ErrPathSyntax) {
		t.Errorf("Get with wildcard error = %v; want ErrPathSyntax", err)
	}
}

func TestTerserGet_Idempotent(t *testing.T) {
	tr := NewTerser(mustDecode(t, adtA01))
	v1, ok1, err1 := tr.Get("PID-5-1")
	v2, ok2, err2 := tr.Get("PID-5-1")
	if v1 != v2 || ok1 != ok2 || !errors.Is(err1, err2) {
		t.Errorf("repeated Get differs: (%q,%v,%v) vs (%q,%v,%v)", v1, ok1, err1, v2, ok2, err2)
	}
}

func TestTerserSet_ReplaceExisting(t *testing.T) {
	msg := mustDecode(t, adtA01)
	mt := NewMutTerser(msg)

	if err := mt.Set("PID-5-1", "SMITH"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, _, _ := mt.Get("PID-5-1"); v != "SMITH" {
		t.Errorf("PID-5-1 = %q; want SMITH", v)
	}
	// Slot existed: no structural growth.
	pid := msg.Segments[1]
	f, _ := pid.Field(5)
	if got := len(f.Repetitions[0].Components); got != 3 {
		t.Errorf("PID-5 component count = %d; want 3 (unchanged)", got)
	}
	if v, _, _ := mt.Get("PID-5-2"); v != "JOHN" {
		t.Errorf("PID-5-2 = %q; want JOHN (untouched)", v)
	}
}

func TestTerserSet_ExtendsFields(t *testing.T) {
	msg := mustDecode(t, adtA01)
	mt := NewMutTerser(msg)

	if err := mt.Set("PID-99-1", "X"); err != nil {
		t.Fatalf("Set(PID-99-1) error = %v", err)
	}
	pid := msg.Segments[1]
	if got := len(pid.Fields); got != 99 {
		t.Fatalf("PID field count = %d; want 99", got)
	}
	if v, _, _ := mt.Get("PID-99-1"); v != "X" {
		t.Errorf("PID-99-1 = %q; want X", v)
	}
	// Intervening fields are empty-backed, readable, and empty.
	if v, ok, _ := mt.Get("PID-50"); !ok || v != "" {
		t.Errorf("PID-50 = %q, %v; want empty, true", v, ok)
	}
}

func TestTerserSet_ExtendsOneSlot(t *testing.T) {
	msg := mustDecode(t, adtA01)
	mt := NewMutTerser(msg)

	// PID-5 has 3 components; one past the end extends by exactly one.
	if err := mt.Set("PID-5-4", "JR"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	f, _ := msg.Segments[1].Field(5)
	if got := len(f.Repetitions[0].Components); got != 4 {
		t.Errorf("component count = %d; want 4", got)
	}
}

func TestTerserSet_BackfillsTwoPastEnd(t *testing.T) {
	msg := mustDecode(t, adtA01)
	mt := NewMutTerser(msg)

	// Two positions beyond current length: intervening slot is back-filled
	// with an empty value.
	if err := mt.Set("PID-5-5", "V"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	f, _ := msg.Segments[1].Field(5)
	comps := f.Repetitions[0].Components
	if got := len(comps); got != 5 {
		t.Fatalf("component count = %d; want 5", got)
	}
	if v, ok, _ := mt.Get("PID-5-4"); !ok || v != "" {
		t.Errorf("PID-5-4 = %q, %v; want empty back-fill", v, ok)
	}
}

func TestTerserSet_Repetitions(t *testing.T) {
	msg := mustDecode(t, adtA01)
	mt := NewMutTerser(msg)

	if err := mt.Set("PID-3(3)-1", "ALT"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	f, _ := msg.Segments[1].Field(3)
	if got := len(f.Repetitions); got != 3 {
		t.Fatalf("repetition count = %d; want 3", got)
	}
	if v, _, _ := mt.Get("PID-3"); v != "PAT001" {
		t.Errorf("PID-3 = %q; want PAT001 (first repetition untouched)", v)
	}
	if v, _, _ := mt.Get("PID-3(3)-1"); v != "ALT" {
		t.Errorf("PID-3(3)-1 = %q; want ALT", v)
	}
}

func TestTerserSet_AppendsNextSegmentOccurrence(t *testing.T) {
	msg := mustDecode(t, oruR01)
	mt := NewMutTerser(msg)

	// Three OBX exist; occurrence 4 is contiguous and gets appended.
	if err := mt.Set("OBX(4)-3", "HDL"); err != nil {
		t.Fatalf("Set(OBX(4)-3) error = %v", err)
	}
	if got := msg.Occurrences("OBX"); got != 4 {
		t.Errorf("OBX occurrences = %d; want 4", got)
	}

	// Occurrence 6 would leave a gap.
	err := mt.Set("OBX(6)-3", "LDL")
	if !errors.Is(err, ErrSegmentCreation) {
		t.Fatalf("Set(OBX(6)-3) error = %v; want ErrSegmentCreation", err)
	}
	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T; want *PathError", err)
	}
	if pe.Segment != "OBX" || pe.Path != "OBX(6)-3" {
		t.Errorf("PathError context = %+v; want segment OBX, path OBX(6)-3", pe)
	}
}

func TestTerserSet_NewSegment(t *testing.T) {
	msg := mustDecode(t, adtA01)
	mt := NewMutTerser(msg)

	if err := mt.Set("NK1-2-1", "DOE^JANE"); err != nil {
		t.Fatalf("Set(NK1-2-1) error = %v", err)
	}
	if got := msg.Occurrences("NK1"); got != 1 {
		t.Errorf("NK1 occurrences = %d; want 1", got)
	}
	if v, _, _ := mt.Get("NK1-2-1"); v != "DOE^JANE" {
		t.Errorf("NK1-2-1 = %q; want DOE^JANE", v)
	}
}

func TestTerserSet_WildcardRejected(t *testing.T) {
	mt := NewMutTerser(mustDecode(t, adtA01))
	if err := mt.Set("OBX(*)-5", "x"); !errors.Is(err, ErrPathSyntax) {
		t.Errorf("Set with wildcard error = %v; want ErrPathSyntax", err)
	}
}

func TestTerser_FieldValues(t *testing.T) {
	msg := mustDecode(t, oruR01)
	tr := NewTerser(msg)

	got := slices.Collect(tr.FieldValues("OBX", 3))
	want := []string{"NA", "GLUCOSE", "K"}
	if !slices.Equal(got, want) {
		t.Errorf("FieldValues(OBX, 3) = %v; want %v", got, want)
	}

	// Restartable: a second pass yields the same sequence.
	again := slices.Collect(tr.FieldValues("OBX", 3))
	if !slices.Equal(again, want) {
		t.Errorf("second pass = %v; want %v", again, want)
	}
}

func TestTerser_FieldValuesSkipsEmpty(t *testing.T) {
	raw := "MSH|^~\\&|A\rOBX|1|NM|X\rOBX|2||\rOBX|3|NM|Y"
	tr := NewTerser(mustDecode(t, raw))

	got := slices.Collect(tr.FieldValues("OBX", 3))
	want := []string{"X", "Y"}
	if !slices.Equal(got, want) {
		t.Errorf("FieldValues = %v; want %v (empties skipped)", got, want)
	}
}

func TestTerser_FieldValuesEarlyStop(t *testing.T) {
	tr := NewTerser(mustDecode(t, oruR01))
	var first string
	for v := range tr.FieldValues("OBX", 3) {
		first = v
		break
	}
	if first != "NA" {
		t.Errorf("first value = %q; want NA", first)
	}
}

func TestTerser_ComponentValues(t *testing.T) {
	raw := "MSH|^~\\&|A\rPID|1||X\rNK1|1|DOE^JANE\rNK1|2|ROE^RICK"
	tr := NewTerser(mustDecode(t, raw))

	got := slices.Collect(tr.ComponentValues("NK1", 2, 2))
	want := []string{"JANE", "RICK"}
	if !slices.Equal(got, want) {
		t.Errorf("ComponentValues(NK1, 2, 2) = %v; want %v", got, want)
	}
}

func TestTerser_RepetitionValues(t *testing.T) {
	raw := "MSH|^~\\&|A\rPID|1||ID1~ID2\rPID|2||ID3"
	tr := NewTerser(mustDecode(t, raw))

	got := slices.Collect(tr.RepetitionValues("PID", 3, 2))
	want := []string{"ID2"}
	if !slices.Equal(got, want) {
		t.Errorf("RepetitionValues(PID, 3, 2) = %v; want %v", got, want)
	}
}
