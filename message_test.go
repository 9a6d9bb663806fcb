package hl7v2

import (
	"errors"
	"testing"
)

func TestNewMessage(t *testing.T) {
	msg := NewMessage(V25)
	if len(msg.Segments) != 1 || msg.Header().ID != "MSH" {
		t.Fatalf("NewMessage() segments = %+v; want one MSH", msg.Segments)
	}
	tr := NewTerser(msg)
	if v, _, _ := tr.Get("MSH-1"); v != "|" {
		t.Errorf("MSH-1 = %q; want |", v)
	}
	if v, _, _ := tr.Get("MSH-2"); v != `^~\&` {
		t.Errorf("MSH-2 = %q; want ^~\\&", v)
	}
	if v, _, _ := tr.Get("MSH-12"); v != "2.5" {
		t.Errorf("MSH-12 = %q; want 2.5", v)
	}
}

func TestMessage_Occurrences(t *testing.T) {
	msg := mustDecode(t, oruR01)
	if got := msg.Occurrences("OBX"); got != 3 {
		t.Errorf("Occurrences(OBX) = %d; want 3", got)
	}
	if got := msg.Occurrences("ZZZ"); got != 0 {
		t.Errorf("Occurrences(ZZZ) = %d; want 0", got)
	}

	seg, ok := msg.Segment("OBX", 2)
	if !ok {
		t.Fatal("Segment(OBX, 2) not found")
	}
	if v, _ := seg.value(3, 1, 1, 1); v != "GLUCOSE" {
		t.Errorf("OBX(2)-3 = %q; want GLUCOSE", v)
	}
	if _, ok := msg.Segment("OBX", 4); ok {
		t.Error("Segment(OBX, 4) = found; want false")
	}
	if _, ok := msg.Segment("OBX", 0); ok {
		t.Error("Segment(OBX, 0) = found; want false (occurrences are 1-based)")
	}
}

func TestContentEquals(t *testing.T) {
	a := mustDecode(t, adtA01)
	b := mustDecode(t, adtA01)
	if !ContentEquals(a, b) {
		t.Error("identical decodes are not content-equal")
	}

	if err := NewMutTerser(b).Set("PID-5-1", "SMITH"); err != nil {
		t.Fatal(err)
	}
	if ContentEquals(a, b) {
		t.Error("mutated message still content-equal")
	}
}

func TestVersion(t *testing.T) {
	if !V25.IsKnown() {
		t.Error("V25.IsKnown() = false")
	}
	if Version("9.9").IsKnown() {
		t.Error(`Version("9.9").IsKnown() = true`)
	}
	// Unknown versions still decode.
	msg := mustDecode(t, "MSH|^~\\&|A|B|||||ADT^A01|1|P|9.9")
	if msg.Version != "9.9" {
		t.Errorf("Version = %q; want 9.9", msg.Version)
	}
}

func TestDelimiters_Validate(t *testing.T) {
	if err := DefaultDelimiters().Validate(); err != nil {
		t.Errorf("default set Validate() = %v", err)
	}
	dup := Delimiters{Field: '|', Component: '|', Repetition: '~', Escape: '\\', Subcomponent: '&'}
	if err := dup.Validate(); err == nil {
		t.Error("Validate() with duplicate = nil; want error")
	}
	unset := Delimiters{Field: '|'}
	if err := unset.Validate(); err == nil {
		t.Error("Validate() with unset characters = nil; want error")
	}
	if got := DefaultDelimiters().Encoding(); got != `^~\&` {
		t.Errorf("Encoding() = %q; want ^~\\&", got)
	}
}

func TestDecodeError_Context(t *testing.T) {
	_, err := DecodeString("")
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error type = %T; want *DecodeError", err)
	}
	if de.Reason == "" {
		t.Error("DecodeError.Reason is empty")
	}
	if de.Error() == "" {
		t.Error("DecodeError.Error() is empty")
	}
}
