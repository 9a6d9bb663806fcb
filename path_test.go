package hl7v2

import (
	"errors"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		expr string
		want Path
	}{
		{"PID-5", Path{Segment: "PID", Occurrence: 1, Field: 5, Repetition: 1, Component: 1, Subcomponent: 1}},
		{"PID-5-1", Path{Segment: "PID", Occurrence: 1, Field: 5, Repetition: 1, Component: 1, Subcomponent: 1, hasComponent: true}},
		{"PID-5-2-3", Path{Segment: "PID", Occurrence: 1, Field: 5, Repetition: 1, Component: 2, Subcomponent: 3, hasComponent: true, hasSubcomponent: true}},
		{"OBX(2)-5", Path{Segment: "OBX", Occurrence: 2, Field: 5, Repetition: 1, Component: 1, Subcomponent: 1}},
		{"PID-3(2)-4-2", Path{Segment: "PID", Occurrence: 1, Field: 3, Repetition: 2, Component: 4, Subcomponent: 2, hasRepetition: true, hasComponent: true, hasSubcomponent: true}},
		{"ZQR1-1", Path{Segment: "ZQR1", Occurrence: 1, Field: 1, Repetition: 1, Component: 1, Subcomponent: 1}},
		{"OBX(*)-5", Path{Segment: "OBX", Occurrence: 1, AllOccurrences: true, Field: 5, Repetition: 1, Component: 1, Subcomponent: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParsePath(tt.expr)
			if err != nil {
				t.Fatalf("ParsePath(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("ParsePath(%q) = %+v; want %+v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestParsePath_Errors(t *testing.T) {
	exprs := []string{
		"",            // empty segment id
		"PI-5",        // segment id too short
		"pid-5",       // lowercase
		"PID",         // missing field number
		"PID-",        // missing field number
		"PID-x",       // non-numeric field
		"PID-0",       // field is 1-based
		"PID(0)-5",    // occurrence is 1-based
		"PID(2-5",     // unclosed occurrence
		"PID-5(0)",    // repetition is 1-based
		"PID-5(1",     // unclosed repetition
		"PID-5-0",     // component is 1-based
		"PID-5-1-0",   // subcomponent is 1-based
		"PID-5-1-2-3", // too many parts
		"PID-5 ",      // trailing characters
		"PID(*)-5(*)", // wildcard only valid for occurrence
		"PID-5x",      // trailing characters after index
	}
	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			_, err := ParsePath(expr)
			if !errors.Is(err, ErrPathSyntax) {
				t.Fatalf("ParsePath(%q) error = %v; want ErrPathSyntax", expr, err)
			}
			var pe *PathError
			if !errors.As(err, &pe) {
				t.Fatalf("error type = %T; want *PathError", err)
			}
			if pe.Path != expr {
				t.Errorf("PathError.Path = %q; want %q", pe.Path, expr)
			}
			if pe.Offset < 0 || pe.Offset > len(expr) {
				t.Errorf("PathError.Offset = %d; out of range for %q", pe.Offset, expr)
			}
		})
	}
}

func TestParsePath_ErrorOffset(t *testing.T) {
	_, err := ParsePath("PID-5-x")
	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T; want *PathError", err)
	}
	if pe.Offset != 6 {
		t.Errorf("Offset = %d; want 6 (position of 'x')", pe.Offset)
	}
}

func TestPath_String(t *testing.T) {
	exprs := []string{
		"PID-5",
		"PID-5-1",
		"PID-5-2-3",
		"OBX(2)-5",
		"PID-3(2)-4-2",
		"OBX(*)-5",
	}
	for _, expr := range exprs {
		p, err := ParsePath(expr)
		if err != nil {
			t.Fatalf("ParsePath(%q) error = %v", expr, err)
		}
		if got := p.String(); got != expr {
			t.Errorf("String() = %q; want %q", got, expr)
		}
	}
}
