package hl7v2

import "fmt"

// Delimiters holds the five encoding characters governing one message.
// Once bound to a Message they are fixed for that Message's lifetime.
type Delimiters struct {
	// Field separates fields within a segment.
	Field byte
	// Component separates components within a repetition.
	Component byte
	// Repetition separates repetitions within a field.
	Repetition byte
	// Escape introduces and terminates escape sequences.
	Escape byte
	// Subcomponent separates subcomponents within a component.
	Subcomponent byte
}

// DefaultDelimiters returns the standard HL7 v2 delimiter set: |^~\&
func DefaultDelimiters() Delimiters {
	return Delimiters{
		Field:        '|',
		Component:    '^',
		Repetition:   '~',
		Escape:       '\\',
		Subcomponent: '&',
	}
}

// Encoding returns the four encoding characters in the canonical order
// they appear in the header segment's second field (e.g. "^~\&").
func (d Delimiters) Encoding() string {
	return string([]byte{d.Component, d.Repetition, d.Escape, d.Subcomponent})
}

// Validate checks that all five delimiters are present and distinct.
func (d Delimiters) Validate() error {
	chars := [5]byte{d.Field, d.Component, d.Repetition, d.Escape, d.Subcomponent}
	for i, c := range chars {
		if c == 0 {
			return fmt.Errorf("hl7v2: delimiter %d is unset", i+1)
		}
		for j := i + 1; j < len(chars); j++ {
			if c == chars[j] {
				return fmt.Errorf("hl7v2: duplicate delimiter %q", c)
			}
		}
	}
	return nil
}

// contains reports whether c is one of the five delimiter characters.
func (d Delimiters) contains(c byte) bool {
	return c == d.Field || c == d.Component || c == d.Repetition ||
		c == d.Escape || c == d.Subcomponent
}
