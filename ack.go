package hl7v2

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AckCode is the acknowledgment code carried in MSA-1.
type AckCode string

// Original-mode acknowledgment codes.
const (
	// AckAccept: application accept.
	AckAccept AckCode = "AA"
	// AckError: application error.
	AckError AckCode = "AE"
	// AckReject: application reject.
	AckReject AckCode = "AR"
)

// ackClock is swapped in tests for deterministic timestamps.
var ackClock = time.Now

// BuildAck builds an ACK message acknowledging original: sender and receiver
// are reversed, the original control ID is echoed in MSA-2, and a fresh
// control ID is generated. text, when non-empty, is carried in MSA-3.
//
// The ACK is a plain Message tree; framing and delivery belong to the
// transport layer.
func BuildAck(original *Message, code AckCode, text string) (*Message, error) {
	if original == nil || len(original.Segments) == 0 {
		return nil, ErrEmptyMessage
	}

	ack := NewMessage(original.Version)
	ack.Delimiters = original.Delimiters

	src := NewTerser(original)
	t := NewMutTerser(ack)

	// Reverse sending/receiving application and facility.
	for _, swap := range [][2]string{
		{"MSH-3", "MSH-5"}, {"MSH-4", "MSH-6"},
		{"MSH-5", "MSH-3"}, {"MSH-6", "MSH-4"},
	} {
		if v, ok, _ := src.Get(swap[1]); ok && v != "" {
			if err := t.Set(swap[0], v); err != nil {
				return nil, err
			}
		}
	}

	sets := [][2]string{
		{"MSH-7", ackClock().Format("20060102150405")},
		{"MSH-9-1", "ACK"},
		{"MSH-10", newControlID()},
		{"MSH-12", string(original.Version)},
		{"MSA-1", string(code)},
		{"MSA-2", original.ControlID()},
	}
	if v, ok, _ := src.Get("MSH-11"); ok && v != "" {
		sets = append(sets, [2]string{"MSH-11", v})
	}
	if trigger, ok, _ := src.Get("MSH-9-2"); ok && trigger != "" {
		sets = append(sets, [2]string{"MSH-9-2", trigger})
	}
	if text != "" {
		sets = append(sets, [2]string{"MSA-3", text})
	}
	for _, kv := range sets {
		if err := t.Set(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("hl7v2: building ack: %w", err)
		}
	}
	return ack, nil
}

// newControlID returns a fresh 20-character message control ID. MSH-10 is
// capped at 20 characters in v2.x, so the UUID hex is truncated.
func newControlID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:20]
}
