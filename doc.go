// Package hl7v2 provides parsing, querying, mutation, and serialization of
// HL7 v2.x pipe-delimited healthcare messages.
//
// This package is designed from the ground up to leverage Go's strengths:
// a small value-type message tree, explicit error returns, generics for the
// terser cache, and iterators for lazy field traversal.
//
// # Quick Start
//
//	import "github.com/gohl7/hl7v2"
//
//	msg, err := hl7v2.Decode(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	t := hl7v2.NewTerser(msg)
//	family, ok, err := t.Get("PID-5-1")
//	if err != nil {
//	    // malformed path expression
//	}
//	if !ok {
//	    // field absent: a normal outcome, not an error
//	}
//
// # Message Tree
//
// A decoded message is a fixed-depth tree:
//
//	Message -> Segment -> Field -> Repetition -> Component -> Subcomponent
//
// Subcomponents are the leaves; all reads and writes ultimately target a
// subcomponent value. Values are opaque strings at this layer; no semantic
// interpretation (dates, codes, numerics) is performed.
//
// # Path Expressions
//
// Reads and writes use compact path expressions resolved against the tree:
//
//	PID-5-1        first PID, field 5, component 1
//	OBX(2)-5       second OBX occurrence, field 5
//	PID-3(2)-4-2   field 3, repetition 2, component 4, subcomponent 2
//	OBX(*)-5       wildcard: field 5 of every OBX occurrence
//
// All indices are 1-based. See ParsePath for the full grammar.
//
// # Terser Family
//
// Four access patterns layer on the same resolver:
//
//   - Terser / MutTerser: parse-then-resolve on every call; MutTerser adds
//     Set with contiguous auto-extension of missing structure.
//   - CachedTerser: memoizes resolved coordinates per path string against one
//     message snapshot. Results always match the direct Terser.
//   - BulkTerser: multi-path and wildcard-pattern resolution in one call.
//   - Query: predicate search across repeating segment occurrences.
//
// # Concurrency
//
// A fully decoded Message is safe for concurrent readers. A MutTerser
// requires exclusive access to its Message for the duration of any Set call.
// A CachedTerser is not safe for unsynchronized concurrent use; give each
// goroutine its own instance.
//
// # Errors
//
// Decode failures are never partial: a malformed message fails the whole
// decode. Absence of data (missing segment, out-of-range index) is reported
// as not-found, never as an error. See the DecodeError and PathError types
// for the taxonomy.
package hl7v2
