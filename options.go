package hl7v2

// Option configures decoding and encoding behavior.
type Option func(*Options)

// Options holds all codec configuration.
type Options struct {
	// Delimiters overrides the delimiter set read from the header segment.
	// When set, the header's own separator characters must match it.
	Delimiters *Delimiters

	// SegmentTerminator separates segments on the wire. Default carriage
	// return. It must not be one of the five delimiters.
	SegmentTerminator string

	// LenientNewlines accepts LF and CRLF segment framing on decode in
	// addition to the configured terminator. Encoding always emits
	// SegmentTerminator. Enabled by default; real-world files are sloppy
	// about CR vs LF.
	LenientNewlines bool

	// Metrics, when non-nil, receives decode/encode observations.
	Metrics *Metrics
}

// DefaultOptions returns the default codec configuration.
func DefaultOptions() *Options {
	return &Options{
		SegmentTerminator: "\r",
		LenientNewlines:   true,
	}
}

func applyOptions(opts []Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDelimiters supplies a caller-defined delimiter set instead of reading
// it from the header segment.
func WithDelimiters(d Delimiters) Option {
	return func(o *Options) {
		o.Delimiters = &d
	}
}

// WithSegmentTerminator sets the segment terminator sequence.
func WithSegmentTerminator(terminator string) Option {
	return func(o *Options) {
		if terminator != "" {
			o.SegmentTerminator = terminator
		}
	}
}

// WithLenientNewlines enables or disables acceptance of LF/CRLF framing on
// decode.
func WithLenientNewlines(enable bool) Option {
	return func(o *Options) {
		o.LenientNewlines = enable
	}
}

// WithMetrics attaches a Metrics recorder to codec operations.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}
