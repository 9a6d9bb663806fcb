// Package stream provides streaming decode of HL7 batch files: an optional
// FHS/BHS envelope, one or more MSH-rooted messages, and optional BTS/FTS
// trailers. Messages are decoded and emitted one at a time so large batch
// files never need to be fully materialized as trees.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gohl7/hl7v2"
	"github.com/gohl7/hl7v2/pkg/logger"
)

// Envelope segment IDs of the HL7 batch protocol.
const (
	fileHeaderID   = "FHS"
	batchHeaderID  = "BHS"
	batchTrailerID = "BTS"
	fileTrailerID  = "FTS"
	messageStartID = "MSH"
)

// MessageResult is one decoded message from a batch stream.
type MessageResult struct {
	// Index is the message's position in the batch, starting at 0.
	Index int

	// ControlID is MSH-10 of the decoded message, empty on decode failure.
	ControlID string

	// Message is the decoded tree; nil when Err is set.
	Message *hl7v2.Message

	// Err is the decode failure for this message. One bad message does not
	// stop the stream.
	Err error
}

// BatchDecoder splits a batch stream into messages and decodes each.
type BatchDecoder struct {
	bufferSize int
	opts       []hl7v2.Option
	log        *logger.Logger
}

// NewBatchDecoder creates a BatchDecoder decoding with the given codec
// options.
func NewBatchDecoder(opts ...hl7v2.Option) *BatchDecoder {
	return &BatchDecoder{
		bufferSize: 16,
		opts:       opts,
		log:        logger.Default(),
	}
}

// WithBufferSize sets the result channel buffer size.
func (d *BatchDecoder) WithBufferSize(n int) *BatchDecoder {
	if n > 0 {
		d.bufferSize = n
	}
	return d
}

// WithLogger replaces the decoder's logger.
func (d *BatchDecoder) WithLogger(l *logger.Logger) *BatchDecoder {
	if l != nil {
		d.log = l
	}
	return d
}

// DecodeStream reads a batch from r, emitting one MessageResult per message
// in document order. Envelope segments (FHS, BHS, BTS, FTS) are consumed as
// framing, not emitted. The channel is closed when the stream ends or ctx is
// cancelled.
func (d *BatchDecoder) DecodeStream(ctx context.Context, r io.Reader) <-chan *MessageResult {
	results := make(chan *MessageResult, d.bufferSize)

	go func() {
		defer close(results)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		scanner.Split(scanSegmentLines)

		var current []string
		index := 0
		emit := func() bool {
			if len(current) == 0 {
				return true
			}
			raw := strings.Join(current, "\r")
			current = current[:0]
			res := d.decodeOne(index, raw)
			index++
			select {
			case <-ctx.Done():
				return false
			case results <- res:
				return true
			}
		}

		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			id := segmentID(line)
			switch id {
			case fileHeaderID, batchHeaderID, batchTrailerID, fileTrailerID:
				// Envelope framing: flush any accumulated message, consume
				// the line.
				if !emit() {
					return
				}
			case messageStartID:
				if !emit() {
					return
				}
				current = append(current, line)
			default:
				current = append(current, line)
			}
		}
		if err := scanner.Err(); err != nil {
			d.log.Warn("batch stream read failed after %d messages: %v", index, err)
			select {
			case <-ctx.Done():
			case results <- &MessageResult{Index: index, Err: fmt.Errorf("stream: read: %w", err)}:
			}
			return
		}
		emit()
	}()

	return results
}

// DecodeAll collects DecodeStream results into a slice.
func (d *BatchDecoder) DecodeAll(ctx context.Context, r io.Reader) ([]*MessageResult, error) {
	var out []*MessageResult
	for res := range d.DecodeStream(ctx, r) {
		out = append(out, res)
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

func (d *BatchDecoder) decodeOne(index int, raw string) *MessageResult {
	msg, err := hl7v2.DecodeString(raw, d.opts...)
	if err != nil {
		d.log.Debug("batch message %d failed to decode: %v", index, err)
		return &MessageResult{Index: index, Err: err}
	}
	return &MessageResult{
		Index:     index,
		ControlID: msg.ControlID(),
		Message:   msg,
	}
}

// scanSegmentLines is a bufio.SplitFunc splitting on CR, LF, or CRLF.
func scanSegmentLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance++
		} else if data[i] == '\r' && i+1 == len(data) && !atEOF {
			// Might be the first half of a CRLF; ask for more data.
			return 0, nil, nil
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// segmentID returns the leading run of uppercase alphanumerics.
func segmentID(line string) string {
	i := 0
	for i < len(line) {
		c := line[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			break
		}
		i++
	}
	return line[:i]
}
