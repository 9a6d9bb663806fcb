package worker

import (
	"time"

	"github.com/gohl7/hl7v2"
)

// Job is one raw message payload to decode.
type Job struct {
	// ID correlates the job with its result. Optional; when empty, the
	// result is correlated by Index.
	ID string

	// Index is the job's position in the submitted batch.
	Index int

	// Payload is the raw segment-terminated message text.
	Payload []byte
}

// JobResult is the outcome of decoding one job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Index matches Job.Index.
	Index int

	// Message is the decoded tree; nil when Err is set.
	Message *hl7v2.Message

	// Err is the decode failure, if any.
	Err error

	// Duration is the time taken to decode.
	Duration time.Duration
}

// BatchResult aggregates the results of one DecodeBatch call, in submission
// order.
type BatchResult struct {
	Results   []*JobResult
	TotalJobs int
	Failed    int
}

// HasErrors reports whether any job failed to decode.
func (br *BatchResult) HasErrors() bool {
	return br.Failed > 0
}

// Messages returns the successfully decoded messages in submission order,
// skipping failures.
func (br *BatchResult) Messages() []*hl7v2.Message {
	out := make([]*hl7v2.Message, 0, len(br.Results))
	for _, r := range br.Results {
		if r.Err == nil {
			out = append(out, r.Message)
		}
	}
	return out
}
