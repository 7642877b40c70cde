// Package ndjson frames the generate transport's newline-delimited JSON
// stream. The transport delivers bytes split at arbitrary boundaries;
// the framer reassembles complete lines and decodes each one as a
// single record.
package ndjson

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Record is one line of the generate protocol.
type Record struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// Framer accumulates bytes across receive events and emits one Record
// per complete, decodable line. Lines that fail to decode carry no
// usable signal and are counted, not surfaced; the protocol guarantees
// a well-formed completion record.
type Framer struct {
	buf     []byte
	done    bool
	dropped int
}

// Push appends received bytes and returns the records framed by any
// newlines they complete, in stream order. Once a record with Done has
// been emitted no further records are produced.
func (f *Framer) Push(p []byte) []Record {
	if f.done {
		return nil
	}

	f.buf = append(f.buf, p...)

	segments := bytes.Split(f.buf, []byte("\n"))
	f.buf = segments[len(segments)-1]

	return f.decode(segments[:len(segments)-1])
}

// Finish flushes a trailing line without a newline terminator and
// returns an error if the stream ended before a completion record was
// seen.
func (f *Framer) Finish() ([]Record, error) {
	records := f.decode([][]byte{f.buf})
	f.buf = nil

	if !f.done {
		return records, errors.New("stream ended before a completion record")
	}

	return records, nil
}

// Done reports whether a completion record has been emitted.
func (f *Framer) Done() bool {
	return f.done
}

// Dropped returns the number of undecodable lines skipped so far.
func (f *Framer) Dropped() int {
	return f.dropped
}

func (f *Framer) decode(lines [][]byte) []Record {
	var records []Record

	for _, line := range lines {
		if f.done || len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			f.dropped += 1
			continue
		}

		records = append(records, record)

		if record.Done {
			f.done = true
		}
	}

	return records
}
