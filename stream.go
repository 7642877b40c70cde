package contextkey

// StreamRecord is one incremental fragment of a streaming answer.
// Records are delivered strictly in receive order; a record with Final
// set terminates the stream.
type StreamRecord struct {
	Text  string
	Final bool
}

// Stream is a live generative-stream call. Callers must drain Records
// until it closes, then call Wait for the terminal result:
//
//	stream, err := contextkey.NewQuery(input).Stream(ctx, ck)
//	for record := range stream.Records() {
//		render(record.Text)
//	}
//	answer, err := stream.Wait()
//
// Cancelling ctx stops byte delivery; Wait then returns the context
// error and the partial text is the caller's to discard.
type Stream struct {
	records chan StreamRecord
	done    chan struct{}

	text string
	err  error
}

func newStream() *Stream {
	return &Stream{
		records: make(chan StreamRecord),
		done:    make(chan struct{}),
	}
}

// Records returns the channel of incremental fragments. It is closed
// when the stream terminates, successfully or not.
func (s *Stream) Records() <-chan StreamRecord {
	return s.records
}

// Wait blocks until the stream terminates and returns the full answer,
// the in-order concatenation of every fragment.
func (s *Stream) Wait() (string, error) {
	<-s.done

	return s.text, s.err
}

func (s *Stream) finish(text string, err error) {
	s.text = text
	s.err = err

	close(s.records)
	close(s.done)
}
