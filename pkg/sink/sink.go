// Package sink buffers extracted records and writes each buffer exactly once
// as a delimited artifact.
package sink

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	errs "aozorascraper/pkg/errors"
	"aozorascraper/pkg/records"
	"aozorascraper/pkg/storage"
)

// Artifact identifies the output of one buffer
type Artifact struct {
	Mode     records.Mode
	Label    string
	Columns  records.Columns
	Language records.Language
}

// Writer opens sinks that share an output directory and a name clock.
type Writer struct {
	store *storage.Manager
	enc   encoding.Encoding
	clock *Clock
}

// NewWriter returns a Writer storing artifacts through store in enc.
func NewWriter(store *storage.Manager, enc encoding.Encoding, clock *Clock) *Writer {
	if clock == nil {
		clock = NewClock(time.Now)
	}
	return &Writer{store: store, enc: enc, clock: clock}
}

// Open starts an empty buffer for a.
func (w *Writer) Open(a Artifact) *Sink {
	return &Sink{writer: w, artifact: a}
}

// Sink is an ordered record buffer. Append and Flush are called from the
// job's goroutine; Len may be read from elsewhere.
type Sink struct {
	writer   *Writer
	artifact Artifact

	mu      sync.Mutex
	records []records.Record
	flushed bool
	path    string
}

// Append adds r to the buffer. Keys missing from r are written as empty.
func (s *Sink) Append(r records.Record) {
	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
}

// Len returns the number of buffered records
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Records returns a copy of the buffer.
func (s *Sink) Records() []records.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]records.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Flushed reports whether the buffer was already written
func (s *Sink) Flushed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushed
}

// Path returns the artifact path after a successful flush.
func (s *Sink) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Flush encodes the header and every buffered record and stores them as a
// new artifact. It may be called once; later calls return ErrAlreadyFlushed.
func (s *Sink) Flush() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flushed {
		return "", errs.ErrAlreadyFlushed
	}
	s.flushed = true

	a := s.artifact
	name := s.writer.store.Reserve(s.writer.clock.Name(a.Mode, a.Label))

	data, err := encode(a.Columns, a.Language, s.records, s.writer.enc)
	if err != nil {
		return "", errs.Flush(name, err)
	}

	path, err := s.writer.store.Save(bytes.NewReader(data), name)
	if err != nil {
		return "", errs.Flush(name, err)
	}
	s.path = path
	return path, nil
}

// encode renders the whole artifact in memory. Runes the target encoding
// cannot represent are replaced instead of failing the flush.
func encode(cols records.Columns, lang records.Language, rows []records.Record, enc encoding.Encoding) ([]byte, error) {
	var buf bytes.Buffer
	out := transform.NewWriter(&buf, encoding.ReplaceUnsupported(enc.NewEncoder()))

	w := csv.NewWriter(out)
	w.UseCRLF = true
	if err := w.Write(cols.Header(lang)); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(r.Row(cols)); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv records: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
