package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultMaxRecordSize bounds the number of bytes a single record may occupy before a
// source reports ErrRecordTooLarge.
const DefaultMaxRecordSize = 100000

var (
	// ErrSourceNotFound is returned by Open when the underlying file does not exist.
	ErrSourceNotFound = errors.New("row source not found")
	// ErrMalformedRecord is returned when a record cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrRecordTooLarge is returned when a record exceeds the source's size limit.
	ErrRecordTooLarge = errors.New("record too large")
)

// RowSource is an external, line-oriented collection of delimited records. The first
// record of every source names the columns; every later record holds one row's values in
// the same positions.
type RowSource interface {
	// Open starts a new pass over the source.
	Open() (RecordReader, error)

	// Name identifies the source in logs and errors (usually a path).
	Name() string
}

// RecordReader yields the records of one pass over a RowSource.
type RecordReader interface {
	// Read returns the next record, or io.EOF once every record has been read.
	Read() ([]string, error)

	// Close releases the underlying handle.
	Close() error
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	return f, err
}

func recordSize(record []string) int {
	size := 0
	for _, field := range record {
		size += len(field)
	}
	return size
}

// MemorySource serves generated or in-memory rows. Columns is the header record.
type MemorySource struct {
	Label   string
	Columns []string
	Records [][]string
}

func NewMemorySource(label string, columns []string, records ...[]string) *MemorySource {
	return &MemorySource{Label: label, Columns: columns, Records: records}
}

func (s *MemorySource) Name() string {
	if s.Label == "" {
		return "memory"
	}
	return s.Label
}

func (s *MemorySource) Open() (RecordReader, error) {
	return &memoryReader{source: s, pos: -1}, nil
}

type memoryReader struct {
	source *MemorySource
	pos    int
}

func (r *memoryReader) Read() ([]string, error) {
	if r.pos == -1 {
		r.pos++
		return r.source.Columns, nil
	}
	if r.pos >= len(r.source.Records) {
		return nil, io.EOF
	}
	rec := r.source.Records[r.pos]
	r.pos++
	if len(rec) != len(r.source.Columns) {
		return nil, fmt.Errorf("%w: record %d has %d fields, header has %d",
			ErrMalformedRecord, r.pos, len(rec), len(r.source.Columns))
	}
	return rec, nil
}

func (r *memoryReader) Close() error {
	return nil
}
