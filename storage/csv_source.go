package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
)

// CSVSource reads comma-separated (or otherwise delimited) text files. Every record must
// have as many fields as the header.
type CSVSource struct {
	Path  string
	Comma rune // defaults to ','
	// MaxRecordSize bounds the summed byte length of a record's parsed fields, excluding
	// delimiters and quotes. encoding/csv has already buffered the whole line when the
	// check runs, so it limits what a record passes on, not what is read.
	// Defaults to DefaultMaxRecordSize.
	MaxRecordSize int
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Name() string {
	return s.Path
}

func (s *CSVSource) Open() (RecordReader, error) {
	f, err := openFile(s.Path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(f)
	if s.Comma != 0 {
		r.Comma = s.Comma
	}
	// 0 makes the reader enforce the header's field count on every record.
	r.FieldsPerRecord = 0
	r.ReuseRecord = false

	maxSize := s.MaxRecordSize
	if maxSize <= 0 {
		maxSize = DefaultMaxRecordSize
	}
	return &csvReader{file: f, reader: r, maxSize: maxSize}, nil
}

type csvReader struct {
	file    *os.File
	reader  *csv.Reader
	maxSize int
}

func (r *csvReader) Read() ([]string, error) {
	rec, err := r.reader.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, parseErr)
		}
		return nil, err
	}
	if size := recordSize(rec); size > r.maxSize {
		line, _ := r.reader.FieldPos(0)
		return nil, fmt.Errorf("%w: line %d holds %d bytes (limit %d)", ErrRecordTooLarge, line, size, r.maxSize)
	}
	return rec, nil
}

func (r *csvReader) Close() error {
	return r.file.Close()
}
