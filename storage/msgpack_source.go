package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackSource reads a stream of msgpack-encoded string arrays: the header array first,
// then one array per row. WriteMsgpackTable produces this format.
type MsgpackSource struct {
	Path string
	// MaxRecordSize bounds the summed byte length of a decoded record's fields. It is
	// checked after the array is decoded. Defaults to DefaultMaxRecordSize.
	MaxRecordSize int
}

func NewMsgpackSource(path string) *MsgpackSource {
	return &MsgpackSource{Path: path}
}

func (s *MsgpackSource) Name() string {
	return s.Path
}

func (s *MsgpackSource) Open() (RecordReader, error) {
	f, err := openFile(s.Path)
	if err != nil {
		return nil, err
	}
	maxSize := s.MaxRecordSize
	if maxSize <= 0 {
		maxSize = DefaultMaxRecordSize
	}
	return &msgpackReader{file: f, dec: msgpack.NewDecoder(bufio.NewReader(f)), maxSize: maxSize}, nil
}

type msgpackReader struct {
	file    *os.File
	dec     *msgpack.Decoder
	maxSize int
	fields  int
	n       int
}

func (r *msgpackReader) Read() ([]string, error) {
	var rec []string
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedRecord, r.n, err)
	}
	if size := recordSize(rec); size > r.maxSize {
		return nil, fmt.Errorf("%w: record %d holds %d bytes (limit %d)", ErrRecordTooLarge, r.n, size, r.maxSize)
	}
	if r.n == 0 {
		r.fields = len(rec)
	} else if len(rec) != r.fields {
		return nil, fmt.Errorf("%w: record %d has %d fields, header has %d", ErrMalformedRecord, r.n, len(rec), r.fields)
	}
	r.n++
	return rec, nil
}

func (r *msgpackReader) Close() error {
	return r.file.Close()
}

// WriteMsgpackTable encodes columns followed by every record as msgpack arrays.
func WriteMsgpackTable(w io.Writer, columns []string, records [][]string) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(columns); err != nil {
		return err
	}
	for i, rec := range records {
		if len(rec) != len(columns) {
			return fmt.Errorf("%w: record %d has %d fields, header has %d", ErrMalformedRecord, i, len(rec), len(columns))
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// TuplesToRecords flattens tuples into a header and positional records. The header is
// the sorted union of every tuple's columns; absent columns become empty fields.
func TuplesToRecords(tuples []Tuple) ([]string, [][]string) {
	seen := make(map[string]struct{})
	var columns []string
	for _, t := range tuples {
		for c := range t.fields {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				columns = append(columns, c)
			}
		}
	}
	slices.Sort(columns)
	records := make([][]string, len(tuples))
	for i, t := range tuples {
		rec := make([]string, len(columns))
		for j, c := range columns {
			rec[j] = t.fields[c]
		}
		records[i] = rec
	}
	return columns, records
}
