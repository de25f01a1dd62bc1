package execution

import (
	"errors"
	"io"

	mapset "github.com/deckarep/golang-set/v2"
	"mit.edu/dsg/pulldb/common"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// SeqScanExecutor reads every row of a row source. The source is read completely during
// Init and its handle is closed before Init returns; Next then plays the rows back in
// source order.
type SeqScanExecutor struct {
	lifecycle
	plan   *planner.SeqScanNode
	source storage.RowSource

	rows    []storage.Tuple
	pos     int
	current storage.Tuple
}

// NewSeqScanExecutor creates a new SeqScanExecutor over source.
func NewSeqScanExecutor(plan *planner.SeqScanNode, source storage.RowSource) *SeqScanExecutor {
	return &SeqScanExecutor{
		lifecycle: newLifecycle("SeqScan"),
		plan:      plan,
		source:    source,
	}
}

func (e *SeqScanExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *SeqScanExecutor) Init(ctx *ExecutorContext) error {
	e.begin(ctx)
	e.rows = nil
	e.pos = 0
	e.current = storage.Tuple{}

	if e.source == nil {
		err := common.NewError(common.ConfigurationError, "scan has no row source")
		e.fail(err)
		return err
	}
	rows, err := readSource(e.source)
	if err != nil {
		err = common.WrapError(common.SourceError, err, "cannot scan '%s'", e.source.Name())
		e.fail(err)
		return err
	}
	e.rows = rows
	e.log.Debug("source loaded", "source", e.source.Name(), "rows", len(rows))
	return nil
}

// readSource zips every record after the header with the header's column names.
func readSource(source storage.RowSource) (rows []storage.Tuple, err error) {
	reader, err := source.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	header, err := reader.Read()
	if errors.Is(err, io.EOF) || (err == nil && len(header) == 0) {
		return nil, errors.New("source is empty, expected a header record")
	}
	if err != nil {
		return nil, err
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		if len(record) != len(header) {
			return nil, common.NewError(common.SourceError,
				"record %d has %d fields, header has %d", line, len(record), len(header))
		}
		fields := make(map[string]string, len(header))
		for i, column := range header {
			fields[column] = record[i]
		}
		rows = append(rows, storage.FromMap(fields))
	}
}

func validateHeader(header []string) error {
	seen := mapset.NewThreadUnsafeSet[string]()
	for i, column := range header {
		if column == "" {
			return common.NewError(common.SourceError, "header column %d is empty", i+1)
		}
		if !seen.Add(column) {
			return common.NewError(common.SourceError, "header column '%s' appears more than once", column)
		}
	}
	return nil
}

func (e *SeqScanExecutor) Next() bool {
	if !e.advance() {
		return false
	}
	if e.pos >= len(e.rows) {
		e.current = storage.Tuple{}
		return e.exhaust()
	}
	// the slot is cleared so the row is owned by the consumer alone
	e.current = e.rows[e.pos]
	e.rows[e.pos] = storage.Tuple{}
	e.pos++
	return true
}

func (e *SeqScanExecutor) Current() storage.Tuple {
	return e.current
}

func (e *SeqScanExecutor) Close() error {
	if ok, err := e.finish(); !ok {
		return err
	}
	e.rows = nil
	e.current = storage.Tuple{}
	return nil
}
