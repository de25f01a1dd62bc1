package planner

import (
	"fmt"

	"mit.edu/dsg/pulldb/storage"
)

// SeqScanNode represents a full scan of one row source. The source is either named by
// Table and resolved through the catalog, or supplied directly as Source.
type SeqScanNode struct {
	Table  string
	Source storage.RowSource
}

func NewSeqScanNode(table string) *SeqScanNode {
	return &SeqScanNode{Table: table}
}

func NewSourceScanNode(source storage.RowSource) *SeqScanNode {
	return &SeqScanNode{Source: source}
}

func (n *SeqScanNode) Children() []PlanNode {
	return nil
}

func (n *SeqScanNode) String() string {
	if n.Source != nil {
		return fmt.Sprintf("SeqScan: Source(%s)", n.Source.Name())
	}
	return fmt.Sprintf("SeqScan: Table(%s)", n.Table)
}
