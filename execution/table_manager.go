package execution

import (
	"path/filepath"

	"github.com/puzpuzpuz/xsync/v3"
	"mit.edu/dsg/pulldb/catalog"
	"mit.edu/dsg/pulldb/common"
	"mit.edu/dsg/pulldb/storage"
)

// TableManager resolves catalog tables to the row sources a scan reads. Sources are
// created on first use and cached, so concurrent queries over the same table share one
// (stateless) source definition.
type TableManager struct {
	catalog  *catalog.Catalog
	rootPath string
	sources  *xsync.MapOf[string, storage.RowSource]
}

// NewTableManager creates a TableManager for catalog. Relative table paths are resolved
// against rootPath.
func NewTableManager(catalog *catalog.Catalog, rootPath string) *TableManager {
	return &TableManager{
		catalog:  catalog,
		rootPath: rootPath,
		sources:  xsync.NewMapOf[string, storage.RowSource](),
	}
}

// GetSource retrieves the row source for a given table name.
func (tm *TableManager) GetSource(name string) (storage.RowSource, error) {
	if source, ok := tm.sources.Load(name); ok {
		return source, nil
	}
	table, err := tm.catalog.GetTableMetadata(name)
	if err != nil {
		return nil, err
	}
	source, err := tm.newSource(table)
	if err != nil {
		return nil, err
	}
	source, _ = tm.sources.LoadOrStore(name, source)
	return source, nil
}

// Forget drops the cached source for name, so the next lookup reads the catalog again.
func (tm *TableManager) Forget(name string) {
	tm.sources.Delete(name)
}

func (tm *TableManager) newSource(table *catalog.Table) (storage.RowSource, error) {
	path := table.Path
	if !filepath.IsAbs(path) && tm.rootPath != "" {
		path = filepath.Join(tm.rootPath, path)
	}
	switch table.Format {
	case catalog.FormatCSV:
		source := storage.NewCSVSource(path)
		if table.Delimiter != "" {
			source.Comma = []rune(table.Delimiter)[0]
		}
		return source, nil
	case catalog.FormatMsgpack:
		return storage.NewMsgpackSource(path), nil
	}
	return nil, common.NewError(common.ConfigurationError, "table '%s' has unknown format '%s'", table.Name, table.Format)
}
