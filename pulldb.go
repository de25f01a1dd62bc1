package pulldb

import (
	"io"
	"log/slog"
	"os"

	// Imports all sub-components
	"mit.edu/dsg/pulldb/catalog"
	"mit.edu/dsg/pulldb/execution"
	"mit.edu/dsg/pulldb/logging"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// Config describes where a DB keeps its catalog and how it logs.
type Config struct {
	// CatalogDir holds catalog.json. Relative table paths are resolved against it.
	// Empty keeps the catalog in memory.
	CatalogDir string
	Logging    logging.Config
}

// DB is the top-level container for the query engine. A DB may serve independent
// queries from several goroutines; every query gets its own executor tree.
type DB struct {
	Catalog      *catalog.Catalog
	TableManager *execution.TableManager
	Logger       *slog.Logger

	provider  catalog.PersistenceProvider
	logCloser io.Closer
}

// Open loads (or creates) the catalog described by cfg.
func Open(cfg Config) (*DB, error) {
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	db, err := openWithLogger(cfg.CatalogDir, logger)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	db.logCloser = closer
	return db, nil
}

// OpenWithLogger is like Open but logs through an existing logger.
func OpenWithLogger(catalogDir string, logger *slog.Logger) (*DB, error) {
	return openWithLogger(catalogDir, logger)
}

func openWithLogger(catalogDir string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	var provider catalog.PersistenceProvider = &catalog.MemoryCatalogManager{}
	if catalogDir != "" {
		if err := os.MkdirAll(catalogDir, 0755); err != nil {
			return nil, err
		}
		provider = catalog.NewDiskCatalogManager(catalogDir)
	}
	cat, err := catalog.NewCatalog(provider)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog loaded", "dir", catalogDir, "tables", len(cat.TableNames()))

	return &DB{
		Catalog:      cat,
		TableManager: execution.NewTableManager(cat, catalogDir),
		Logger:       logger,
		provider:     provider,
	}, nil
}

// AddTable registers a table in the catalog and persists it.
func (db *DB) AddTable(table catalog.Table) error {
	if _, err := db.Catalog.AddTable(table, db.provider); err != nil {
		return err
	}
	db.Logger.Info("table added", "table", table.Name, "format", table.Format, "path", table.Path)
	return nil
}

// Query builds and runs plan, returning every row it produces.
func (db *DB) Query(plan planner.PlanNode) ([]storage.Tuple, error) {
	exec, err := execution.Build(plan, db.TableManager)
	if err != nil {
		return nil, err
	}
	db.Logger.Debug("query", "plan", plan.String())
	return execution.Collect(exec, execution.NewExecutorContext(db.Logger))
}

// Stream builds and runs plan, handing each row to fn as it is produced.
func (db *DB) Stream(plan planner.PlanNode, fn func(storage.Tuple) error) error {
	exec, err := execution.Build(plan, db.TableManager)
	if err != nil {
		return err
	}
	return execution.Drain(exec, execution.NewExecutorContext(db.Logger), fn)
}

// Close releases the log file, if any.
func (db *DB) Close() error {
	if db.logCloser != nil {
		return db.logCloser.Close()
	}
	return nil
}
