package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mit.edu/dsg/pulldb/common"
)

// Catalog maps table names to the external row sources that hold their data.
// For simplicity, the catalog is serialized as a single JSON blob through a
// PersistenceProvider. Table data itself is never owned by the engine: a table is only
// a name for a file that a scan reads at Init time.
//
// The catalog is safe for concurrent use; each query reads it while building its own
// executor tree.
type Catalog struct {
	catalogState

	mu       sync.RWMutex
	tableMap map[string]*Table // TableName -> Table
}

// Format names the encoding of a table's source file.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatMsgpack Format = "msgpack"
)

// Table describes one external row source.
type Table struct {
	Name      string `json:"name"`
	Format    Format `json:"format"`
	Path      string `json:"path"`
	Delimiter string `json:"delimiter,omitempty"` // csv only, defaults to ","
}

// Validate reports definitions that can never be scanned.
func (t *Table) Validate() error {
	if t.Name == "" {
		return common.NewError(common.ConfigurationError, "table name must not be empty")
	}
	if t.Path == "" {
		return common.NewError(common.ConfigurationError, "table '%s' has no path", t.Name)
	}
	switch t.Format {
	case FormatCSV:
		if len([]rune(t.Delimiter)) > 1 {
			return common.NewError(common.ConfigurationError, "table '%s': delimiter must be a single character", t.Name)
		}
	case FormatMsgpack:
		if t.Delimiter != "" {
			return common.NewError(common.ConfigurationError, "table '%s': delimiter is only valid for csv", t.Name)
		}
	default:
		return common.NewError(common.ConfigurationError, "table '%s': unknown format '%s'", t.Name, t.Format)
	}
	return nil
}

// PersistenceProvider abstracts how the catalog is saved to and loaded from disk.
type PersistenceProvider interface {
	LoadCatalogState() (json string, err error)
	SaveCatalogState(json string) error
}

func (t *Table) String() string {
	b, _ := json.MarshalIndent(t, "", "  ")
	return string(b)
}

type catalogState struct {
	Tables []*Table `json:"tables"`
}

func (c *Catalog) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, _ := json.MarshalIndent(c.catalogState, "", "  ")
	return string(b)
}

func (c *Catalog) toJSON() (string, error) {
	b, err := json.MarshalIndent(c.catalogState, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Catalog) fromJSON(jsonData string) error {
	if err := json.Unmarshal([]byte(jsonData), &c.catalogState); err != nil {
		return err
	}
	for _, t := range c.Tables {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, exists := c.tableMap[t.Name]; exists {
			return common.NewError(common.DuplicateObjectError, "table '%s' is defined twice", t.Name)
		}
		c.tableMap[t.Name] = t
	}
	return nil
}

// NewCatalog initializes a catalog. It attempts to load existing state
// from the provider; if no state exists, it starts with no tables.
func NewCatalog(provider PersistenceProvider) (*Catalog, error) {
	result := &Catalog{
		catalogState: catalogState{
			Tables: make([]*Table, 0),
		},
		tableMap: make(map[string]*Table),
	}

	jsonData, err := provider.LoadCatalogState()
	if errors.Is(err, os.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if err = result.fromJSON(jsonData); err != nil {
		return nil, fmt.Errorf("failed to parse catalog state: %w", err)
	}
	return result, nil
}

// AddTable registers a new table and persists the updated state. If a table with that
// name already exists, it returns DuplicateObjectError.
func (c *Catalog) AddTable(table Table, provider PersistenceProvider) (*Table, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.tableMap[table.Name]; exists {
		return nil, common.NewError(common.DuplicateObjectError, "table '%s' already exists", table.Name)
	}

	t := &table
	c.Tables = append(c.Tables, t)
	c.tableMap[t.Name] = t

	jsonData, err := c.toJSON()
	if err != nil {
		return nil, err
	}
	return t, provider.SaveCatalogState(jsonData)
}

// GetTableMetadata fetches the definition of a specific table name.
func (c *Catalog) GetTableMetadata(tableName string) (*Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	table, exists := c.tableMap[tableName]
	if !exists {
		return nil, common.NewError(common.NoSuchObjectError, "table '%s' does not exist", tableName)
	}
	return table, nil
}

// TableNames lists the registered tables in registration order.
func (c *Catalog) TableNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.Tables))
	for i, t := range c.Tables {
		names[i] = t.Name
	}
	return names
}

const CatalogFileName = "catalog.json"

// DiskCatalogManager persists the catalog as CatalogFileName under rootPath.
type DiskCatalogManager struct {
	rootPath string
}

func NewDiskCatalogManager(rootPath string) *DiskCatalogManager {
	return &DiskCatalogManager{
		rootPath: rootPath,
	}
}

// RootPath is the directory relative table paths are resolved against.
func (dcm *DiskCatalogManager) RootPath() string {
	return dcm.rootPath
}

// LoadCatalogState implements the catalog.PersistenceProvider interface.
func (dcm *DiskCatalogManager) LoadCatalogState() (string, error) {
	path := filepath.Join(dcm.rootPath, CatalogFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err // Let the caller (Catalog) handle os.ErrNotExist
	}
	return string(content), nil
}

// SaveCatalogState implements the catalog.PersistenceProvider interface.
func (dcm *DiskCatalogManager) SaveCatalogState(jsonData string) error {
	// atomic replace through a temporary file
	tmpPath := filepath.Join(dcm.rootPath, CatalogFileName+".tmp")
	finalPath := filepath.Join(dcm.rootPath, CatalogFileName)

	if err := os.WriteFile(tmpPath, []byte(jsonData), 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, finalPath)
}

// MemoryCatalogManager keeps the catalog state in memory.
type MemoryCatalogManager struct {
	mu    sync.Mutex
	state string
	saved bool
}

func (m *MemoryCatalogManager) LoadCatalogState() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return "", os.ErrNotExist
	}
	return m.state, nil
}

func (m *MemoryCatalogManager) SaveCatalogState(jsonData string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = jsonData
	m.saved = true
	return nil
}
