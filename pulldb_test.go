package pulldb

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/pulldb/catalog"
	"mit.edu/dsg/pulldb/common"
	"mit.edu/dsg/pulldb/logging"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

const ratingsCSV = `userId,movieId,rating
1,10,4.0
2,10,3.5
1,10,4.0
3,11,5.0
2,11,3.5
`

func setupDB(t *testing.T, dir string) *DB {
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ratings.csv"), []byte(ratingsCSV), 0o644))
	db, err := Open(Config{CatalogDir: dir, Logging: logging.Config{Level: logging.LevelError}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_QueryCatalogTable(t *testing.T) {
	dir := t.TempDir()
	db := setupDB(t, dir)
	require.NoError(t, db.AddTable(catalog.Table{Name: "ratings", Format: catalog.FormatCSV, Path: "ratings.csv"}))

	rows, err := db.Query(planner.NewDistinctNode(planner.NewSortNode(planner.NewSeqScanNode("ratings"), "rating")))
	require.NoError(t, err)
	// the two 3.5 ratings are for different movies, so only the 4.0 duplicate collapses
	require.Len(t, rows, 4)
	assert.Equal(t, "3.5", rows[0].GetValue("rating"))
	assert.Equal(t, "11", rows[1].GetValue("movieId"))
	assert.Equal(t, "5.0", rows[3].GetValue("rating"))

	rows, err = db.Query(planner.NewAverageNode(planner.NewSeqScanNode("ratings"), "rating"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "4.000000", rows[0].GetValue("Average"))
}

func TestDB_CatalogSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	db := setupDB(t, dir)
	require.NoError(t, db.AddTable(catalog.Table{Name: "ratings", Format: catalog.FormatCSV, Path: "ratings.csv"}))

	err := db.AddTable(catalog.Table{Name: "ratings", Format: catalog.FormatCSV, Path: "other.csv"})
	assert.True(t, common.IsErrorCode(err, common.DuplicateObjectError), "got %v", err)

	reopened, err := OpenWithLogger(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ratings"}, reopened.Catalog.TableNames())
	rows, err := reopened.Query(planner.NewCountNode(planner.NewSeqScanNode("ratings")))
	require.NoError(t, err)
	assert.Equal(t, "5", rows[0].GetValue("Count"))
}

func TestDB_QueryErrors(t *testing.T) {
	db := setupDB(t, t.TempDir())

	_, err := db.Query(planner.NewSeqScanNode("missing"))
	assert.True(t, common.IsErrorCode(err, common.NoSuchObjectError), "got %v", err)

	require.NoError(t, db.AddTable(catalog.Table{Name: "ghost", Format: catalog.FormatCSV, Path: "ghost.csv"}))
	_, err = db.Query(planner.NewSeqScanNode("ghost"))
	assert.True(t, common.IsErrorCode(err, common.SourceError), "got %v", err)
	assert.ErrorIs(t, err, storage.ErrSourceNotFound)
}

func TestDB_InMemoryCatalogAndStream(t *testing.T) {
	var logs bytes.Buffer
	db, err := OpenWithLogger("", logging.NewWithWriter(&logs, logging.Config{Level: logging.LevelDebug}))
	require.NoError(t, err)

	source := storage.NewMemorySource("users", []string{"id"}, []string{"1"}, []string{"2"}, []string{"3"})
	var seen []string
	err = db.Stream(planner.NewLimitNode(planner.NewSourceScanNode(source), 2), func(t storage.Tuple) error {
		seen = append(seen, t.GetValue("id"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, seen)
	assert.Contains(t, logs.String(), "operator=SeqScan")
	assert.Contains(t, logs.String(), "operator=Limit")
}
