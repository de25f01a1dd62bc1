package execution

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/pulldb/catalog"
	"mit.edu/dsg/pulldb/common"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

func setupTableManager(t *testing.T) *TableManager {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ratings.tsv"),
		[]byte("userId\tmovieId\trating\n1\t10\t4.0\n2\t10\t3.0\n"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, storage.WriteMsgpackTable(&buf, []string{"movieId", "title"},
		[][]string{{"10", "Heat"}, {"11", "Alien"}}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "movies.msgpack"), buf.Bytes(), 0o644))

	cm := catalog.NewDiskCatalogManager(dir)
	cat, err := catalog.NewCatalog(cm)
	require.NoError(t, err)
	_, err = cat.AddTable(catalog.Table{Name: "ratings", Format: catalog.FormatCSV, Path: "ratings.tsv", Delimiter: "\t"}, cm)
	require.NoError(t, err)
	_, err = cat.AddTable(catalog.Table{Name: "movies", Format: catalog.FormatMsgpack, Path: filepath.Join(dir, "movies.msgpack")}, cm)
	require.NoError(t, err)
	return NewTableManager(cat, cm.RootPath())
}

func TestTableManager_ResolvesTables(t *testing.T) {
	tm := setupTableManager(t)

	ratings, err := tm.GetSource("ratings")
	require.NoError(t, err)
	again, err := tm.GetSource("ratings")
	require.NoError(t, err)
	assert.Same(t, ratings, again, "sources should be cached")

	_, err = tm.GetSource("users")
	assert.True(t, common.IsErrorCode(err, common.NoSuchObjectError), "got %v", err)
}

func TestTableManager_JoinCatalogTables(t *testing.T) {
	tm := setupTableManager(t)
	plan := planner.NewProjectionNode(
		planner.NewNestedLoopJoinNode(
			planner.NewSeqScanNode("ratings"),
			planner.NewMaterializeNode(planner.NewSeqScanNode("movies")),
			planner.NewColumnsEqualPredicate("movieId", "movieId"),
		),
		[]planner.ProjectColumn{{Name: "userId"}, {Name: "title"}, {Name: "outer.movieId", Alias: "movieId"}},
	)
	exec, err := Build(plan, tm)
	require.NoError(t, err)
	rows, err := Collect(exec, testContext())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Equals(storage.FromPairs("userId", "1", "title", "Heat", "movieId", "10")))
	assert.True(t, rows[1].Equals(storage.FromPairs("userId", "2", "title", "Heat", "movieId", "10")))
}

// Independent queries may run concurrently against one TableManager.
func TestTableManager_ConcurrentQueries(t *testing.T) {
	tm := setupTableManager(t)
	var wg sync.WaitGroup
	errs := make([]error, 8)
	counts := make([]int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			exec, err := Build(planner.NewCountNode(planner.NewSeqScanNode("ratings")), tm)
			if err != nil {
				errs[i] = err
				return
			}
			rows, err := Collect(exec, testContext())
			errs[i] = err
			if err == nil {
				counts[i] = len(rows)
				if rows[0].GetValue("Count") != "2" {
					counts[i] = -1
				}
			}
		}(i)
	}
	wg.Wait()
	for i := range errs {
		assert.NoError(t, errs[i])
		assert.Equal(t, 1, counts[i])
	}
}

func TestTableManager_Forget(t *testing.T) {
	tm := setupTableManager(t)
	first, err := tm.GetSource("movies")
	require.NoError(t, err)
	tm.Forget("movies")
	second, err := tm.GetSource("movies")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}
