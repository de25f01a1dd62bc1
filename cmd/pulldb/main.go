// Command pulldb runs a single query pipeline over a CSV or msgpack table and prints the
// result as a table.
//
//	pulldb -csv ratings.csv -sort rating -distinct
//	pulldb -catalog ./data -table ratings -join movies -on movieId=movieId -project title,rating
//	pulldb -csv ratings.csv -agg avg:rating
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"mit.edu/dsg/pulldb"
	"mit.edu/dsg/pulldb/catalog"
	"mit.edu/dsg/pulldb/logging"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

type Configuration struct {
	CatalogDir string
	LogLevel   string
	LogFormat  string
	LogPath    string
	AddTable   string
	Export     string
	Explain    bool
	Query      queryOptions
}

func main() {
	config := parseArguments(os.Args[1:])
	if err := run(config); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error")+" "+err.Error())
		os.Exit(1)
	}
}

// parseArguments processes command-line flags
func parseArguments(args []string) Configuration {
	var config Configuration
	fs := flag.NewFlagSet("pulldb", flag.ExitOnError)

	fs.StringVar(&config.CatalogDir, "catalog", "", "Catalog directory (holds catalog.json)")
	fs.StringVar(&config.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fs.StringVar(&config.LogFormat, "log-format", "text", "Log format: text or json")
	fs.StringVar(&config.LogPath, "log-file", "", "Write logs to this file instead of stderr")
	fs.StringVar(&config.AddTable, "add", "", "Register the -csv or -msgpack file in the catalog under this name and exit")
	fs.StringVar(&config.Export, "export", "", "Write the result to this file in msgpack format")
	fs.BoolVar(&config.Explain, "explain", false, "Print the plan before running it")

	q := &config.Query
	fs.StringVar(&q.Table, "table", "", "Catalog table to scan")
	fs.StringVar(&q.CSV, "csv", "", "CSV file to scan")
	fs.StringVar(&q.Msgpack, "msgpack", "", "msgpack file to scan")
	fs.StringVar(&q.Delimiter, "delim", "", "CSV field delimiter (default ',')")
	fs.StringVar(&q.Where, "where", "", "Filter rows, e.g. 'rating>=4' or 'title~Star%'")
	fs.BoolVar(&q.NumericWhere, "where-numeric", false, "Compare the -where constant as a number")
	fs.StringVar(&q.Join, "join", "", "Catalog table to join as the inner input")
	fs.StringVar(&q.On, "on", "", "Join condition outerColumn=innerColumn")
	fs.StringVar(&q.Collision, "collisions", "prefix", "Join column collisions: prefix, error or keep-outer")
	fs.StringVar(&q.Sort, "sort", "", "Sort by column; '*' sorts whole rows")
	fs.BoolVar(&q.Numeric, "numeric", false, "Sort numerically")
	fs.BoolVar(&q.Desc, "desc", false, "Sort descending")
	fs.BoolVar(&q.Distinct, "distinct", false, "Drop adjacent duplicate rows")
	fs.StringVar(&q.Aggregate, "agg", "", "Aggregate: count, avg:col, sum:col, min:col or max:col")
	fs.StringVar(&q.Project, "project", "", "Comma separated columns to keep, 'col:alias' renames")
	fs.IntVar(&q.Limit, "limit", -1, "Return at most this many rows")

	_ = fs.Parse(args)
	return config
}

func run(config Configuration) error {
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	db, err := pulldb.Open(pulldb.Config{
		CatalogDir: config.CatalogDir,
		Logging:    logging.Config{Level: level, Format: config.LogFormat, OutputPath: config.LogPath},
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if config.AddTable != "" {
		return addTable(db, config)
	}

	plan, err := buildPlan(config.Query)
	if err != nil {
		return err
	}
	if config.Explain {
		fmt.Println(titleStyle.Render("plan"))
		fmt.Print(planner.Explain(plan))
		fmt.Println()
	}

	rows, err := db.Query(plan)
	if err != nil {
		return err
	}
	db.Logger.Info("query finished", slog.Int("rows", len(rows)))

	if config.Export != "" {
		if err := exportRows(config.Export, rows); err != nil {
			return err
		}
	}
	fmt.Println(renderRows(rows))
	return nil
}

func addTable(db *pulldb.DB, config Configuration) error {
	table := catalog.Table{Name: config.AddTable, Delimiter: config.Query.Delimiter}
	switch {
	case config.Query.CSV != "":
		table.Format, table.Path = catalog.FormatCSV, config.Query.CSV
	case config.Query.Msgpack != "":
		table.Format, table.Path = catalog.FormatMsgpack, config.Query.Msgpack
	default:
		return fmt.Errorf("-add needs -csv or -msgpack")
	}
	if err := db.AddTable(table); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("added") + " " + table.Name)
	return nil
}

func exportRows(path string, rows []storage.Tuple) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	columns, records := storage.TuplesToRecords(rows)
	if err := storage.WriteMsgpackTable(f, columns, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
