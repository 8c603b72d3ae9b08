package cmd

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"github.com/rewardsense/synthgen/internal/staging"
	"github.com/rewardsense/synthgen/internal/ui"
)

//go:embed schemas/*.sql
var schemaFS embed.FS

var (
	importDBConnection string
	importInputDir     string
	importMaxOpenConns int
	importSkipVerify   bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import generated CSV data into MySQL/MariaDB",
	Long: `Import a generated dataset into a MySQL/MariaDB database using
LOAD DATA LOCAL INFILE.

The import process:
1. Verifies the dataset against its manifest checksums
2. Creates tables if they don't exist
3. Loads user_profiles, user_cards, and transactions in parallel

Examples:
  synthgen import --db "user:pass@tcp(localhost:3306)/rewards"
  synthgen import --db "..." --input ./output/current --skip-verify`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importDBConnection, "db", "", "database connection string (required)")
	importCmd.Flags().StringVar(&importInputDir, "input", filepath.Join("./output", staging.CurrentDirName), "input directory containing the dataset")
	importCmd.Flags().IntVar(&importMaxOpenConns, "db-max-open", 10, "max open database connections")
	importCmd.Flags().BoolVar(&importSkipVerify, "skip-verify", false, "skip manifest checksum verification")

	importCmd.MarkFlagRequired("db")
}

// tableConfig holds metadata for loading a single table
type tableConfig struct {
	name    string
	csvFile string
	loadSQL string
}

// loadResult holds the result of loading a table
type loadResult struct {
	table    string
	rows     int64
	duration time.Duration
	err      error
}

// All tables with their LOAD DATA LOCAL INFILE SQL
var tablesToLoad = []tableConfig{
	{
		name:    "user_profiles",
		csvFile: "user_profiles",
		loadSQL: `LOAD DATA LOCAL INFILE '%s'
INTO TABLE user_profiles
FIELDS TERMINATED BY ','
ENCLOSED BY '"'
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(user_id, archetype, monthly_budget, cards, redemption_preference, age_group, location_type)`,
	},
	{
		name:    "user_cards",
		csvFile: "user_cards",
		loadSQL: `LOAD DATA LOCAL INFILE '%s'
INTO TABLE user_cards
FIELDS TERMINATED BY ','
ENCLOSED BY '"'
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(user_id, card_id, redemption_preference)`,
	},
	{
		name:    "transactions",
		csvFile: "transactions",
		loadSQL: `LOAD DATA LOCAL INFILE '%s'
INTO TABLE transactions
FIELDS TERMINATED BY ','
ENCLOSED BY '"'
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(transaction_id, user_id, date, category, merchant, mcc_code, amount, card_used)`,
	},
}

func runImport(cmd *cobra.Command, args []string) error {
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}

	fmt.Println(u.Header("RewardSense Data Importer"))
	fmt.Println()
	fmt.Println(u.KeyValue("Database", maskDSN(importDBConnection)))
	fmt.Println(u.KeyValue("Input", importInputDir))
	fmt.Println()

	if err := validateInputDir(importInputDir); err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		return err
	}

	if !importSkipVerify {
		spin := u.NewSpinner("Verifying manifest checksums")
		spin.Start()
		if err := staging.Verify(importInputDir); err != nil {
			spin.Error(err.Error())
			return err
		}
		spin.Success("dataset intact")
	}

	db, err := sql.Open("mysql", ensureLocalInfileEnabled(importDBConnection))
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error("failed to open database: "+err.Error()))
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(importMaxOpenConns)

	ctx := context.Background()

	spin := u.NewSpinner("Connecting to database")
	spin.Start()
	if err := db.PingContext(ctx); err != nil {
		spin.Error("connection failed: " + err.Error())
		return err
	}
	spin.Success("connected")

	spin = u.NewSpinner("Creating tables")
	spin.Start()
	if err := createTablesIfNotExist(ctx, db); err != nil {
		spin.Error(err.Error())
		return err
	}
	spin.Success("tables ready")

	fmt.Println()
	started := time.Now()
	results, loadErr := loadTablesParallel(ctx, db, importInputDir, u)
	loadDuration := time.Since(started)

	printImportSummary(u, results, loadDuration)

	if loadErr != nil {
		fmt.Fprintln(os.Stderr, u.Error("import stopped due to error"))
		return loadErr
	}
	return nil
}

// validateInputDir checks the input directory contains the expected files
func validateInputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("input directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", dir)
	}
	for _, tbl := range tablesToLoad {
		path := filepath.Join(dir, tbl.csvFile+".csv")
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("missing %s in %s", tbl.csvFile+".csv", dir)
		}
	}
	return nil
}

// createTablesIfNotExist executes the embedded schema
func createTablesIfNotExist(ctx context.Context, db *sql.DB) error {
	content, err := schemaFS.ReadFile("schemas/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	for _, stmt := range strings.Split(string(content), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "--") {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// loadTablesParallel loads all tables concurrently with fail-fast behavior
func loadTablesParallel(ctx context.Context, db *sql.DB, inputDir string, u *ui.UI) ([]loadResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]loadResult, len(tablesToLoad))
	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup

	for i, table := range tablesToLoad {
		wg.Add(1)
		go func(idx int, tbl tableConfig) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = loadResult{table: tbl.name, err: ctx.Err()}
				return
			default:
			}

			results[idx] = loadTable(ctx, db, inputDir, tbl)

			if results[idx].err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = results[idx].err
				}
				mu.Unlock()
				cancel()
			}
		}(i, table)
	}

	wg.Wait()
	return results, firstErr
}

// loadTable loads a single table from its CSV file
func loadTable(ctx context.Context, db *sql.DB, inputDir string, tbl tableConfig) loadResult {
	start := time.Now()
	result := loadResult{table: tbl.name}

	absPath, err := filepath.Abs(filepath.Join(inputDir, tbl.csvFile+".csv"))
	if err != nil {
		result.err = fmt.Errorf("failed to resolve path: %w", err)
		return result
	}

	mysql.RegisterLocalFile(absPath)
	defer mysql.DeregisterLocalFile(absPath)

	res, err := db.ExecContext(ctx, fmt.Sprintf(tbl.loadSQL, absPath))
	if err != nil {
		result.err = fmt.Errorf("LOAD DATA into %s failed: %w", tbl.name, err)
		result.duration = time.Since(start)
		return result
	}

	result.rows, _ = res.RowsAffected()
	result.duration = time.Since(start)
	return result
}

// printImportSummary shows per-table results
func printImportSummary(u *ui.UI, results []loadResult, total time.Duration) {
	fmt.Println()
	for _, r := range results {
		switch {
		case r.err != nil:
			fmt.Println(u.TableRow(r.table, r.err.Error(), ui.StatusError))
		default:
			fmt.Println(u.TableRow(r.table,
				fmt.Sprintf("%d rows in %s", r.rows, r.duration.Round(time.Millisecond)),
				ui.StatusSuccess))
		}
	}
	fmt.Println()
	fmt.Println(u.Muted(fmt.Sprintf("  total: %s", total.Round(time.Millisecond))))
}

// ensureLocalInfileEnabled adds the DSN flag LOAD DATA LOCAL requires
func ensureLocalInfileEnabled(dsn string) string {
	if strings.Contains(dsn, "allowAllFiles") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&allowAllFiles=true"
	}
	return dsn + "?allowAllFiles=true"
}

// maskDSN hides the password in a DSN for display
func maskDSN(dsn string) string {
	if colonIdx := strings.Index(dsn, ":"); colonIdx > 0 {
		rest := dsn[colonIdx:]
		if atIdx := strings.Index(rest, "@"); atIdx > 0 {
			return dsn[:colonIdx] + ":****" + rest[atIdx:]
		}
	}
	return dsn
}
