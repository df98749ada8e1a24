package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"devicerisk/report"
)

const runsTableName = "report_runs"

// DBConfig connection pool settings
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ReportDB sqlite sink for pipeline reports
type ReportDB struct {
	conn *sql.DB
}

// NewReportDB opens (or creates) a report database
func NewReportDB(dbPath string) (*ReportDB, error) {
	config := DBConfig{}

	// every new connection to an in-memory database sees an empty schema
	if isInMemory(dbPath) {
		config.MaxOpenConns = 1
		config.MaxIdleConns = 1
	}

	return NewReportDBWithConfig(dbPath, config)
}

func isInMemory(dbPath string) bool {
	if dbPath == ":memory:" {
		return true
	}
	return strings.HasPrefix(dbPath, "file:") && strings.Contains(dbPath, "mode=memory")
}

// NewReportDBWithConfig opens a report database with explicit pool settings
func NewReportDBWithConfig(dbPath string, config DBConfig) (*ReportDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open report database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		conn.SetMaxOpenConns(4)
	}
	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(2)
	}
	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping report database: %w", err)
	}

	if !isInMemory(dbPath) {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := ensureRunsTable(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &ReportDB{conn: conn}, nil
}

func ensureRunsTable(conn *sql.DB) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id TEXT PRIMARY KEY,
			generated_at TEXT NOT NULL,
			source TEXT NOT NULL,
			partitions INTEGER NOT NULL
		)
	`, runsTableName)

	if _, err := conn.Exec(query); err != nil {
		return fmt.Errorf("failed to ensure %s table: %w", runsTableName, err)
	}
	return nil
}

// Close closes the connection
func (db *ReportDB) Close() error {
	return db.conn.Close()
}

// SaveReport writes every visible partition into its own table and records the run.
// Existing partition tables are replaced. Either everything is written or nothing is.
func (db *ReportDB) SaveReport(ctx context.Context, rep *report.Report) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	partitions := rep.Visible()
	used := make(map[string]bool, len(partitions))
	for _, p := range partitions {
		name := uniqueTableName(TableName(p.Name), used)
		if err := writePartition(ctx, tx, name, p); err != nil {
			return err
		}
	}

	insert := fmt.Sprintf(
		`INSERT OR REPLACE INTO %s(run_id, generated_at, source, partitions) VALUES(?, ?, ?, ?)`,
		runsTableName,
	)
	if _, err := tx.ExecContext(ctx, insert,
		rep.RunID,
		rep.GeneratedAt.UTC().Format(time.RFC3339),
		rep.Source,
		len(partitions),
	); err != nil {
		return fmt.Errorf("failed to record run %s: %w", rep.RunID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}
	return nil
}

func writePartition(ctx context.Context, tx *sql.Tx, table string, p *report.Partition) error {
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}

	columns := make([]string, len(p.Columns))
	used := make(map[string]bool, len(p.Columns))
	for i, c := range p.Columns {
		columns[i] = quoteIdent(uniqueTableName(TableName(c), used)) + " TEXT"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(columns, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	if len(p.Rows) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(p.Columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), placeholders))
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	args := make([]any, len(p.Columns))
	for _, row := range p.Rows {
		for i := range args {
			args[i] = ""
			if i < len(row) {
				args[i] = row[i]
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// TableName converts a partition or column name into a lowercase snake_case identifier,
// e.g. "HIGH RISK Devices" -> "high_risk_devices"
func TableName(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	out := strings.TrimSuffix(b.String(), "_")
	if out == "" {
		return "unnamed"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "t_" + out
	}
	return out
}

func uniqueTableName(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[candidate] || candidate == runsTableName; i++ {
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
	used[candidate] = true
	return candidate
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
