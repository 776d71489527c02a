package extract

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dvloznov/membership-analytics/internal/dataset"

	_ "modernc.org/sqlite"
)

// TransactionsTable is the table the transaction script populates.
const TransactionsTable = "membership_transactions"

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS membership_transactions (
	charge_amount DECIMAL(10, 2),
	currency VARCHAR(3),
	membership_id INTEGER,
	description_event VARCHAR(255),
	discount DOUBLE,
	status VARCHAR(10),
	message VARCHAR(255),
	transaction_date TEXT,
	triggered_by VARCHAR(50),
	payment_method VARCHAR(50)
);`

// ScriptLoader returns the SQL script that seeds an empty database.
type ScriptLoader func(ctx context.Context) ([]byte, error)

// ReadTransactions opens the SQLite database at dbPath, seeds it from the
// script when it holds no tables, and returns every transaction row.
func ReadTransactions(ctx context.Context, dbPath string, script ScriptLoader) (dataset.Dataset, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("ReadTransactions: opening %s: %w", dbPath, err)
	}
	defer db.Close()

	if err := seedIfEmpty(ctx, db, script); err != nil {
		return dataset.Dataset{}, fmt.Errorf("ReadTransactions: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+TransactionsTable)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("ReadTransactions: querying: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("ReadTransactions: reading columns: %w", err)
	}

	var records []dataset.Record
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return dataset.Dataset{}, fmt.Errorf("ReadTransactions: scanning row: %w", err)
		}
		rec := make(dataset.Record, len(columns))
		for i, col := range columns {
			rec[col] = values[i]
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return dataset.Dataset{}, fmt.Errorf("ReadTransactions: iterating rows: %w", err)
	}

	return dataset.New("transactions", columns, records), nil
}

func seedIfEmpty(ctx context.Context, db *sql.DB, script ScriptLoader) error {
	var tables int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'").Scan(&tables); err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}
	if tables > 0 {
		return nil
	}
	if script == nil {
		return fmt.Errorf("database is empty and no seed script is configured")
	}

	body, err := script(ctx)
	if err != nil {
		return fmt.Errorf("loading seed script: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createTransactionsTable+"\n"+string(stripBOM(body))); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("executing seed script: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed script: %w", err)
	}
	return nil
}
