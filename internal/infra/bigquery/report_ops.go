package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// DefaultReportTable is the table name used when none is configured.
const DefaultReportTable = "membership_report"

// insertBatchSize bounds the rows sent in one streaming insert.
const insertBatchSize = 500

const reportTableDDL = `
	CREATE TABLE IF NOT EXISTS ` + "`%s.%s.%s`" + ` (
		run_id                   STRING NOT NULL,
		membership_id            INT64 NOT NULL,
		creation_date            TIMESTAMP,
		churned                  BOOL,
		company                  STRING,
		country_state            STRING,
		key_account_manager      STRING,
		animation_team           STRING,
		membership_plan          STRING,
		membership_payment_total NUMERIC,
		project_payment_total    NUMERIC,
		additional_service_total NUMERIC,
		charged_total            NUMERIC,
		loaded_ts                TIMESTAMP NOT NULL
	)
`

// EnsureReportTableWithClient creates the report table if it does not exist.
func EnsureReportTableWithClient(ctx context.Context, client *bigquery.Client, datasetID, tableID string) error {
	q := client.Query(fmt.Sprintf(reportTableDDL, client.Project(), datasetID, tableID))

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("EnsureReportTable: running DDL: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("EnsureReportTable: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("EnsureReportTable: job error: %w", err)
	}
	return nil
}

// InsertReportWithClient streams rows into datasetID.tableID in batches.
func InsertReportWithClient(ctx context.Context, client *bigquery.Client, datasetID, tableID string, rows []*ReportRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := client.Dataset(datasetID).Table(tableID).Inserter()
	for _, batch := range batches(rows, insertBatchSize) {
		if err := inserter.Put(ctx, batch); err != nil {
			return fmt.Errorf("InsertReport: inserting rows: %w", err)
		}
	}
	return nil
}

// CountRunRowsWithClient returns how many rows a run has written.
func CountRunRowsWithClient(ctx context.Context, client *bigquery.Client, datasetID, tableID, runID string) (int64, error) {
	q := client.Query(fmt.Sprintf("SELECT COUNT(*) AS n FROM `%s.%s.%s` WHERE run_id = @run_id",
		client.Project(), datasetID, tableID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("CountRunRows: running query: %w", err)
	}

	var row struct {
		N int64 `bigquery:"n"`
	}
	err = it.Next(&row)
	if err == iterator.Done {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("CountRunRows: reading result: %w", err)
	}
	return row.N, nil
}

func batches(rows []*ReportRow, size int) [][]*ReportRow {
	var out [][]*ReportRow
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}
