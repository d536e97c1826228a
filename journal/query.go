package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Reader provides read-only queries over a journal database, for the report
// tooling.
type Reader struct {
	db *sql.DB
}

// OpenReader opens the database at path for querying.
func OpenReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return &Reader{db: db}, nil
}

func (r *Reader) Close() error { return r.db.Close() }

// ListRuns returns run summaries, most recent first.
func (r *Reader) ListRuns() ([]RunRecord, error) {
	rows, err := r.db.Query(`
		SELECT run_id, created, symbol, strategy, config, start_time, end_time,
		       bars, fills, rejections,
		       initial_cash, final_equity, return_pct, annualized_pct, max_dd_pct, sharpe
		FROM runs ORDER BY created DESC, run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID, &rec.Created, &rec.Symbol, &rec.Strategy, &rec.Config,
			&rec.Start, &rec.End, &rec.Bars, &rec.Fills, &rec.Rejections,
			&rec.InitialCash, &rec.FinalEquity, &rec.ReturnPct,
			&rec.AnnualizedPct, &rec.MaxDDPct, &rec.Sharpe,
		); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// GetRun returns the summary for one run.
func (r *Reader) GetRun(runID string) (RunRecord, error) {
	row := r.db.QueryRow(`
		SELECT run_id, created, symbol, strategy, config, start_time, end_time,
		       bars, fills, rejections,
		       initial_cash, final_equity, return_pct, annualized_pct, max_dd_pct, sharpe
		FROM runs WHERE run_id = ?`, runID)

	var rec RunRecord
	err := row.Scan(
		&rec.RunID, &rec.Created, &rec.Symbol, &rec.Strategy, &rec.Config,
		&rec.Start, &rec.End, &rec.Bars, &rec.Fills, &rec.Rejections,
		&rec.InitialCash, &rec.FinalEquity, &rec.ReturnPct,
		&rec.AnnualizedPct, &rec.MaxDDPct, &rec.Sharpe,
	)
	if err == sql.ErrNoRows {
		return RunRecord{}, fmt.Errorf("run %q not found", runID)
	}
	return rec, err
}

// ListFills returns the fill history of a run in time order.
func (r *Reader) ListFills(runID string) ([]FillRecord, error) {
	rows, err := r.db.Query(`
		SELECT run_id, time, side, price, units, commission, reason
		FROM fills WHERE run_id = ? ORDER BY time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []FillRecord
	for rows.Next() {
		var rec FillRecord
		if err := rows.Scan(&rec.RunID, &rec.Time, &rec.Side, &rec.Price,
			&rec.Units, &rec.Commission, &rec.Reason); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ListEquity returns the equity curve of a run in time order.
func (r *Reader) ListEquity(runID string) ([]EquitySnapshot, error) {
	rows, err := r.db.Query(`
		SELECT run_id, time, cash, position_value, equity
		FROM equity WHERE run_id = ? ORDER BY time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []EquitySnapshot
	for rows.Next() {
		var rec EquitySnapshot
		if err := rows.Scan(&rec.RunID, &rec.Time, &rec.Cash,
			&rec.PositionValue, &rec.Equity); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
