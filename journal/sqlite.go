package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores records in a SQLite database. One database may hold many
// runs; each SQLite value stamps records with the run ID it was opened for.
type SQLite struct {
	db    *sql.DB
	runID string
}

// NewSQLite opens (creating if needed) the database at path and scopes
// subsequent records to runID.
func NewSQLite(path, runID string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db, runID: runID}, nil
}

// RunID returns the run this journal is scoped to.
func (j *SQLite) RunID() string { return j.runID }

func (j *SQLite) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills (run_id, time, side, price, units, commission, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.runID, f.Time, f.Side, f.Price, f.Units, f.Commission, f.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, time, cash, position_value, equity)
		VALUES (?, ?, ?, ?, ?)`,
		j.runID, e.Time, e.Cash, e.PositionValue, e.Equity,
	)
	return err
}

// RecordRun stores the run summary. The record's RunID field is ignored in
// favor of the journal's own.
func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, symbol, strategy, config, start_time, end_time,
		 bars, fills, rejections,
		 initial_cash, final_equity, return_pct, annualized_pct, max_dd_pct, sharpe)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.runID, r.Created, r.Symbol, r.Strategy, r.Config, r.Start, r.End,
		r.Bars, r.Fills, r.Rejections,
		r.InitialCash, r.FinalEquity, r.ReturnPct, r.AnnualizedPct, r.MaxDDPct, r.Sharpe,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
