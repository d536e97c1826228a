package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	strategy TEXT NOT NULL,
	config BLOB,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	bars INTEGER NOT NULL,
	fills INTEGER NOT NULL,
	rejections INTEGER NOT NULL,
	initial_cash REAL NOT NULL,
	final_equity REAL NOT NULL,
	return_pct REAL NOT NULL,
	annualized_pct REAL NOT NULL,
	max_dd_pct REAL NOT NULL,
	sharpe REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS fills (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	side TEXT NOT NULL,
	price REAL NOT NULL,
	units REAL NOT NULL,
	commission REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	cash REAL NOT NULL,
	position_value REAL NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_run ON fills(run_id, time);
CREATE INDEX IF NOT EXISTS idx_equity_run ON equity(run_id, time);
`
