package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	scenario TEXT NOT NULL,
	created DATETIME NOT NULL,
	start_month DATETIME NOT NULL,
	end_month DATETIME NOT NULL,
	months INTEGER NOT NULL,
	instruments TEXT NOT NULL,
	initial REAL NOT NULL,
	final REAL NOT NULL,
	contributed REAL NOT NULL,
	coupons REAL NOT NULL,
	total_return REAL NOT NULL,
	annual_return REAL NOT NULL,
	org_path TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS snapshots (
	run_id TEXT NOT NULL,
	month DATETIME NOT NULL,
	total REAL NOT NULL,
	PRIMARY KEY (run_id, month)
);

CREATE TABLE IF NOT EXISTS positions (
	run_id TEXT NOT NULL,
	month DATETIME NOT NULL,
	position INTEGER NOT NULL,
	instrument TEXT NOT NULL,
	value REAL NOT NULL,
	principal REAL NOT NULL,
	interest REAL NOT NULL,
	PRIMARY KEY (run_id, month, position)
);

CREATE TABLE IF NOT EXISTS coupons (
	run_id TEXT NOT NULL,
	month DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	amount REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_coupons_run ON coupons(run_id, month);
`
