package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- One row per compile invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL,
    content_dir TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    generated_count INTEGER NOT NULL DEFAULT 0,
    skipped_count INTEGER NOT NULL DEFAULT 0,
    warning_count INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL -- success, failed
);

CREATE INDEX IF NOT EXISTS idx_runs_output_dir ON runs(output_dir, run_id);

-- Modules written by a run
CREATE TABLE IF NOT EXISTS run_modules (
    run_id INTEGER NOT NULL,
    page_key TEXT NOT NULL,
    source_path TEXT NOT NULL,
    output_path TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    PRIMARY KEY (run_id, page_key),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

-- Recoverable problems reported during a run
CREATE TABLE IF NOT EXISTS run_warnings (
    warning_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    file TEXT NOT NULL,
    message TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_warnings_run ON run_warnings(run_id);
`
