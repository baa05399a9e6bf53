package store

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// schema contains the SQL statements to create the decision database.
const schema = `
CREATE TABLE IF NOT EXISTS decisions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL,
    domain TEXT NOT NULL,
    allow BOOLEAN NOT NULL,
    confidence REAL NOT NULL,
    source TEXT NOT NULL,
    tier TEXT,
    reason TEXT,
    mission TEXT,
    features BLOB,
    reward INTEGER,
    decided_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_url ON decisions(url);
CREATE INDEX IF NOT EXISTS idx_decisions_decided_at ON decisions(decided_at);
CREATE INDEX IF NOT EXISTS idx_decisions_domain ON decisions(domain);

CREATE TABLE IF NOT EXISTS stats_snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    total INTEGER NOT NULL,
    allowed INTEGER NOT NULL,
    blocked INTEGER NOT NULL,
    cache_hits INTEGER NOT NULL,
    fast_path INTEGER NOT NULL,
    slow_path INTEGER NOT NULL,
    feedback_total INTEGER NOT NULL,
    feedback_correct INTEGER NOT NULL,
    taken_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER PRIMARY KEY
);
`
