package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS feeds (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    url TEXT,
    reliability TEXT NOT NULL DEFAULT 'unrated',
    total_mentions INTEGER NOT NULL DEFAULT 0,
    useful_mentions INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS candidates (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    url TEXT NOT NULL,
    description TEXT,
    category TEXT,
    status TEXT NOT NULL DEFAULT 'inbox',
    relevance_score REAL,
    rejection_reason TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    reviewed_at TEXT,
    UNIQUE(url)
);

CREATE TABLE IF NOT EXISTS claims (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    candidate_id INTEGER NOT NULL,
    feed_id INTEGER NOT NULL,
    claim_type TEXT NOT NULL DEFAULT 'feature',
    content TEXT NOT NULL,
    confidence REAL NOT NULL DEFAULT 0.5,
    raw_text TEXT,
    created_at TEXT NOT NULL,
    FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE,
    FOREIGN KEY (feed_id) REFERENCES feeds(id)
);

CREATE TABLE IF NOT EXISTS mentions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    feed_id INTEGER NOT NULL,
    source_url TEXT NOT NULL,
    raw_text TEXT NOT NULL,
    metadata TEXT,
    processed INTEGER NOT NULL DEFAULT 0,
    candidate_id INTEGER,
    created_at TEXT NOT NULL,
    FOREIGN KEY (feed_id) REFERENCES feeds(id),
    FOREIGN KEY (candidate_id) REFERENCES candidates(id)
);

CREATE TABLE IF NOT EXISTS changelog (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    candidate_id INTEGER NOT NULL,
    change_type TEXT NOT NULL,
    description TEXT NOT NULL,
    source_url TEXT,
    detected_at TEXT NOT NULL,
    FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    candidate_id INTEGER NOT NULL,
    url TEXT NOT NULL,
    title TEXT,
    content_hash TEXT NOT NULL,
    pricing_text TEXT,
    features_text TEXT,
    fetched_at TEXT NOT NULL,
    FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates(status);
CREATE INDEX IF NOT EXISTS idx_candidates_category ON candidates(category);
CREATE INDEX IF NOT EXISTS idx_claims_candidate ON claims(candidate_id);
CREATE INDEX IF NOT EXISTS idx_claims_type ON claims(claim_type);
CREATE INDEX IF NOT EXISTS idx_mentions_processed ON mentions(processed);
CREATE INDEX IF NOT EXISTS idx_changelog_candidate ON changelog(candidate_id);
CREATE INDEX IF NOT EXISTS idx_snapshots_candidate ON snapshots(candidate_id);
`
