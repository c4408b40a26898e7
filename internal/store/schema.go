package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS plan_snapshots (
    id                   TEXT PRIMARY KEY,
    user_id              TEXT NOT NULL,
    financial_year       TEXT NOT NULL,
    plan_name            TEXT NOT NULL,
    cheaper_regime       TEXT NOT NULL,
    total_tax            TEXT NOT NULL,
    payload              TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_user ON plan_snapshots(user_id, created_at);
`
