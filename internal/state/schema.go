package state

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id            TEXT PRIMARY KEY,
    version       TEXT NOT NULL,
    dir           TEXT NOT NULL,
    executable    TEXT NOT NULL,
    args          TEXT NOT NULL,
    outcome       TEXT NOT NULL,
    exit_code     INTEGER,
    stdout        TEXT,
    stderr        TEXT,
    message       TEXT,
    started_at    INTEGER NOT NULL,
    finished_at   INTEGER
);

CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);
`
