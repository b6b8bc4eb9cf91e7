package catalog

const schemaSQL = `
CREATE TABLE IF NOT EXISTS shows (
    id    INTEGER PRIMARY KEY,
    title TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS mappings (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    show_id         INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
    file_id         INTEGER NOT NULL,
    season          INTEGER NOT NULL,
    episode         INTEGER NOT NULL,
    end_episode     INTEGER NOT NULL DEFAULT 0,
    part_index      INTEGER NOT NULL DEFAULT 0,
    part_count      INTEGER NOT NULL DEFAULT 0,
    episode_title   TEXT NOT NULL DEFAULT '',
    cross_ref_count INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_mappings_show ON mappings(show_id);

CREATE TABLE IF NOT EXISTS locations (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    file_id       INTEGER NOT NULL,
    absolute_path TEXT NOT NULL,
    relative_path TEXT NOT NULL DEFAULT '',
    source_only   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_locations_file ON locations(file_id);
`
