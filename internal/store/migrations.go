package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create history",
		SQL: `
			CREATE TABLE history (
				id          TEXT PRIMARY KEY,
				session_id  TEXT NOT NULL,
				command     TEXT NOT NULL,
				args        TEXT NOT NULL,
				result      TEXT NOT NULL,
				success     INTEGER NOT NULL,
				created_at  TEXT NOT NULL
			);

			CREATE INDEX idx_history_session ON history (session_id, rowid);
		`,
	},
}
