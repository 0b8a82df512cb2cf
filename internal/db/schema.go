package db

const schemaSQL = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS visitor (
	id INTEGER PRIMARY KEY,
	created_at TEXT NOT NULL,
	ip TEXT NOT NULL,

	nick TEXT NOT NULL UNIQUE,
	"group" TEXT,
	email TEXT,
	extra TEXT
) STRICT;
`
