// Package store keeps the history of the documents processed by the rb tool
// in a SQLite database, so that monthly updates only ingest new documents
// and failed documents are remembered until they are entered manually.
package store

// schema creates the tables if they don't exist.
const schema = `
-- One row per document, identified by its content hash.
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    property TEXT NOT NULL,
    source_type TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,              -- 'parsed' or 'failed'
    error TEXT NOT NULL DEFAULT '',
    records INTEGER NOT NULL DEFAULT 0,
    processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_documents_status
    ON documents(status);

-- Key-value metadata, such as the session file the history belongs to.
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

func initializeSchema(conn *Connection) error {
	_, err := conn.db.Exec(schema)
	return err
}
