package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/etnz/rentbook"
)

// Status is the outcome of the last processing of a document.
type Status string

const (
	Parsed Status = "parsed"
	Failed Status = "failed" // needs manual entry
)

// Document is the history record of a processed document.
type Document struct {
	ID          string
	Name        string
	Property    string
	SourceType  rentbook.SourceType
	Status      Status
	Error       string
	Records     int
	ProcessedAt time.Time
}

// History manages the processed documents.
type History struct {
	conn *Connection
}

// NewHistory creates a new History instance.
func NewHistory(conn *Connection) *History {
	return &History{conn: conn}
}

const upsertDocument = `
	INSERT INTO documents (id, name, property, source_type, status, error, records)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		property = excluded.property,
		source_type = excluded.source_type,
		status = excluded.status,
		error = excluded.error,
		records = excluded.records,
		processed_at = CURRENT_TIMESTAMP
`

// Record records the processing of documents, replacing their previous
// outcome.
func (h *History) Record(docs ...Document) error {
	return h.conn.Transaction(func(tx *sql.Tx) error {
		for _, d := range docs {
			_, err := tx.Exec(upsertDocument,
				d.ID,
				d.Name,
				d.Property,
				string(d.SourceType),
				string(d.Status),
				d.Error,
				d.Records,
			)
			if err != nil {
				return fmt.Errorf("failed to record document %q: %w", d.Name, err)
			}
		}
		return nil
	})
}

// IsParsed checks if a document has already been parsed successfully.
func (h *History) IsParsed(id string) (bool, error) {
	var count int
	err := h.conn.db.QueryRow(`SELECT COUNT(*) FROM documents WHERE id = ? AND status = ?`, id, string(Parsed)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check document: %w", err)
	}
	return count > 0, nil
}

const selectDocuments = `
	SELECT id, name, property, source_type, status, error, records, processed_at
	FROM documents
`

func scanDocument(row interface{ Scan(...any) error }) (Document, error) {
	var d Document
	var sourceType, status string
	err := row.Scan(&d.ID, &d.Name, &d.Property, &sourceType, &status, &d.Error, &d.Records, &d.ProcessedAt)
	d.SourceType = rentbook.SourceType(sourceType)
	d.Status = Status(status)
	return d, err
}

// Get retrieves a document by id. It returns nil if the document is unknown.
func (h *History) Get(id string) (*Document, error) {
	d, err := scanDocument(h.conn.db.QueryRow(selectDocuments+`WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

func (h *History) query(where string, args ...any) ([]Document, error) {
	rows, err := h.conn.db.Query(selectDocuments+where+` ORDER BY property, name, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// List returns all the processed documents.
func (h *History) List() ([]Document, error) { return h.query("") }

// Pending returns the documents that failed to parse and need manual entry.
func (h *History) Pending() ([]Document, error) {
	return h.query(`WHERE status = ?`, string(Failed))
}

// Forget deletes a document from the history, so that it is processed again.
func (h *History) Forget(id string) (bool, error) {
	result, err := h.conn.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// GetMetadata retrieves a metadata value, "" if unset.
func (h *History) GetMetadata(key string) (string, error) {
	var value string
	err := h.conn.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}
	return value, nil
}

// SetMetadata sets a metadata value.
func (h *History) SetMetadata(key, value string) error {
	_, err := h.conn.db.Exec(`
		INSERT INTO metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	return nil
}
