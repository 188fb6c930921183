package repository

import (
	"database/sql"

	"docsync/internal/document/model"
	"docsync/pkg/apperr"
	"docsync/pkg/logger"
)

type DocumentRepository struct {
	DB *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

// Insert persists a new document. The id is assigned by the caller before
// the row exists, so the passed document is returned unchanged on success.
func (r *DocumentRepository) Insert(doc *model.Document) error {
	_, err := r.DB.Exec(`INSERT INTO documents (id, title, content, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW())`,
		doc.ID, doc.Title, doc.Content)
	if err != nil {
		logger.Sugar.Errorf("Failed to insert document %s: %v", doc.ID, err)
		return &apperr.StorageError{Op: "insert document", Err: err}
	}
	return nil
}

func (r *DocumentRepository) Get(id string) (*model.Document, error) {
	var doc model.Document
	err := r.DB.QueryRow("SELECT id, title, content FROM documents WHERE id = $1", id).
		Scan(&doc.ID, &doc.Title, &doc.Content)
	if err == sql.ErrNoRows {
		return nil, &apperr.NotFoundError{ID: id}
	} else if err != nil {
		logger.Sugar.Errorf("Failed to get document %s: %v", id, err)
		return nil, &apperr.StorageError{Op: "get document", Err: err}
	}
	return &doc, nil
}

// List returns every document in storage order. No ordering clause on
// purpose; callers must not assume insertion order.
func (r *DocumentRepository) List() ([]model.Document, error) {
	rows, err := r.DB.Query("SELECT id, title, content FROM documents")
	if err != nil {
		logger.Sugar.Errorf("Failed to list documents: %v", err)
		return nil, &apperr.StorageError{Op: "list documents", Err: err}
	}
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content); err != nil {
			return nil, &apperr.StorageError{Op: "scan document", Err: err}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.StorageError{Op: "iterate documents", Err: err}
	}
	return docs, nil
}

// Update replaces both mutable fields. Last write wins; there is no
// revision check.
func (r *DocumentRepository) Update(id, title, content string) (*model.Document, error) {
	var doc model.Document
	err := r.DB.QueryRow(`UPDATE documents SET title = $1, content = $2, updated_at = NOW() WHERE id = $3 RETURNING id, title, content`,
		title, content, id).Scan(&doc.ID, &doc.Title, &doc.Content)
	if err == sql.ErrNoRows {
		return nil, &apperr.NotFoundError{ID: id}
	} else if err != nil {
		logger.Sugar.Errorf("Failed to update document %s: %v", id, err)
		return nil, &apperr.StorageError{Op: "update document", Err: err}
	}
	return &doc, nil
}

// Delete removes a document and reports whether a row actually existed.
// Deleting an absent id is not an error.
func (r *DocumentRepository) Delete(id string) (bool, error) {
	result, err := r.DB.Exec("DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete document %s: %v", id, err)
		return false, &apperr.StorageError{Op: "delete document", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, &apperr.StorageError{Op: "delete document", Err: err}
	}
	return affected > 0, nil
}
