package model

// Document is the persisted entity. The store also keeps created_at and
// updated_at columns internally, but they are not part of the API contract
// and clients must not depend on them.
type Document struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DocumentRequest is the body of create and update calls.
type DocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DeletedPayload is broadcast when a document is removed; only the id
// survives the deletion.
type DeletedPayload struct {
	ID string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
