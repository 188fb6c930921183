package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"docsync/internal/document/model"
	"docsync/internal/document/service"
	"docsync/pkg/apperr"
	"docsync/pkg/logger"

	"github.com/gorilla/mux"
)

type DocumentHandler struct {
	Service *service.DocumentService
}

func NewDocumentHandler(service *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: service}
}

func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req model.DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validationf("invalid request body"))
		return
	}

	doc, err := h.Service.Create(req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Service.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	doc, err := h.Service.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req model.DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validationf("invalid request body"))
		return
	}

	doc, err := h.Service.Update(id, req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Document deleted"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

// writeError dispatches the tagged error types to their status codes.
// Anything unrecognized is treated as a storage-level fault.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var validationErr *apperr.ValidationError
	var notFoundErr *apperr.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	}

	writeJSON(w, status, model.ErrorResponse{Message: err.Error()})
}
