package service

import (
	"encoding/json"

	"docsync/internal/document/model"
	"docsync/internal/document/repository"
	"docsync/pkg/apperr"
	"docsync/pkg/logger"
	"docsync/socket"

	"github.com/google/uuid"
)

// Notifier is the fan-out side of the synchronization layer. The websocket
// hub implements it; tests substitute a recorder.
type Notifier interface {
	Publish(evt socket.Event)
}

type DocumentService struct {
	Repo     *repository.DocumentRepository
	Notifier Notifier
}

func NewDocumentService(repo *repository.DocumentRepository, notifier Notifier) *DocumentService {
	return &DocumentService{Repo: repo, Notifier: notifier}
}

// Create validates the fields, assigns a fresh id, persists the document,
// and broadcasts the confirmed record to all connected clients.
func (s *DocumentService) Create(title, content string) (*model.Document, error) {
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:      uuid.NewString(),
		Title:   title,
		Content: content,
	}
	if err := s.Repo.Insert(doc); err != nil {
		return nil, err
	}

	s.publish(socket.EventDocumentAdded, doc)
	return doc, nil
}

func (s *DocumentService) List() ([]model.Document, error) {
	return s.Repo.List()
}

func (s *DocumentService) Get(id string) (*model.Document, error) {
	return s.Repo.Get(id)
}

// Update replaces both mutable fields and broadcasts the post-update
// document. Concurrent updates are last-write-wins; the loser is silently
// overwritten.
func (s *DocumentService) Update(id, title, content string) (*model.Document, error) {
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	doc, err := s.Repo.Update(id, title, content)
	if err != nil {
		return nil, err
	}

	s.publish(socket.EventDocumentUpdated, doc)
	return doc, nil
}

// Delete removes a document. Deleting an id that does not exist succeeds as
// a no-op, so delete is idempotent; the deleted event only goes out when a
// row was actually removed.
func (s *DocumentService) Delete(id string) error {
	removed, err := s.Repo.Delete(id)
	if err != nil {
		return err
	}
	if removed {
		s.publish(socket.EventDocumentDeleted, model.DeletedPayload{ID: id})
	}
	return nil
}

// publish derives a change event from a confirmed write. A marshalling
// failure is logged and swallowed; broadcast problems never surface on the
// mutation path.
func (s *DocumentService) publish(event string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar.Errorf("Failed to marshal %s event: %v", event, err)
		return
	}
	s.Notifier.Publish(socket.Event{Event: event, Payload: body})
}

func validateFields(title, content string) error {
	if title == "" {
		return apperr.Validationf("title must not be empty")
	}
	if content == "" {
		return apperr.Validationf("content must not be empty")
	}
	return nil
}
