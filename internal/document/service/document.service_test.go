package service

import (
	"encoding/json"
	"os"
	"testing"

	"docsync/internal/document/model"
	"docsync/internal/document/repository"
	"docsync/pkg/apperr"
	"docsync/pkg/logger"
	"docsync/socket"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// recorderNotifier captures published events instead of fanning them out.
type recorderNotifier struct {
	events []socket.Event
}

func (r *recorderNotifier) Publish(evt socket.Event) {
	r.events = append(r.events, evt)
}

func newTestService(t *testing.T) (*DocumentService, sqlmock.Sqlmock, *recorderNotifier) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	notifier := &recorderNotifier{}
	svc := NewDocumentService(repository.NewDocumentRepository(db), notifier)
	return svc, mock, notifier
}

func TestCreateRejectsEmptyFields(t *testing.T) {
	svc, mock, notifier := newTestService(t)

	for _, req := range []model.DocumentRequest{
		{Title: "", Content: "x"},
		{Title: "A", Content: ""},
	} {
		_, err := svc.Create(req.Title, req.Content)
		var validationErr *apperr.ValidationError
		require.ErrorAs(t, err, &validationErr)
	}

	assert.Empty(t, notifier.events, "invalid input must not reach the notifier")
	assert.NoError(t, mock.ExpectationsWereMet(), "invalid input must not reach the store")
}

func TestCreateAssignsIDAndPublishesAddedEvent(t *testing.T) {
	svc, mock, notifier := newTestService(t)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), "A", "x").
		WillReturnResult(sqlmock.NewResult(0, 1))

	doc, err := svc.Create("A", "x")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "A", doc.Title)
	assert.Equal(t, "x", doc.Content)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, socket.EventDocumentAdded, notifier.events[0].Event)

	var published model.Document
	require.NoError(t, json.Unmarshal(notifier.events[0].Payload, &published))
	assert.Equal(t, *doc, published, "broadcast payload must be the confirmed write")
}

func TestCreateStorageFaultPublishesNothing(t *testing.T) {
	svc, mock, notifier := newTestService(t)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), "A", "x").
		WillReturnError(assert.AnError)

	_, err := svc.Create("A", "x")
	var storageErr *apperr.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Empty(t, notifier.events)
}

func TestUpdatePublishesUpdatedEvent(t *testing.T) {
	svc, mock, notifier := newTestService(t)

	mock.ExpectQuery("UPDATE documents SET title = \\$1, content = \\$2").
		WithArgs("B", "y", "doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}).AddRow("doc-1", "B", "y"))

	doc, err := svc.Update("doc-1", "B", "y")
	require.NoError(t, err)
	assert.Equal(t, "B", doc.Title)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, socket.EventDocumentUpdated, notifier.events[0].Event)
}

func TestDeletePublishesDeletedEventWithIDOnly(t *testing.T) {
	svc, mock, notifier := newTestService(t)

	mock.ExpectExec("DELETE FROM documents WHERE id = \\$1").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Delete("doc-1"))

	require.Len(t, notifier.events, 1)
	assert.Equal(t, socket.EventDocumentDeleted, notifier.events[0].Event)
	assert.JSONEq(t, `{"id":"doc-1"}`, string(notifier.events[0].Payload))
}

func TestDeleteOfAbsentIDIsSilentNoOp(t *testing.T) {
	svc, mock, notifier := newTestService(t)

	mock.ExpectExec("DELETE FROM documents WHERE id = \\$1").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, svc.Delete("missing"))
	assert.Empty(t, notifier.events, "no row removed, so no deleted event")
}
