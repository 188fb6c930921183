package router

import (
	"database/sql"
	"net/http"

	docHandler "docsync/internal/document"
	"docsync/internal/document/repository"
	"docsync/internal/document/service"
	"docsync/middleware"
	"docsync/socket"

	"github.com/gorilla/mux"
)

func Setup(db *sql.DB, hub *socket.Hub, allowedOrigin string) http.Handler {
	r := mux.NewRouter()

	// WebSocket
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		socket.ServeWs(hub, w, req)
	})

	// REST API
	docRepo := repository.NewDocumentRepository(db)
	docService := service.NewDocumentService(docRepo, hub)
	docHandler := docHandler.NewDocumentHandler(docService)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/documents", docHandler.CreateDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents", docHandler.ListDocuments).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}", docHandler.GetDocument).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}", docHandler.UpdateDocument).Methods(http.MethodPut)
	api.HandleFunc("/documents/{id}", docHandler.DeleteDocument).Methods(http.MethodDelete)

	return middleware.SecurityHeaders(middleware.CORS(allowedOrigin)(middleware.RequestLogger(r)))
}
