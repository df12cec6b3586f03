package handler

import (
	"errors"
	"net/http"

	"docquiz/internal/model"
	"docquiz/internal/service"

	"github.com/gorilla/mux"
)

// RecordHandler handles saved quiz record endpoints
type RecordHandler struct {
	recordSvc  *service.RecordService
	sessionSvc *service.SessionService
	authSvc    *service.AuthService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(recordSvc *service.RecordService, sessionSvc *service.SessionService, authSvc *service.AuthService) *RecordHandler {
	return &RecordHandler{
		recordSvc:  recordSvc,
		sessionSvc: sessionSvc,
		authSvc:    authSvc,
	}
}

// List handles GET /v1/records
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records := h.recordSvc.List()

	// Trim document bytes out of the listing; they are only needed when a
	// record is loaded back into a session.
	summaries := make([]model.SavedQuizRecord, len(records))
	for i, rec := range records {
		rec.SourceDocumentBytes = nil
		summaries[i] = rec
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"records": summaries})
}

// Load handles POST /v1/records/{id}/load, creating a fresh session from a
// saved quiz record.
func (h *RecordHandler) Load(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.LoadRecord(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.authSvc.GenerateSessionToken(session.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue session token")
		return
	}

	writeJSON(w, http.StatusCreated, model.CreateSessionResponse{
		Session: session,
		Token:   token,
	})
}

// Delete handles DELETE /v1/records/{id}. Deleting an unknown id is a
// no-op; a failed store write is surfaced as a warning.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.recordSvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, service.ErrPersistence) {
			writeJSON(w, http.StatusOK, map[string]string{"warning": err.Error()})
			return
		}
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
