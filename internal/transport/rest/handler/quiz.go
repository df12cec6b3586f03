package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"docquiz/internal/model"
	"docquiz/internal/service"

	"github.com/gorilla/mux"
)

// QuizHandler handles quiz session endpoints
type QuizHandler struct {
	sessionSvc     *service.SessionService
	authSvc        *service.AuthService
	maxUploadBytes int64
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(sessionSvc *service.SessionService, authSvc *service.AuthService, maxUploadBytes int64) *QuizHandler {
	return &QuizHandler{
		sessionSvc:     sessionSvc,
		authSvc:        authSvc,
		maxUploadBytes: maxUploadBytes,
	}
}

// AnswerRequest is the request body for answering a question
type AnswerRequest struct {
	Index  int    `json:"index"`
	Answer string `json:"answer"`
}

// NavigateRequest is the request body for moving the question carousel
type NavigateRequest struct {
	Index int `json:"index"`
}

// Create handles POST /v1/quizzes. It accepts a multipart PDF upload and
// starts quiz generation; anything that does not declare a PDF media type
// is rejected before any processing.
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing document file")
		return
	}
	defer file.Close()

	if !isPDF(header.Header.Get("Content-Type"), header.Filename) {
		writeError(w, http.StatusBadRequest, service.ErrInvalidDocumentType.Error())
		return
	}

	documentBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read document")
		return
	}

	session, err := h.sessionSvc.CreateSession(header.Filename, documentBytes)
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

// Get handles GET /v1/quizzes/{id}
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.GetSession(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Generate handles POST /v1/quizzes/{id}/generate, re-running generation
// for the session's document. Returns 409 while a generation is in flight.
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.sessionSvc.StartGeneration(id); err != nil {
		writeServiceError(w, err)
		return
	}

	session, err := h.sessionSvc.GetSession(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, session)
}

// Answer handles POST /v1/quizzes/{id}/answers
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Answer == "" {
		writeError(w, http.StatusBadRequest, "answer must not be empty")
		return
	}

	session, err := h.sessionSvc.SelectAnswer(mux.Vars(r)["id"], req.Index, req.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Navigate handles POST /v1/quizzes/{id}/navigate
func (h *QuizHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.Navigate(mux.Vars(r)["id"], req.Index)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Reset handles POST /v1/quizzes/{id}/reset
func (h *QuizHandler) Reset(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.ResetAnswers(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Clear handles DELETE /v1/quizzes/{id}
func (h *QuizHandler) Clear(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Clear(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Save handles POST /v1/quizzes/{id}/save. A persistence failure is
// reported as a warning; the record still exists for this process.
func (h *QuizHandler) Save(w http.ResponseWriter, r *http.Request) {
	record, err := h.sessionSvc.SaveSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if record != nil && errors.Is(err, service.ErrPersistence) {
			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"record":  record,
				"warning": err.Error(),
			})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"record": record})
}

// isPDF checks the declared media type, falling back to the file extension
// when the browser sent a generic type.
func isPDF(contentType, filename string) bool {
	mediaType := contentType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))

	switch mediaType {
	case "application/pdf":
		return true
	case "", "application/octet-stream":
		return strings.HasSuffix(strings.ToLower(filename), ".pdf")
	default:
		return false
	}
}
