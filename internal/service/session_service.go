package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"docquiz/internal/cache"
	"docquiz/internal/extract"
	"docquiz/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebSocket event types pushed to session subscribers
const (
	MsgGenerationReady  = "generation_ready"
	MsgGenerationFailed = "generation_failed"
	MsgAnswerRecorded   = "answer_recorded"
	MsgExplanationReady = "explanation_ready"
)

// SessionService is the quiz session manager. It owns all live sessions,
// orchestrates extraction and generation, enforces the write-once answer
// rule, and runs explanation retrieval in the background.
//
// All reads return defensive copies; the live state is only touched under
// the service lock.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*model.QuizSession

	extractor extract.TextExtractor
	generator QuestionGenerator
	records   *RecordService
	expCache  cache.ExplanationCache
	bcast     Broadcaster
	logger    *zap.Logger

	explainTimeout time.Duration
	sessionTTL     time.Duration
	sweepInterval  time.Duration
}

// NewSessionService creates a new session service
func NewSessionService(extractor extract.TextExtractor, generator QuestionGenerator, records *RecordService, logger *zap.Logger) *SessionService {
	s := &SessionService{
		sessions:       make(map[string]*model.QuizSession),
		extractor:      extractor,
		generator:      generator,
		records:        records,
		logger:         logger,
		explainTimeout: 30 * time.Second,
		sessionTTL:     24 * time.Hour,
		sweepInterval:  10 * time.Minute,
	}
	go s.sweepLoop()
	return s
}

func (s *SessionService) sweepLoop() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		s.sweepExpired(time.Now())
	}
}

// sweepExpired evicts sessions idle past the TTL. Loading sessions are kept
// so an in-flight generation always finds its session.
func (s *SessionService) sweepExpired(now time.Time) int {
	s.mu.Lock()
	evicted := 0
	for id, sess := range s.sessions {
		if sess.Status == model.SessionLoading {
			continue
		}
		if now.Sub(sess.LastActive) > s.sessionTTL {
			delete(s.sessions, id)
			evicted++
		}
	}
	s.mu.Unlock()

	if evicted > 0 {
		s.logger.Info("evicted idle sessions", zap.Int("count", evicted))
	}
	return evicted
}

// SetBroadcaster injects the WebSocket hub (wsHub implements Broadcaster)
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.bcast = b
}

// SetExplanationCache injects the optional redis explanation cache
func (s *SessionService) SetExplanationCache(c cache.ExplanationCache) {
	s.expCache = c
}

// CreateSession registers a session for an uploaded document and kicks off
// generation. The returned session is in Loading state.
func (s *SessionService) CreateSession(documentName string, documentBytes []byte) (*model.QuizSession, error) {
	if len(documentBytes) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocumentType)
	}

	sess := model.NewQuizSession(uuid.New().String(), documentName, documentBytes)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	if err := s.StartGeneration(sess.ID); err != nil {
		return nil, err
	}
	return s.GetSession(sess.ID)
}

// StartGeneration moves the session to Loading and generates questions in
// the background. Refused while a generation is already in flight.
func (s *SessionService) StartGeneration(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	if sess.Status == model.SessionLoading {
		s.mu.Unlock()
		return ErrGenerationInProgress
	}
	if len(sess.DocumentBytes) == 0 {
		s.mu.Unlock()
		return fmt.Errorf("session has no document selected")
	}

	sess.Status = model.SessionLoading
	sess.FailReason = ""
	sess.LastActive = time.Now()
	version := sess.Version
	docBytes := sess.DocumentBytes
	s.mu.Unlock()

	go s.runGeneration(id, version, docBytes)
	return nil
}

func (s *SessionService) runGeneration(id string, version int, docBytes []byte) {
	ctx := context.Background()

	text, err := s.extractor.ExtractText(docBytes)
	if err != nil {
		s.failGeneration(id, version, fmt.Errorf("%w: %v", ErrExtractionFailed, err))
		return
	}

	questions, err := s.generator.GenerateQuestions(ctx, text)
	if err != nil {
		s.failGeneration(id, version, err)
		return
	}
	if err := model.ValidateQuestions(questions); err != nil {
		s.failGeneration(id, version, fmt.Errorf("%w: %v", ErrGenerationFailed, err))
		return
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok || sess.Version != version {
		// Session was cleared or replaced while we were generating.
		s.mu.Unlock()
		return
	}
	sess.Questions = questions
	sess.SelectedAnswers = make(map[int]string)
	sess.Explanations = make(map[int]string)
	sess.Score = 0
	sess.CurrentIndex = 0
	sess.Status = model.SessionReady
	sess.FailReason = ""
	sess.LastActive = time.Now()
	sess.Version++
	count := len(questions)
	s.mu.Unlock()

	s.logger.Info("quiz generated", zap.String("session", id), zap.Int("questions", count))
	s.broadcast(id, MsgGenerationReady, map[string]int{"questionCount": count})
}

// failGeneration records a failed generation. Any question set the session
// already had stays in place; only the status changes.
func (s *SessionService) failGeneration(id string, version int, cause error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok || sess.Version != version {
		s.mu.Unlock()
		return
	}
	sess.Status = model.SessionFailed
	sess.FailReason = cause.Error()
	sess.LastActive = time.Now()
	s.mu.Unlock()

	s.logger.Warn("quiz generation failed", zap.String("session", id), zap.Error(cause))
	s.broadcast(id, MsgGenerationFailed, map[string]string{"reason": cause.Error()})
}

// SelectAnswer records an answer for a question. Once an index has an
// answer the call is a silent no-op; answers are write-once. A wrong answer
// schedules explanation retrieval in the background.
func (s *SessionService) SelectAnswer(id string, index int, answer string) (*model.QuizSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.Status == model.SessionLoading {
		s.mu.Unlock()
		return nil, ErrGenerationInProgress
	}
	if len(sess.Questions) == 0 {
		s.mu.Unlock()
		return nil, ErrSessionNotReady
	}
	if index < 0 || index >= len(sess.Questions) {
		s.mu.Unlock()
		return nil, fmt.Errorf("question index %d out of range", index)
	}
	if sess.Answered(index) {
		snap := cloneSession(sess)
		s.mu.Unlock()
		return snap, nil
	}

	question := sess.Questions[index]
	correct := answer == question.CorrectOption

	sess.SelectedAnswers[index] = answer
	sess.LastActive = time.Now()
	if correct {
		sess.Score++
	}
	if index < len(sess.Questions)-1 {
		sess.CurrentIndex = index + 1
	}
	version := sess.Version
	snap := cloneSession(sess)
	s.mu.Unlock()

	s.broadcast(id, MsgAnswerRecorded, map[string]interface{}{
		"index":   index,
		"correct": correct,
		"score":   snap.Score,
	})

	if !correct {
		go s.fetchExplanation(id, version, index, question, answer)
	}
	return snap, nil
}

// fetchExplanation retrieves an explanation for a wrong answer and merges it
// into the session unless the session moved on in the meantime. Failures are
// non-fatal; the explanation is simply left unavailable.
func (s *SessionService) fetchExplanation(id string, version, index int, question model.Question, answer string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.explainTimeout)
	defer cancel()

	if s.expCache != nil {
		if text, ok := s.expCache.Get(ctx, question.Text, answer); ok {
			s.mergeExplanation(id, version, index, text)
			return
		}
	}

	text, err := s.generator.ExplainAnswer(ctx, question, answer)
	if err != nil {
		s.logger.Warn("explanation retrieval failed",
			zap.String("session", id), zap.Int("index", index), zap.Error(err))
		return
	}

	if s.expCache != nil {
		if err := s.expCache.Set(ctx, question.Text, answer, text); err != nil {
			s.logger.Warn("failed to cache explanation", zap.Error(err))
		}
	}
	s.mergeExplanation(id, version, index, text)
}

func (s *SessionService) mergeExplanation(id string, version, index int, text string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok || sess.Version != version {
		// Stale result: the session was cleared, reset or reloaded.
		s.mu.Unlock()
		return
	}
	sess.Explanations[index] = text
	s.mu.Unlock()

	s.broadcast(id, MsgExplanationReady, map[string]interface{}{
		"index":       index,
		"explanation": text,
	})
}

// Navigate moves the carousel pointer, clamped to the question range.
func (s *SessionService) Navigate(id string, index int) (*model.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.CurrentIndex = sess.ClampIndex(index)
	sess.LastActive = time.Now()
	return cloneSession(sess), nil
}

// ResetAnswers clears answers, score and explanations but keeps the
// question set and carousel position. Refused while a generation is in
// flight: bumping Version here would make the running generation discard
// its result without ever leaving Loading.
func (s *SessionService) ResetAnswers(id string) (*model.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.Status == model.SessionLoading {
		return nil, ErrGenerationInProgress
	}
	sess.SelectedAnswers = make(map[int]string)
	sess.Explanations = make(map[int]string)
	sess.Score = 0
	sess.LastActive = time.Now()
	sess.Version++
	return cloneSession(sess), nil
}

// Clear discards everything including the selected document and returns the
// session to Idle.
func (s *SessionService) Clear(id string) (*model.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.DocumentName = ""
	sess.DocumentBytes = nil
	sess.Questions = nil
	sess.SelectedAnswers = make(map[int]string)
	sess.Explanations = make(map[int]string)
	sess.Score = 0
	sess.CurrentIndex = 0
	sess.Status = model.SessionIdle
	sess.FailReason = ""
	sess.LastActive = time.Now()
	sess.Version++
	return cloneSession(sess), nil
}

// SaveSession snapshots a Ready session into a saved quiz record. The
// session does not have to be complete. A non-nil record together with an
// ErrPersistence error means the record exists in memory but the store
// write failed.
func (s *SessionService) SaveSession(ctx context.Context, id string) (*model.SavedQuizRecord, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.Status != model.SessionReady || len(sess.Questions) == 0 {
		s.mu.Unlock()
		return nil, ErrSessionNotReady
	}

	sess.LastActive = time.Now()
	record := model.SavedQuizRecord{
		ID:                  uuid.New().String(),
		SourceDocumentName:  sess.DocumentName,
		SavedAt:             time.Now(),
		Questions:           append([]model.Question(nil), sess.Questions...),
		FinalScore:          sess.Score,
		TotalQuestions:      len(sess.Questions),
		SourceDocumentBytes: append([]byte(nil), sess.DocumentBytes...),
	}
	s.mu.Unlock()

	if err := s.records.Add(ctx, record); err != nil {
		return &record, err
	}
	return &record, nil
}

// LoadRecord seeds a brand new Ready session from a saved quiz record.
// Answers, score and explanations start empty; only the question set and
// document identity are restored.
func (s *SessionService) LoadRecord(recordID string) (*model.QuizSession, error) {
	record, err := s.records.Get(recordID)
	if err != nil {
		return nil, err
	}

	sess := model.NewQuizSession(uuid.New().String(), record.SourceDocumentName, record.SourceDocumentBytes)
	sess.Questions = append([]model.Question(nil), record.Questions...)
	sess.Status = model.SessionReady

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	snap := cloneSession(sess)
	s.mu.Unlock()
	return snap, nil
}

// GetSession returns a snapshot of the session with the given id.
func (s *SessionService) GetSession(id string) (*model.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.LastActive = time.Now()
	return cloneSession(sess), nil
}

func (s *SessionService) broadcast(sessionID, msgType string, payload interface{}) {
	if s.bcast != nil {
		s.bcast.BroadcastToSession(sessionID, msgType, payload)
	}
}

// cloneSession copies the mutable parts of a session so callers can marshal
// it without holding the service lock. The raw document bytes stay behind.
func cloneSession(sess *model.QuizSession) *model.QuizSession {
	out := *sess
	out.DocumentBytes = nil
	out.Questions = append([]model.Question(nil), sess.Questions...)
	out.SelectedAnswers = make(map[int]string, len(sess.SelectedAnswers))
	for k, v := range sess.SelectedAnswers {
		out.SelectedAnswers[k] = v
	}
	out.Explanations = make(map[int]string, len(sess.Explanations))
	for k, v := range sess.Explanations {
		out.Explanations[k] = v
	}
	return &out
}
