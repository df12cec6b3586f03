package service

import (
	"context"
	"fmt"
	"sync"

	"docquiz/internal/model"
	"docquiz/internal/store"

	"go.uber.org/zap"
)

// RecordService owns the saved quiz collection. The whole collection is read
// once at startup and rewritten in full after every add or delete; the store
// has no per-record API.
//
// A failed store write is reported to the caller as a warning but the
// in-memory mutation stands, so the running session is never harmed by a
// persistence problem.
type RecordService struct {
	mu      sync.Mutex
	store   store.QuizStore
	records []model.SavedQuizRecord
	logger  *zap.Logger
}

// NewRecordService creates the record service and loads the persisted
// collection.
func NewRecordService(ctx context.Context, st store.QuizStore, logger *zap.Logger) *RecordService {
	s := &RecordService{
		store:  st,
		logger: logger,
	}
	s.records = st.LoadAll(ctx)
	logger.Info("loaded saved quizzes", zap.Int("count", len(s.records)))
	return s
}

// List returns the saved quiz records, newest first.
func (s *RecordService) List() []model.SavedQuizRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.SavedQuizRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id.
func (s *RecordService) Get(id string) (*model.SavedQuizRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, ErrRecordNotFound
}

// Add appends a record and rewrites the stored collection. The returned
// error, if any, is a persistence warning; the record is kept in memory
// either way.
func (s *RecordService) Add(ctx context.Context, record model.SavedQuizRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]model.SavedQuizRecord{record}, s.records...)
	if err := s.store.SaveAll(ctx, s.records); err != nil {
		s.logger.Warn("failed to persist saved quizzes", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Delete removes the record with the given id and rewrites the stored
// collection. Deleting an unknown id is a no-op.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			if err := s.store.SaveAll(ctx, s.records); err != nil {
				s.logger.Warn("failed to persist saved quizzes", zap.Error(err))
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			return nil
		}
	}
	return nil
}
