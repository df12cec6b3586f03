package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"docquiz/internal/model"

	"go.uber.org/zap"
)

// FileStore keeps the whole saved quiz collection in a single JSON document
// on local disk, mirroring a browser's local key-value storage.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a file-backed quiz store at the given path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) LoadAll(_ context.Context) []model.SavedQuizRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read quiz store, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return nil
	}

	var records []model.SavedQuizRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("quiz store is corrupt, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return nil
	}
	return records
}

func (s *FileStore) SaveAll(_ context.Context, records []model.SavedQuizRecord) error {
	if records == nil {
		records = []model.SavedQuizRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode quiz store: %w", err)
	}

	// Write to a temp file then rename so a crash never leaves a torn file.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".quizstore-*")
	if err != nil {
		return fmt.Errorf("failed to write quiz store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write quiz store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write quiz store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace quiz store: %w", err)
	}
	return nil
}
