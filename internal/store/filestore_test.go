package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"docquiz/internal/model"

	"go.uber.org/zap"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quizzes.json")
	st := NewFileStore(path, zap.NewNop())

	records := []model.SavedQuizRecord{
		{
			ID:                 "r1",
			SourceDocumentName: "doc.pdf",
			SavedAt:            time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			Questions: []model.Question{
				{Text: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectOption: "4"},
			},
			FinalScore:          1,
			TotalQuestions:      1,
			SourceDocumentBytes: []byte("%PDF-1.4"),
		},
	}

	if err := st.SaveAll(ctx, records); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	got := st.LoadAll(ctx)
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("round trip mismatch: got %+v", got)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	st := NewFileStore(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	if got := st.LoadAll(context.Background()); len(got) != 0 {
		t.Fatalf("LoadAll of missing file = %d records, want 0", len(got))
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizzes.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	st := NewFileStore(path, zap.NewNop())
	if got := st.LoadAll(context.Background()); len(got) != 0 {
		t.Fatalf("LoadAll of corrupt file = %d records, want 0", len(got))
	}
}

func TestFileStoreSaveEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quizzes.json")
	st := NewFileStore(path, zap.NewNop())

	if err := st.SaveAll(ctx, nil); err != nil {
		t.Fatalf("SaveAll(nil): %v", err)
	}
	if got := st.LoadAll(ctx); len(got) != 0 {
		t.Fatalf("LoadAll = %d records, want 0", len(got))
	}
}
