package store

import (
	"context"

	"docquiz/internal/model"
)

// QuizStore persists the saved quiz collection. The contract is deliberately
// whole-collection: LoadAll reads everything once at startup, and SaveAll
// replaces the entire stored collection after every add or delete. There is
// no per-record persistence API.
//
// LoadAll must tolerate absent or corrupt underlying storage by returning an
// empty collection (and logging), never an error that blocks startup.
type QuizStore interface {
	LoadAll(ctx context.Context) []model.SavedQuizRecord
	SaveAll(ctx context.Context, records []model.SavedQuizRecord) error
}
