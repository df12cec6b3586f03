package model

import "time"

// SavedQuizRecord is a persisted snapshot of a quiz: the source document,
// its generated questions and the score at save time. Immutable once created.
//
// Reloading a record seeds a fresh session with the record's questions and
// document identity only; answers and score are not restored.
type SavedQuizRecord struct {
	ID                  string     `json:"id" bson:"_id"`
	SourceDocumentName  string     `json:"sourceDocumentName" bson:"sourceDocumentName"`
	SavedAt             time.Time  `json:"savedAt" bson:"savedAt"`
	Questions           []Question `json:"questions" bson:"questions"`
	FinalScore          int        `json:"finalScore" bson:"finalScore"`
	TotalQuestions      int        `json:"totalQuestions" bson:"totalQuestions"`
	SourceDocumentBytes []byte     `json:"sourceDocumentBytes" bson:"sourceDocumentBytes"`
}
