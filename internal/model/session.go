package model

import "time"

// SessionStatus tracks where a quiz session is in its lifecycle.
type SessionStatus string

const (
	SessionIdle    SessionStatus = "idle"
	SessionLoading SessionStatus = "loading"
	SessionReady   SessionStatus = "ready"
	SessionFailed  SessionStatus = "failed"
)

// QuizSession is the live state for one generated question set.
//
// SelectedAnswers is write-once per index: once a question has a recorded
// answer it can never be overwritten. Explanations holds entries only for
// indices that were answered incorrectly; they arrive asynchronously.
type QuizSession struct {
	ID              string         `json:"id"`
	DocumentName    string         `json:"documentName"`
	DocumentBytes   []byte         `json:"-"`
	Questions       []Question     `json:"questions"`
	SelectedAnswers map[int]string `json:"selectedAnswers"`
	Score           int            `json:"score"`
	Explanations    map[int]string `json:"explanations"`
	CurrentIndex    int            `json:"currentIndex"`
	Status          SessionStatus  `json:"status"`
	FailReason      string         `json:"failReason,omitempty"`

	// Version increments whenever answers are discarded (clear, reset,
	// regeneration, load). In-flight async work captures the version it
	// started under and its result is dropped if the session moved on.
	Version int `json:"-"`

	// LastActive is bumped on every operation; idle sessions are evicted
	// after a TTL.
	LastActive time.Time `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewQuizSession returns an empty session holding only document identity.
func NewQuizSession(id, documentName string, documentBytes []byte) *QuizSession {
	return &QuizSession{
		ID:              id,
		DocumentName:    documentName,
		DocumentBytes:   documentBytes,
		SelectedAnswers: make(map[int]string),
		Explanations:    make(map[int]string),
		Status:          SessionIdle,
		LastActive:      time.Now(),
		CreatedAt:       time.Now(),
	}
}

// Answered reports whether the question at index already has an answer.
func (s *QuizSession) Answered(index int) bool {
	_, ok := s.SelectedAnswers[index]
	return ok
}

// Complete is true exactly when every question index has an answer.
func (s *QuizSession) Complete() bool {
	return len(s.Questions) > 0 && len(s.SelectedAnswers) == len(s.Questions)
}

// ClampIndex bounds a carousel position to the valid question range.
func (s *QuizSession) ClampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if last := len(s.Questions) - 1; index > last && last >= 0 {
		return last
	}
	if len(s.Questions) == 0 {
		return 0
	}
	return index
}
