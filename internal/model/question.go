package model

import "fmt"

// OptionCount is the number of choices every generated question carries.
const OptionCount = 4

// Question is a single multiple-choice question. Immutable once generated.
type Question struct {
	Text          string   `json:"text" bson:"text" validate:"required"`
	Options       []string `json:"options" bson:"options" validate:"required,len=4,dive,required"`
	CorrectOption string   `json:"correctOption" bson:"correctOption" validate:"required"`
}

// Validate checks the structural contract the generator must honor: exactly
// four distinct non-empty options with the correct answer among them.
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question has empty text")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("question %q has %d options, want %d", q.Text, len(q.Options), OptionCount)
	}
	seen := make(map[string]struct{}, OptionCount)
	correctFound := false
	for _, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("question %q has an empty option", q.Text)
		}
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("question %q has duplicate option %q", q.Text, opt)
		}
		seen[opt] = struct{}{}
		if opt == q.CorrectOption {
			correctFound = true
		}
	}
	if !correctFound {
		return fmt.Errorf("question %q: correct option %q is not among the options", q.Text, q.CorrectOption)
	}
	return nil
}

// ValidateQuestions validates a full generated question set. Any violation
// rejects the whole set; there are no partial results.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("generator returned no questions")
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
