package model

import "testing"

func validQuestion() Question {
	return Question{
		Text:          "2+2?",
		Options:       []string{"3", "4", "5", "6"},
		CorrectOption: "4",
	}
}

func TestQuestionValidate(t *testing.T) {
	q := validQuestion()
	if err := q.Validate(); err != nil {
		t.Fatalf("valid question rejected: %v", err)
	}

	q = validQuestion()
	q.Options = []string{"3", "4"}
	if err := q.Validate(); err == nil {
		t.Fatal("expected error for 2 options")
	}

	q = validQuestion()
	q.Options = []string{"3", "4", "4", "6"}
	if err := q.Validate(); err == nil {
		t.Fatal("expected error for duplicate options")
	}

	q = validQuestion()
	q.CorrectOption = "7"
	if err := q.Validate(); err == nil {
		t.Fatal("expected error for correct option not among options")
	}

	q = validQuestion()
	q.CorrectOption = ""
	if err := q.Validate(); err == nil {
		t.Fatal("expected error for missing correct option")
	}

	q = validQuestion()
	q.Text = ""
	if err := q.Validate(); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestValidateQuestions(t *testing.T) {
	if err := ValidateQuestions(nil); err == nil {
		t.Fatal("expected error for empty question set")
	}

	bad := validQuestion()
	bad.Options = []string{"a", "b", "c"}
	if err := ValidateQuestions([]Question{validQuestion(), bad}); err == nil {
		t.Fatal("expected error when any question in the set is malformed")
	}

	if err := ValidateQuestions([]Question{validQuestion()}); err != nil {
		t.Fatalf("valid set rejected: %v", err)
	}
}

func TestSessionHelpers(t *testing.T) {
	s := NewQuizSession("id", "doc.pdf", []byte("x"))
	s.Questions = []Question{validQuestion(), validQuestion()}

	if s.Complete() {
		t.Fatal("session with no answers must not be complete")
	}
	s.SelectedAnswers[0] = "4"
	if s.Complete() {
		t.Fatal("session with one of two answers must not be complete")
	}
	s.SelectedAnswers[1] = "3"
	if !s.Complete() {
		t.Fatal("session with every index answered must be complete")
	}

	if got := s.ClampIndex(-5); got != 0 {
		t.Fatalf("ClampIndex(-5) = %d, want 0", got)
	}
	if got := s.ClampIndex(10); got != 1 {
		t.Fatalf("ClampIndex(10) = %d, want 1", got)
	}
	if got := s.ClampIndex(1); got != 1 {
		t.Fatalf("ClampIndex(1) = %d, want 1", got)
	}
}
