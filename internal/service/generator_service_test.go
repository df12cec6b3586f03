package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"docquiz/internal/config"

	"go.uber.org/zap"
)

// geminiStub serves Gemini-shaped responses whose inner text is given.
func geminiStub(t *testing.T, innerText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]string{
							{"text": innerText},
						},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func stubConfig(baseURL string) *config.AIConfig {
	return &config.AIConfig{
		APIKey:        "test-key",
		BaseURL:       baseURL,
		Models:        config.GeminiModels{Generate: "gen-model", Explain: "exp-model"},
		TimeoutMS:     2000,
		QuestionCount: 2,
	}
}

const validPayload = `{"questions":[
	{"text":"2+2?","options":["3","4","5","6"],"correctOption":"4"},
	{"text":"capital of France?","options":["Lyon","Paris","Nice","Lille"],"correctOption":"Paris"}
]}`

func TestGenerateQuestionsParsesValidResponse(t *testing.T) {
	srv := geminiStub(t, validPayload)
	defer srv.Close()

	svc := NewGeneratorService(stubConfig(srv.URL), zap.NewNop())
	questions, err := svc.GenerateQuestions(context.Background(), "some text")
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(questions))
	}
	if questions[0].CorrectOption != "4" {
		t.Fatalf("correct option = %q, want 4", questions[0].CorrectOption)
	}
}

func TestGenerateQuestionsAcceptsFencedJSON(t *testing.T) {
	srv := geminiStub(t, "Here is your quiz:\n```json\n"+validPayload+"\n```")
	defer srv.Close()

	svc := NewGeneratorService(stubConfig(srv.URL), zap.NewNop())
	questions, err := svc.GenerateQuestions(context.Background(), "some text")
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(questions))
	}
}

func TestGenerateQuestionsRejectsMalformedShapes(t *testing.T) {
	cases := map[string]string{
		"missing correctOption": `{"questions":[{"text":"q?","options":["a","b","c","d"]}]}`,
		"too few options":       `{"questions":[{"text":"q?","options":["a","b"],"correctOption":"a"}]}`,
		"correct not in options": `{"questions":[
			{"text":"q?","options":["a","b","c","d"],"correctOption":"e"}]}`,
		"empty question list": `{"questions":[]}`,
		"not json at all":     `I could not generate a quiz for this document.`,
		"unknown fields":      `{"questions":[{"text":"q?","options":["a","b","c","d"],"correctOption":"a","difficulty":9}]}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			srv := geminiStub(t, payload)
			defer srv.Close()

			svc := NewGeneratorService(stubConfig(srv.URL), zap.NewNop())
			if _, err := svc.GenerateQuestions(context.Background(), "text"); !errors.Is(err, ErrGenerationFailed) {
				t.Fatalf("GenerateQuestions = %v, want ErrGenerationFailed", err)
			}
		})
	}
}

func TestGenerateQuestionsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := NewGeneratorService(stubConfig(srv.URL), zap.NewNop())
	if _, err := svc.GenerateQuestions(context.Background(), "text"); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("GenerateQuestions = %v, want ErrGenerationFailed", err)
	}
}

func TestExplainAnswer(t *testing.T) {
	srv := geminiStub(t, "Because 2+2 equals 4.")
	defer srv.Close()

	svc := NewGeneratorService(stubConfig(srv.URL), zap.NewNop())
	got, err := svc.ExplainAnswer(context.Background(), twoQuestions()[0], "5")
	if err != nil {
		t.Fatalf("ExplainAnswer: %v", err)
	}
	if got != "Because 2+2 equals 4." {
		t.Fatalf("explanation = %q", got)
	}
}

func TestMockGeneratorWhenDisabled(t *testing.T) {
	cfg := stubConfig("http://unused")
	cfg.APIKey = ""

	svc := NewGeneratorService(cfg, zap.NewNop())
	questions, err := svc.GenerateQuestions(context.Background(), "alpha beta")
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(questions) != cfg.QuestionCount {
		t.Fatalf("questions = %d, want %d", len(questions), cfg.QuestionCount)
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			t.Fatalf("mock question %d invalid: %v", i, err)
		}
	}
}
