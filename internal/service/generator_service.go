package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"docquiz/internal/config"
	"docquiz/internal/model"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// QuestionGenerator produces quiz questions from document text and
// explanations for wrong answers.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, text string) ([]model.Question, error)
	ExplainAnswer(ctx context.Context, question model.Question, userAnswer string) (string, error)
}

// GeneratorService calls the Gemini API to generate quiz content.
type GeneratorService struct {
	config   *config.AIConfig
	client   *http.Client
	validate *validator.Validate
	logger   *zap.Logger
}

// NewGeneratorService creates a new generator service
func NewGeneratorService(cfg *config.AIConfig, logger *zap.Logger) *GeneratorService {
	return &GeneratorService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		validate: validator.New(),
		logger:   logger,
	}
}

// GenerateQuestions turns document text into a validated question set.
// Provider errors and structurally malformed responses both surface as
// ErrGenerationFailed; callers never see a partial question set.
func (s *GeneratorService) GenerateQuestions(ctx context.Context, text string) ([]model.Question, error) {
	if !s.config.IsEnabled() {
		return s.mockQuestions(text), nil
	}

	prompt := s.buildGenerationPrompt(text)
	response, err := s.callGemini(ctx, s.config.Models.Generate, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	questions, err := s.parseQuestions(response)
	if err != nil {
		s.logger.Warn("generator returned malformed questions", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return questions, nil
}

// ExplainAnswer asks the model why the correct option is right given what
// the user picked. Failures are non-fatal to the quiz; the caller just
// leaves the explanation unavailable.
func (s *GeneratorService) ExplainAnswer(ctx context.Context, question model.Question, userAnswer string) (string, error) {
	if !s.config.IsEnabled() {
		return s.mockExplanation(question, userAnswer), nil
	}

	prompt := s.buildExplanationPrompt(question, userAnswer)
	response, err := s.callGemini(ctx, s.config.Models.Explain, prompt, false)
	if err != nil {
		return "", err
	}

	explanation := strings.TrimSpace(response)
	if explanation == "" {
		return "", fmt.Errorf("empty explanation from Gemini")
	}
	return explanation, nil
}

// parseQuestions decodes and structurally validates the generator output.
func (s *GeneratorService) parseQuestions(response string) ([]model.Question, error) {
	payload := extractJSONFromText(response)

	var wrapper struct {
		Questions []model.Question `json:"questions" validate:"required,min=1,dive"`
	}
	decoder := json.NewDecoder(strings.NewReader(payload))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&wrapper); err != nil {
		return nil, fmt.Errorf("response is not the expected question shape: %w", err)
	}
	if err := s.validate.Struct(&wrapper); err != nil {
		return nil, fmt.Errorf("response failed validation: %w", err)
	}
	if err := model.ValidateQuestions(wrapper.Questions); err != nil {
		return nil, err
	}
	return wrapper.Questions, nil
}

// callGemini makes a request to the Gemini API
func (s *GeneratorService) callGemini(ctx context.Context, modelName, prompt string, jsonResponse bool) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}
	if jsonResponse {
		reqBody["generationConfig"] = map[string]interface{}{
			"responseMimeType": "application/json",
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// Prompt builders
func (s *GeneratorService) buildGenerationPrompt(text string) string {
	return fmt.Sprintf(`You are a quiz generator. Based on the following text, generate %d multiple choice questions. Return ONLY valid JSON matching this schema:
{
  "questions": [
    {
      "text": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctOption": "Option B"
    }
  ]
}

Rules:
1. Each question must have exactly 4 distinct options with exactly one correct answer.
2. "correctOption" must be copied verbatim from "options".
3. Make wrong options plausible; avoid joke answers.
4. Cover different parts of the text rather than one section.

Text:
%s`, s.config.QuestionCount, text)
}

func (s *GeneratorService) buildExplanationPrompt(question model.Question, userAnswer string) string {
	return fmt.Sprintf(`A quiz taker answered a multiple choice question incorrectly.

Question: %s
Options: %s
Correct answer: %s
Their answer: %s

In 2-3 sentences, explain why the correct answer is right and, briefly, why their choice is not. Respond with plain text only.`,
		question.Text, strings.Join(question.Options, "; "), question.CorrectOption, userAnswer)
}

// extractJSONFromText strips markdown fences or surrounding prose the model
// sometimes wraps around its JSON payload.
func extractJSONFromText(text string) string {
	codeBlockPattern := regexp.MustCompile("```(?:json)?\\s*((?s)\\{.*?\\})\\s*```")
	if matches := codeBlockPattern.FindStringSubmatch(text); len(matches) > 1 {
		return matches[1]
	}

	jsonPattern := regexp.MustCompile(`(?s)\{.*"questions".*\}`)
	if match := jsonPattern.FindString(text); match != "" {
		return match
	}
	return text
}

// Mock implementations, used when GEMINI_API_KEY is unset so the service
// stays usable in local development.
func (s *GeneratorService) mockQuestions(text string) []model.Question {
	words := strings.Fields(text)
	subject := "the document"
	if len(words) > 0 {
		subject = words[0]
	}

	questions := make([]model.Question, 0, s.config.QuestionCount)
	for i := 0; i < s.config.QuestionCount; i++ {
		questions = append(questions, model.Question{
			Text: fmt.Sprintf("Mock question %d about %s?", i+1, subject),
			Options: []string{
				fmt.Sprintf("Answer %d-A", i+1),
				fmt.Sprintf("Answer %d-B", i+1),
				fmt.Sprintf("Answer %d-C", i+1),
				fmt.Sprintf("Answer %d-D", i+1),
			},
			CorrectOption: fmt.Sprintf("Answer %d-A", i+1),
		})
	}
	return questions
}

func (s *GeneratorService) mockExplanation(question model.Question, _ string) string {
	return fmt.Sprintf("Mock explanation: the correct answer is %q. Enable Gemini for real explanations.", question.CorrectOption)
}
