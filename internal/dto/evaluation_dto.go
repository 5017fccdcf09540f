package dto

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Defaults applied to question items when the caller omits a field.
const (
	DefaultMaxScore  = 10
	DefaultModel     = "gpt-3.5-turbo"
	DefaultMaxTokens = 512
)

// ErrQuestionNotObject indicates a question payload was not a JSON object.
var ErrQuestionNotObject = errors.New("question payload must be a JSON object")

// EvaluationRequest is the body accepted by POST /evaluate.
type EvaluationRequest struct {
	Questions map[string]QuestionPayload `json:"questions"`
}

// QuestionPayload holds one decoded question, or the reason it could not be decoded.
// Decoding failures stay attached to their own question id.
type QuestionPayload struct {
	Item QuestionItem
	Err  error
}

// UnmarshalJSON never fails; errors are kept on the payload.
func (p *QuestionPayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*p = QuestionPayload{Item: DefaultQuestionItem(), Err: ErrQuestionNotObject}
		return nil
	}

	var item QuestionItem
	if err := json.Unmarshal(trimmed, &item); err != nil {
		*p = QuestionPayload{Item: DefaultQuestionItem(), Err: err}
		return nil
	}

	*p = QuestionPayload{Item: item}
	return nil
}

// QuestionItem describes a single answer to grade.
type QuestionItem struct {
	Answer           string           `json:"answer"`
	QuestionDetails  QuestionDetails  `json:"questionDetails"`
	EvaluationConfig EvaluationConfig `json:"evaluationConfig"`
	Model            string           `json:"model"`
	MaxTokens        int              `json:"max_tokens"`
}

// QuestionDetails carries the reference material for a question.
type QuestionDetails struct {
	ModelAnswer  string `json:"modelAnswer"`
	QuestionText string `json:"questionText"`
}

// EvaluationConfig is the rubric applied to a question.
type EvaluationConfig struct {
	MaxScore     int    `json:"max_score"`
	Criteria     string `json:"criteria"`
	Instructions string `json:"instructions"`
}

// DefaultQuestionItem returns an item with every documented default applied.
func DefaultQuestionItem() QuestionItem {
	return QuestionItem{
		EvaluationConfig: EvaluationConfig{MaxScore: DefaultMaxScore},
		Model:            DefaultModel,
		MaxTokens:        DefaultMaxTokens,
	}
}

// UnmarshalJSON decodes on top of DefaultQuestionItem so absent keys keep their defaults.
func (q *QuestionItem) UnmarshalJSON(data []byte) error {
	type plain QuestionItem
	decoded := plain(DefaultQuestionItem())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*q = QuestionItem(decoded)
	return nil
}

// TokenUsage mirrors the provider token counters for one question.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// EvaluationResult is the aggregated response of POST /evaluate.
type EvaluationResult struct {
	QuestionScore    map[string]int        `json:"questionscore"`
	QuestionFeedback map[string]string     `json:"questionfeedback"`
	Usage            map[string]TokenUsage `json:"usage"`
	Score            int                   `json:"score"`
}

// NewEvaluationResult returns an empty result with non-nil maps.
func NewEvaluationResult(capacity int) EvaluationResult {
	return EvaluationResult{
		QuestionScore:    make(map[string]int, capacity),
		QuestionFeedback: make(map[string]string, capacity),
		Usage:            make(map[string]TokenUsage, capacity),
	}
}
