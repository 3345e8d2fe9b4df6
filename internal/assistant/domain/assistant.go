package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Action string

const (
	ActionImprove          Action = "improve"
	ActionGrammar          Action = "grammar"
	ActionSuggest          Action = "suggest"
	ActionRephrase         Action = "rephrase"
	ActionGenerateTemplate Action = "generate_template"
	ActionBibliography     Action = "bibliography"
	ActionGenerateQuiz     Action = "generate_quiz"
	ActionGenerateRevision Action = "generate_revision"
)

var (
	ErrInvalidAction       = errors.New("invalid_action")
	ErrTemplateAndSubject  = errors.New("template_and_subject_required")
	ErrSubjectRequired     = errors.New("subject_required")
	ErrTextRequired        = errors.New("text_required")
	ErrCompletionFailed    = errors.New("completion_failed")
	ErrMalformedSuggestion = errors.New("malformed_suggestion")
)

type AssistRequest struct {
	Text     string `json:"text"`
	Action   Action `json:"action"`
	Template string `json:"template"`
	Subject  string `json:"subject"`
}

// AssistResult carries the model's JSON answer untouched.
type AssistResult struct {
	Suggestion json.RawMessage `json:"suggestion"`
	Model      string          `json:"model"`
}

type Service interface {
	Assist(ctx context.Context, accountID snowflake.ID, req AssistRequest) (*AssistResult, error)
}
