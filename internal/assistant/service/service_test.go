package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/mock/gomock"
	assistantdomain "github.com/smallbiznis/quill/internal/assistant/domain"
	"github.com/smallbiznis/quill/internal/completion"
	completionmocks "github.com/smallbiznis/quill/internal/completion/mocks"
	"github.com/smallbiznis/quill/internal/config"
	quotadomain "github.com/smallbiznis/quill/internal/quota/domain"
	quotamocks "github.com/smallbiznis/quill/internal/quota/domain/mocks"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	subscriptionmocks "github.com/smallbiznis/quill/internal/subscription/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const account = snowflake.ID(9)

type mocksSet struct {
	quota      *quotamocks.MockTracker
	projector  *subscriptionmocks.MockProjector
	completion *completionmocks.MockProvider
}

func setup(t *testing.T) (assistantdomain.Service, mocksSet) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mocksSet{
		quota:      quotamocks.NewMockTracker(ctrl),
		projector:  subscriptionmocks.NewMockProjector(ctrl),
		completion: completionmocks.NewMockProvider(ctrl),
	}
	svc := NewService(ServiceParam{
		Log:        zap.NewNop(),
		Config:     config.Config{OpenAI: config.OpenAIConfig{Temperature: 0.7, MaxTokens: 3000}},
		Quota:      m.quota,
		Projector:  m.projector,
		Completion: m.completion,
	})
	return svc, m
}

func TestAssistUsesTierModelAndRecords(t *testing.T) {
	svc, m := setup(t)
	ctx := context.Background()
	premium := subscriptiondomain.TierFor(&subscriptiondomain.Projection{Status: subscriptiondomain.StatusActive}, config.DefaultPlanConfig())

	gomock.InOrder(
		m.quota.EXPECT().Require(ctx, account, quotadomain.ResourceAIRequest).Return(nil),
		m.projector.EXPECT().CurrentTier(ctx, account).Return(premium),
		m.completion.EXPECT().Complete(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req completion.Request) (*completion.Response, error) {
			assert.Equal(t, "gpt-4", req.Model)
			assert.Equal(t, 3000, req.MaxTokens)
			assert.Contains(t, req.Prompt, `"my draft"`)
			return &completion.Response{Content: "```json\n{\"improvedText\":\"better\"}\n```", Model: "gpt-4"}, nil
		}),
		m.quota.EXPECT().RecordConsumption(ctx, account),
	)

	res, err := svc.Assist(ctx, account, assistantdomain.AssistRequest{Action: assistantdomain.ActionImprove, Text: "my draft"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"improvedText":"better"}`, string(res.Suggestion))
	assert.Equal(t, "gpt-4", res.Model)
}

func TestAssistDeniedAtLimit(t *testing.T) {
	svc, m := setup(t)
	ctx := context.Background()
	m.quota.EXPECT().Require(ctx, account, quotadomain.ResourceAIRequest).Return(&quotadomain.LimitError{
		Resource: quotadomain.ResourceAIRequest,
		Tier:     subscriptiondomain.TierRestricted,
		Limit:    20,
	})

	_, err := svc.Assist(ctx, account, assistantdomain.AssistRequest{Action: assistantdomain.ActionGrammar, Text: "x"})
	assert.ErrorIs(t, err, quotadomain.ErrLimitReached)
}

func TestAssistCompletionFailureRecordsNothing(t *testing.T) {
	svc, m := setup(t)
	ctx := context.Background()
	m.quota.EXPECT().Require(ctx, account, quotadomain.ResourceAIRequest).Return(nil)
	m.projector.EXPECT().CurrentTier(ctx, account).Return(subscriptiondomain.RestrictedTier(config.DefaultPlanConfig()))
	m.completion.EXPECT().Complete(ctx, gomock.Any()).Return(nil, errors.New("upstream down"))

	_, err := svc.Assist(ctx, account, assistantdomain.AssistRequest{Action: assistantdomain.ActionSuggest, Text: "x"})
	assert.ErrorIs(t, err, assistantdomain.ErrCompletionFailed)
}

func TestAssistMalformedSuggestion(t *testing.T) {
	svc, m := setup(t)
	ctx := context.Background()
	m.quota.EXPECT().Require(ctx, account, quotadomain.ResourceAIRequest).Return(nil)
	m.projector.EXPECT().CurrentTier(ctx, account).Return(subscriptiondomain.RestrictedTier(config.DefaultPlanConfig()))
	m.completion.EXPECT().Complete(ctx, gomock.Any()).Return(&completion.Response{Content: "Sure! Here you go."}, nil)
	m.quota.EXPECT().RecordConsumption(ctx, account)

	_, err := svc.Assist(ctx, account, assistantdomain.AssistRequest{Action: assistantdomain.ActionRephrase, Text: "x"})
	assert.ErrorIs(t, err, assistantdomain.ErrMalformedSuggestion)
}

func TestAssistValidatesBeforeQuota(t *testing.T) {
	tests := []struct {
		name string
		req  assistantdomain.AssistRequest
		want error
	}{
		{"unknown action", assistantdomain.AssistRequest{Action: "summarize", Text: "x"}, assistantdomain.ErrInvalidAction},
		{"template without subject", assistantdomain.AssistRequest{Action: assistantdomain.ActionGenerateTemplate, Template: "thesis"}, assistantdomain.ErrTemplateAndSubject},
		{"bibliography without subject", assistantdomain.AssistRequest{Action: assistantdomain.ActionBibliography}, assistantdomain.ErrSubjectRequired},
		{"quiz without text", assistantdomain.AssistRequest{Action: assistantdomain.ActionGenerateQuiz}, assistantdomain.ErrTextRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setup(t)
			_, err := svc.Assist(context.Background(), account, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `[1]`, extractJSON("```\n[1]\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(`  {"a":1} `))
}

func TestBuildPromptIncludesSubject(t *testing.T) {
	prompt, err := buildPrompt(assistantdomain.AssistRequest{
		Action:   assistantdomain.ActionGenerateTemplate,
		Template: "memoir",
		Subject:  "urban gardens",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "'memoir'")
	assert.Contains(t, prompt, `"urban gardens"`)
}
