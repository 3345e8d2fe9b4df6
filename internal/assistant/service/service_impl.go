package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/goccy/go-json"
	assistantdomain "github.com/smallbiznis/quill/internal/assistant/domain"
	"github.com/smallbiznis/quill/internal/completion"
	"github.com/smallbiznis/quill/internal/config"
	quotadomain "github.com/smallbiznis/quill/internal/quota/domain"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log         *zap.Logger
	quota       quotadomain.Tracker
	projector   subscriptiondomain.Projector
	completion  completion.Provider
	temperature float64
	maxTokens   int
}

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	Config     config.Config
	Quota      quotadomain.Tracker
	Projector  subscriptiondomain.Projector
	Completion completion.Provider
}

func NewService(p ServiceParam) assistantdomain.Service {
	return &Service{
		log:         p.Log.Named("assistant.service"),
		quota:       p.Quota,
		projector:   p.Projector,
		completion:  p.Completion,
		temperature: p.Config.OpenAI.Temperature,
		maxTokens:   p.Config.OpenAI.MaxTokens,
	}
}

func (s *Service) Assist(ctx context.Context, accountID snowflake.ID, req assistantdomain.AssistRequest) (*assistantdomain.AssistResult, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	if err := s.quota.Require(ctx, accountID, quotadomain.ResourceAIRequest); err != nil {
		return nil, err
	}

	tier := s.projector.CurrentTier(ctx, accountID)
	log := s.log.With(
		zap.String("account_id", accountID.String()),
		zap.String("action", string(req.Action)),
		zap.String("model", tier.Model),
	)

	resp, err := s.completion.Complete(ctx, completion.Request{
		Model:       tier.Model,
		System:      systemPrompt,
		Prompt:      prompt,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		log.Warn("completion failed", zap.Error(err))
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", assistantdomain.ErrCompletionFailed, err)
	}

	s.quota.RecordConsumption(ctx, accountID)

	suggestion := extractJSON(resp.Content)
	if !json.Valid([]byte(suggestion)) {
		log.Warn("completion returned non-JSON content", zap.Int("length", len(resp.Content)))
		return nil, assistantdomain.ErrMalformedSuggestion
	}

	return &assistantdomain.AssistResult{
		Suggestion: []byte(suggestion),
		Model:      resp.Model,
	}, nil
}
