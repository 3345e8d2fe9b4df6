package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	assistantdomain "github.com/smallbiznis/quill/internal/assistant/domain"
	"github.com/smallbiznis/quill/internal/auth"
	billingdomain "github.com/smallbiznis/quill/internal/billing/domain"
	"github.com/smallbiznis/quill/internal/billing/stripe"
	"github.com/smallbiznis/quill/internal/completion"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	quotadomain "github.com/smallbiznis/quill/internal/quota/domain"
	sharedomain "github.com/smallbiznis/quill/internal/share/domain"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		errType  string
		errField string
	}{
		{name: "limit error", err: &quotadomain.LimitError{Resource: quotadomain.ResourceAIRequest, Tier: subscriptiondomain.TierRestricted, Limit: 20}, status: http.StatusForbidden, errType: "limit_reached"},
		{name: "bare limit sentinel", err: quotadomain.ErrLimitReached, status: http.StatusForbidden, errType: "limit_reached"},
		{name: "invalid token", err: auth.ErrInvalidToken, status: http.StatusUnauthorized, errType: "unauthorized"},
		{name: "bad credentials", err: accountdomain.ErrInvalidCredentials, status: http.StatusUnauthorized, errType: "unauthorized"},
		{name: "email taken", err: accountdomain.ErrEmailTaken, status: http.StatusConflict, errType: "conflict"},
		{name: "short password", err: accountdomain.ErrPasswordTooShort, status: http.StatusBadRequest, errType: "validation_error", errField: "password"},
		{name: "document type", err: documentdomain.ErrInvalidType, status: http.StatusBadRequest, errType: "validation_error", errField: "document_type"},
		{name: "citation style", err: documentdomain.ErrCitationStyleRequired, status: http.StatusBadRequest, errType: "validation_error", errField: "citation_style"},
		{name: "document not found", err: fmt.Errorf("load: %w", documentdomain.ErrNotFound), status: http.StatusNotFound, errType: "not_found"},
		{name: "record not found", err: gorm.ErrRecordNotFound, status: http.StatusNotFound, errType: "not_found"},
		{name: "read only link", err: sharedomain.ErrReadOnly, status: http.StatusForbidden, errType: "forbidden"},
		{name: "subscription not found", err: billingdomain.ErrSubscriptionNotFound, status: http.StatusNotFound, errType: "not_found"},
		{name: "webhook signature", err: billingdomain.ErrInvalidSignature, status: http.StatusBadRequest, errType: "validation_error", errField: "request"},
		{name: "billing not configured", err: billingdomain.ErrNotConfigured, status: http.StatusServiceUnavailable, errType: "service_unavailable"},
		{name: "stripe rejected call", err: &stripe.APIError{StatusCode: 400, Message: "No such price"}, status: http.StatusBadGateway, errType: "upstream_error"},
		{name: "completion failed", err: fmt.Errorf("%w: %v", assistantdomain.ErrCompletionFailed, completion.ErrUnavailable), status: http.StatusBadGateway, errType: "upstream_error"},
		{name: "completion not configured", err: completion.ErrNotConfigured, status: http.StatusServiceUnavailable, errType: "service_unavailable"},
		{name: "rate limited", err: ErrRateLimited, status: http.StatusTooManyRequests, errType: "rate_limited"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, errType: "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.errType, payload.Type)
			if tc.errField != "" {
				if assert.Len(t, payload.Errors, 1) {
					assert.Equal(t, tc.errField, payload.Errors[0].Field)
				}
			}
		})
	}
}

func TestClassifyErrorForLog(t *testing.T) {
	errType, code := classifyErrorForLog(&quotadomain.LimitError{Resource: quotadomain.ResourceDocument, Limit: 5})
	assert.Equal(t, "limit_reached", errType)
	assert.Contains(t, code, "document limit of 5")

	errType, code = classifyErrorForLog(newValidationError("item_id", "required", "item_id is required"))
	assert.Equal(t, "validation_error", errType)
	assert.Equal(t, "required", code)

	errType, code = classifyErrorForLog(nil)
	assert.Empty(t, errType)
	assert.Empty(t, code)
}
