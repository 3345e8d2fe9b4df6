package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	assistantdomain "github.com/smallbiznis/quill/internal/assistant/domain"
	"github.com/smallbiznis/quill/internal/auth"
	billingdomain "github.com/smallbiznis/quill/internal/billing/domain"
	"github.com/smallbiznis/quill/internal/billing/stripe"
	"github.com/smallbiznis/quill/internal/completion"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	folderdomain "github.com/smallbiznis/quill/internal/folder/domain"
	quotadomain "github.com/smallbiznis/quill/internal/quota/domain"
	sharedomain "github.com/smallbiznis/quill/internal/share/domain"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// classifyErrorForLog feeds the request logger with the same type the
// client sees plus the raw error code.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	_, payload := mapError(err)
	code := err.Error()
	if vErr := asValidationErrors(err); vErr != nil && len(vErr.Errors) > 0 {
		code = vErr.Errors[0].Code
	}
	return payload.Type, code
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	var limitErr *quotadomain.LimitError
	var stripeErr *stripe.APIError

	switch {
	case errors.As(err, &limitErr):
		return http.StatusForbidden, errorPayload{
			Type:    "limit_reached",
			Message: limitErr.Error(),
		}
	case errors.Is(err, quotadomain.ErrLimitReached):
		return http.StatusForbidden, errorPayload{
			Type:    "limit_reached",
			Message: "monthly limit reached",
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, accountdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, sharedomain.ErrReadOnly):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, accountdomain.ErrEmailTaken),
		errors.Is(err, folderdomain.ErrFolderNotEmpty),
		errors.Is(err, folderdomain.ErrFolderHasChildren):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case errors.Is(err, billingdomain.ErrNoCustomer):
		return http.StatusBadRequest, errorPayload{
			Type:    "no_billing_customer",
			Message: "no billing customer on file",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, billingdomain.ErrNotConfigured),
		errors.Is(err, billingdomain.ErrProcessorUnavailable),
		errors.Is(err, completion.ErrNotConfigured):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	case errors.Is(err, assistantdomain.ErrCompletionFailed),
		errors.Is(err, assistantdomain.ErrMalformedSuggestion),
		errors.Is(err, completion.ErrUnavailable),
		errors.As(err, &stripeErr):
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_error",
			Message: "upstream provider failed",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, accountdomain.ErrInvalidEmail),
		errors.Is(err, accountdomain.ErrPasswordTooShort),
		errors.Is(err, documentdomain.ErrInvalidTitle),
		errors.Is(err, documentdomain.ErrInvalidType),
		errors.Is(err, documentdomain.ErrCitationStyleRequired),
		errors.Is(err, documentdomain.ErrInvalidCitationStyle),
		errors.Is(err, folderdomain.ErrInvalidName),
		errors.Is(err, folderdomain.ErrInvalidItemType),
		errors.Is(err, folderdomain.ErrMoveIntoSelf),
		errors.Is(err, sharedomain.ErrInvalidPermission),
		errors.Is(err, sharedomain.ErrInvalidExpiry),
		errors.Is(err, assistantdomain.ErrInvalidAction),
		errors.Is(err, assistantdomain.ErrTemplateAndSubject),
		errors.Is(err, assistantdomain.ErrSubjectRequired),
		errors.Is(err, assistantdomain.ErrTextRequired),
		errors.Is(err, billingdomain.ErrInvalidSignature),
		errors.Is(err, billingdomain.ErrInvalidPayload),
		errors.Is(err, billingdomain.ErrInvalidEvent):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, accountdomain.ErrAccountNotFound),
		errors.Is(err, documentdomain.ErrNotFound),
		errors.Is(err, folderdomain.ErrNotFound),
		errors.Is(err, folderdomain.ErrParentNotFound),
		errors.Is(err, folderdomain.ErrTargetNotFound),
		errors.Is(err, folderdomain.ErrItemNotFound),
		errors.Is(err, sharedomain.ErrNotFound),
		errors.Is(err, sharedomain.ErrDocumentNotFound),
		errors.Is(err, billingdomain.ErrSubscriptionNotFound),
		errors.Is(err, subscriptiondomain.ErrProjectionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, accountdomain.ErrEmailTaken):
		return "email already registered"
	case errors.Is(err, folderdomain.ErrFolderNotEmpty):
		return "folder still contains documents"
	case errors.Is(err, folderdomain.ErrFolderHasChildren):
		return "folder still contains sub-folders"
	default:
		return "conflict"
	}
}

func validationErrorCode(err error) string {
	for _, target := range []error{
		ErrInvalidRequest,
		billingdomain.ErrInvalidSignature,
		billingdomain.ErrInvalidPayload,
		billingdomain.ErrInvalidEvent,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request", "invalid_signature", "invalid_payload", "invalid_event":
		return "request"
	case "password_too_short":
		return "password"
	case "citation_style_required":
		return "citation_style"
	case "template_and_subject_required":
		return "template"
	case "subject_required":
		return "subject"
	case "text_required":
		return "text"
	case "folder_move_into_self":
		return "target_folder_id"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "invalid_signature":
		return "webhook signature verification failed"
	case "password_too_short":
		return "password must be at least 6 characters"
	case "citation_style_required":
		return "academic documents require a citation style"
	case "template_and_subject_required":
		return "template and subject are required"
	case "subject_required":
		return "subject is required"
	case "text_required":
		return "text is required"
	case "folder_move_into_self":
		return "a folder cannot be moved into itself or its descendants"
	default:
		return "invalid value"
	}
}
