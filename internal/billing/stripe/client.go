package stripe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	billingdomain "github.com/smallbiznis/quill/internal/billing/domain"
	"github.com/smallbiznis/quill/internal/clock"
	"github.com/smallbiznis/quill/internal/config"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	providerName    = "stripe"
	maxResponseBody = 1 << 20
	requestTimeout  = 20 * time.Second
)

// APIError is a non-2xx answer from the Stripe API.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stripe: %d %s (%s)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("stripe: %d %s", e.StatusCode, e.Message)
}

// Retryable reports whether the failure is on Stripe's side.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type Client struct {
	secretKey     string
	webhookSecret string
	base          string
	http          *http.Client
	cb            *gobreaker.CircuitBreaker[[]byte]
	clock         clock.Clock
	tolerance     time.Duration
	log           *zap.Logger
}

func NewClient(cfg config.StripeConfig, clk clock.Clock, log *zap.Logger) *Client {
	log = log.Named("billing.stripe")
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        providerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.Retryable()
			}
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		secretKey:     strings.TrimSpace(cfg.SecretKey),
		webhookSecret: strings.TrimSpace(cfg.WebhookSecret),
		base:          strings.TrimRight(cfg.APIBase, "/"),
		http:          &http.Client{Timeout: requestTimeout},
		cb:            cb,
		clock:         clk,
		tolerance:     DefaultTolerance,
		log:           log,
	}
}

func (c *Client) CreateCustomer(ctx context.Context, params billingdomain.CustomerParams) (string, error) {
	form := url.Values{}
	form.Set("email", params.Email)
	if params.Name != "" {
		form.Set("name", params.Name)
	}
	form.Set("metadata[user_id]", params.AccountID)

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/customers", form, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", billingdomain.ErrInvalidPayload
	}
	return out.ID, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params billingdomain.CheckoutParams) (*billingdomain.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("customer", params.CustomerID)
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("metadata[user_id]", params.AccountID)
	form.Set("subscription_data[metadata][user_id]", params.AccountID)
	if params.TrialDays > 0 {
		form.Set("subscription_data[trial_period_days]", strconv.Itoa(params.TrialDays))
	}

	var out billingdomain.CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, billingdomain.ErrInvalidPayload
	}
	return &out, nil
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*billingdomain.ProcessorSubscription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, billingdomain.ErrSubscriptionNotFound
	}

	var out stripeSubscription
	err := c.do(ctx, http.MethodGet, "/v1/subscriptions/"+url.PathEscape(id), nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, billingdomain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) CancelAtPeriodEnd(ctx context.Context, id string) error {
	form := url.Values{}
	form.Set("cancel_at_period_end", "true")

	err := c.do(ctx, http.MethodPost, "/v1/subscriptions/"+url.PathEscape(strings.TrimSpace(id)), form, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return billingdomain.ErrSubscriptionNotFound
	}
	return err
}

func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (*billingdomain.PortalSession, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("return_url", returnURL)

	var out billingdomain.PortalSession
	if err := c.do(ctx, http.MethodPost, "/v1/billing_portal/sessions", form, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, billingdomain.ErrInvalidPayload
	}
	return &out, nil
}

// do sends one API call through the breaker and decodes the body into out
// when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	if c.secretKey == "" {
		return billingdomain.ErrNotConfigured
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.send(ctx, method, path, form)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", billingdomain.ErrProcessorUnavailable, err)
	}
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode stripe response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	var reader io.Reader
	if form != nil {
		reader = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if method == http.MethodPost {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read stripe response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp.StatusCode, body)
		c.log.Warn("stripe request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", apiErr.StatusCode),
			zap.String("code", apiErr.Code),
		)
		return nil, apiErr
	}
	return body, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var parsed struct {
		Error struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Type = parsed.Error.Type
		apiErr.Code = parsed.Error.Code
		apiErr.Message = parsed.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
