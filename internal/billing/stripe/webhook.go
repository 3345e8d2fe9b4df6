package stripe

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	billingdomain "github.com/smallbiznis/quill/internal/billing/domain"
)

// DefaultTolerance bounds the age of a signed webhook timestamp.
const DefaultTolerance = 5 * time.Minute

const signatureHeader = "Stripe-Signature"

func (c *Client) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	if c.webhookSecret == "" {
		return billingdomain.ErrNotConfigured
	}
	sigHeader := strings.TrimSpace(headers.Get(signatureHeader))
	if sigHeader == "" {
		return billingdomain.ErrInvalidSignature
	}

	ts, signatures, err := parseStripeSignature(sigHeader)
	if err != nil {
		return billingdomain.ErrInvalidSignature
	}
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return billingdomain.ErrInvalidSignature
	}
	if c.tolerance > 0 {
		age := c.clock.Now().Sub(time.Unix(unix, 0))
		if age > c.tolerance || age < -c.tolerance {
			return billingdomain.ErrInvalidSignature
		}
	}

	expected := []byte(sign(c.webhookSecret, ts, payload))
	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), expected) {
			return nil
		}
	}
	return billingdomain.ErrInvalidSignature
}

func (c *Client) Parse(ctx context.Context, payload []byte) (*billingdomain.WebhookEvent, error) {
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, billingdomain.ErrInvalidPayload
	}
	if strings.TrimSpace(event.ID) == "" || strings.TrimSpace(event.Type) == "" {
		return nil, billingdomain.ErrInvalidEvent
	}

	out := &billingdomain.WebhookEvent{
		ID:        event.ID,
		Type:      strings.TrimSpace(event.Type),
		CreatedAt: timestamp(event.Created),
	}

	switch out.Type {
	case billingdomain.WebhookCheckoutCompleted:
		var session stripeCheckoutSession
		if err := json.Unmarshal(event.Data.Object, &session); err != nil {
			return nil, billingdomain.ErrInvalidPayload
		}
		if session.Mode != "" && session.Mode != "subscription" {
			return out, nil
		}
		out.Checkout = &billingdomain.CompletedCheckout{
			SessionID:      session.ID,
			CustomerID:     string(session.Customer),
			SubscriptionID: string(session.Subscription),
			Metadata:       metadataStrings(session.Metadata),
		}
	case billingdomain.WebhookSubscriptionUpdated,
		billingdomain.WebhookSubscriptionDeleted,
		billingdomain.WebhookTrialWillEnd:
		var sub stripeSubscription
		if err := json.Unmarshal(event.Data.Object, &sub); err != nil {
			return nil, billingdomain.ErrInvalidPayload
		}
		if strings.TrimSpace(sub.ID) == "" {
			return nil, billingdomain.ErrInvalidEvent
		}
		out.Subscription = sub.toDomain()
	}
	return out, nil
}

type stripeEvent struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Created int64           `json:"created"`
	Data    stripeEventData `json:"data"`
}

type stripeEventData struct {
	Object json.RawMessage `json:"object"`
}

type stripeCheckoutSession struct {
	ID           string         `json:"id"`
	Mode         string         `json:"mode"`
	Customer     expandableID   `json:"customer"`
	Subscription expandableID   `json:"subscription"`
	Metadata     map[string]any `json:"metadata"`
}

type stripeSubscription struct {
	ID                 string         `json:"id"`
	Customer           expandableID   `json:"customer"`
	Status             string         `json:"status"`
	CurrentPeriodStart int64          `json:"current_period_start"`
	CurrentPeriodEnd   int64          `json:"current_period_end"`
	TrialEnd           int64          `json:"trial_end"`
	Metadata           map[string]any `json:"metadata"`
	Items              struct {
		Data []struct {
			CurrentPeriodStart int64 `json:"current_period_start"`
			CurrentPeriodEnd   int64 `json:"current_period_end"`
		} `json:"data"`
	} `json:"items"`
}

// Newer API versions report billing periods on the subscription items only.
func (s stripeSubscription) periods() (int64, int64) {
	start, end := s.CurrentPeriodStart, s.CurrentPeriodEnd
	if (start == 0 || end == 0) && len(s.Items.Data) > 0 {
		start, end = s.Items.Data[0].CurrentPeriodStart, s.Items.Data[0].CurrentPeriodEnd
	}
	return start, end
}

func (s stripeSubscription) toDomain() *billingdomain.ProcessorSubscription {
	start, end := s.periods()
	out := &billingdomain.ProcessorSubscription{
		ID:         s.ID,
		CustomerID: string(s.Customer),
		Status:     strings.TrimSpace(s.Status),
		Metadata:   metadataStrings(s.Metadata),
	}
	if start > 0 {
		out.PeriodStart = time.Unix(start, 0).UTC()
	}
	if end > 0 {
		out.PeriodEnd = time.Unix(end, 0).UTC()
	}
	if s.TrialEnd > 0 {
		trialEnd := time.Unix(s.TrialEnd, 0).UTC()
		out.TrialEnd = &trialEnd
	}
	return out
}

// expandableID accepts either an object id or the expanded object.
type expandableID string

func (e *expandableID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = ""
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*e = expandableID(strings.TrimSpace(id))
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("expandable id: %w", err)
	}
	*e = expandableID(strings.TrimSpace(obj.ID))
	return nil
}

func sign(secret, ts string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(ts))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func parseStripeSignature(header string) (string, []string, error) {
	var ts string
	signatures := []string{}
	for _, part := range strings.Split(header, ",") {
		piece := strings.TrimSpace(part)
		if piece == "" {
			continue
		}
		key, value, ok := strings.Cut(piece, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "t":
			ts = strings.TrimSpace(value)
		case "v1":
			signatures = append(signatures, strings.TrimSpace(value))
		}
	}
	if ts == "" || len(signatures) == 0 {
		return "", nil, errors.New("invalid_signature")
	}
	return ts, signatures, nil
}

func timestamp(unix int64) time.Time {
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}

func metadataStrings(metadata map[string]any) map[string]string {
	out := make(map[string]string, len(metadata))
	for key := range metadata {
		if value := readMetadataValue(metadata, key); value != "" {
			out[key] = value
		}
	}
	return out
}

func readMetadataValue(metadata map[string]any, key string) string {
	value, ok := metadata[key]
	if !ok {
		return ""
	}
	switch cast := value.(type) {
	case string:
		return strings.TrimSpace(cast)
	case float64:
		if cast == 0 {
			return ""
		}
		return strconv.FormatInt(int64(cast), 10)
	case json.Number:
		return cast.String()
	}
	return ""
}
