package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	billingdomain "github.com/smallbiznis/quill/internal/billing/domain"
	"github.com/smallbiznis/quill/internal/clock"
	"github.com/smallbiznis/quill/internal/config"
	"go.uber.org/zap"
)

var webhookNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newWebhookClient(secret string) *Client {
	return NewClient(config.StripeConfig{
		SecretKey:     "sk_test",
		WebhookSecret: secret,
		APIBase:       "http://stripe.invalid",
	}, clock.NewFakeClock(webhookNow), zap.NewNop())
}

func buildStripeSignatureHeader(secret string, payload []byte, ts int64) string {
	return fmt.Sprintf("t=%d,v1=%s", ts, sign(secret, fmt.Sprint(ts), payload))
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"id":"evt_123","type":"customer.subscription.updated","data":{"object":{}}}`)
	ts := webhookNow.Unix()

	client := newWebhookClient(secret)
	header := http.Header{}
	header.Set("Stripe-Signature", buildStripeSignatureHeader(secret, payload, ts))
	if err := client.Verify(context.Background(), payload, header); err != nil {
		t.Fatalf("expected valid signature, got error: %v", err)
	}

	header.Set("Stripe-Signature", buildStripeSignatureHeader("wrong", payload, ts))
	if err := client.Verify(context.Background(), payload, header); !errors.Is(err, billingdomain.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature error, got %v", err)
	}

	header.Set("Stripe-Signature", buildStripeSignatureHeader(secret, payload, ts)+",v1=deadbeef")
	if err := client.Verify(context.Background(), payload, header); err != nil {
		t.Fatalf("expected one matching v1 to be enough, got %v", err)
	}
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"id":"evt_1"}`)
	client := newWebhookClient(secret)

	for _, offset := range []time.Duration{-6 * time.Minute, 6 * time.Minute} {
		header := http.Header{}
		header.Set("Stripe-Signature", buildStripeSignatureHeader(secret, payload, webhookNow.Add(offset).Unix()))
		if err := client.Verify(context.Background(), payload, header); !errors.Is(err, billingdomain.ErrInvalidSignature) {
			t.Fatalf("offset %s: expected invalid signature, got %v", offset, err)
		}
	}

	header := http.Header{}
	header.Set("Stripe-Signature", buildStripeSignatureHeader(secret, payload, webhookNow.Add(-4*time.Minute).Unix()))
	if err := client.Verify(context.Background(), payload, header); err != nil {
		t.Fatalf("expected timestamp inside tolerance to pass, got %v", err)
	}
}

func TestVerifyMalformedHeader(t *testing.T) {
	client := newWebhookClient("whsec_test")
	for _, value := range []string{"", "garbage", "t=123", "v1=abc", "t=abc,v1=def"} {
		header := http.Header{}
		header.Set("Stripe-Signature", value)
		if err := client.Verify(context.Background(), []byte(`{}`), header); !errors.Is(err, billingdomain.ErrInvalidSignature) {
			t.Fatalf("header %q: expected invalid signature, got %v", value, err)
		}
	}
}

func TestVerifyWithoutSecret(t *testing.T) {
	client := newWebhookClient("")
	if err := client.Verify(context.Background(), []byte(`{}`), http.Header{}); !errors.Is(err, billingdomain.ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestParseCheckoutCompleted(t *testing.T) {
	client := newWebhookClient("whsec_test")
	payload := []byte(`{
		"id": "evt_checkout",
		"type": "checkout.session.completed",
		"created": 1773144000,
		"data": {"object": {
			"id": "cs_1",
			"mode": "subscription",
			"customer": "cus_1",
			"subscription": {"id": "sub_1", "object": "subscription"},
			"metadata": {"user_id": "1234567890"}
		}}
	}`)

	event, err := client.Parse(context.Background(), payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Checkout == nil {
		t.Fatalf("expected checkout payload")
	}
	if event.Checkout.SubscriptionID != "sub_1" || event.Checkout.CustomerID != "cus_1" {
		t.Fatalf("unexpected checkout: %+v", event.Checkout)
	}
	if event.Checkout.Metadata["user_id"] != "1234567890" {
		t.Fatalf("expected user_id metadata, got %v", event.Checkout.Metadata)
	}
	if event.Subscription != nil {
		t.Fatalf("did not expect subscription payload")
	}
}

func TestParseSubscriptionPeriods(t *testing.T) {
	client := newWebhookClient("whsec_test")
	tests := []struct {
		name   string
		object string
	}{{
		name:   "top level",
		object: `{"id":"sub_1","customer":"cus_1","status":"trialing","current_period_start":1772323200,"current_period_end":1775001600,"trial_end":1773532800}`,
	}, {
		name:   "items",
		object: `{"id":"sub_1","customer":"cus_1","status":"trialing","trial_end":1773532800,"items":{"data":[{"current_period_start":1772323200,"current_period_end":1775001600}]}}`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := []byte(`{"id":"evt_1","type":"customer.subscription.updated","created":1772323200,"data":{"object":` + tt.object + `}}`)
			event, err := client.Parse(context.Background(), payload)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			sub := event.Subscription
			if sub == nil {
				t.Fatalf("expected subscription payload")
			}
			if sub.Status != "trialing" || sub.CustomerID != "cus_1" {
				t.Fatalf("unexpected subscription: %+v", sub)
			}
			if !sub.PeriodStart.Equal(time.Unix(1772323200, 0)) || !sub.PeriodEnd.Equal(time.Unix(1775001600, 0)) {
				t.Fatalf("unexpected periods: %s - %s", sub.PeriodStart, sub.PeriodEnd)
			}
			if sub.TrialEnd == nil || !sub.TrialEnd.Equal(time.Unix(1773532800, 0)) {
				t.Fatalf("unexpected trial end: %v", sub.TrialEnd)
			}
		})
	}
}

func TestParseUnhandledAndInvalid(t *testing.T) {
	client := newWebhookClient("whsec_test")

	event, err := client.Parse(context.Background(), []byte(`{"id":"evt_1","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Checkout != nil || event.Subscription != nil {
		t.Fatalf("expected no payload for unhandled type")
	}

	if _, err := client.Parse(context.Background(), []byte(`not json`)); !errors.Is(err, billingdomain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload, got %v", err)
	}
	if _, err := client.Parse(context.Background(), []byte(`{"type":"invoice.paid"}`)); !errors.Is(err, billingdomain.ErrInvalidEvent) {
		t.Fatalf("expected invalid event, got %v", err)
	}
	if _, err := client.Parse(context.Background(), []byte(`{"id":"evt_2","type":"customer.subscription.deleted","data":{"object":{}}}`)); !errors.Is(err, billingdomain.ErrInvalidEvent) {
		t.Fatalf("expected invalid event for subscription without id, got %v", err)
	}
}
