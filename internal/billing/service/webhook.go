package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/smallbiznis/quill/internal/billing/domain"
	obscontext "github.com/smallbiznis/quill/internal/observability/context"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// metadataAccountKeys are checked in order; userId is what sessions
// created before the rename carry.
var metadataAccountKeys = []string{"user_id", "userId"}

func (s *Service) HandleWebhook(ctx context.Context, payload []byte, headers http.Header) error {
	if err := s.gateway.Verify(ctx, payload, headers); err != nil {
		return err
	}
	event, err := s.gateway.Parse(ctx, payload)
	if err != nil {
		return err
	}

	correlationID := obscontext.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		ctx = obscontext.WithCorrelationID(ctx, "")
		correlationID = obscontext.CorrelationIDFromContext(ctx)
	}
	log := s.log.With(
		zap.String("provider_event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("correlation_id", correlationID),
	)

	record := &billingdomain.EventRecord{
		ID:              s.genID.Generate(),
		Provider:        providerStripe,
		ProviderEventID: event.ID,
		EventType:       event.Type,
		CorrelationID:   correlationID,
		SubscriptionID:  subscriptionIDOf(event),
		Status:          billingdomain.EventReceived,
		Payload:         datatypes.JSON(payload),
		ReceivedAt:      s.clock.Now(),
	}
	created, err := s.repo.InsertEvent(ctx, s.db, record)
	if err != nil {
		return err
	}
	if !created {
		existing, err := s.repo.FindEvent(ctx, s.db, providerStripe, event.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return errors.New("billing_event_lookup_failed")
		}
		if existing.Status == billingdomain.EventProcessed || existing.Status == billingdomain.EventIgnored {
			log.Info("webhook already handled, replay acknowledged")
			return nil
		}
		record = existing
	}

	subEvent, accountID, err := s.toSubscriptionEvent(ctx, event)
	switch {
	case errors.Is(err, billingdomain.ErrEventIgnored):
		log.Debug("webhook type not handled")
		s.finish(ctx, record.ID, billingdomain.EventIgnored, "", nil)
		return nil
	case errors.Is(err, billingdomain.ErrAccountNotResolved):
		// Retrying cannot fix missing metadata, so the event is acknowledged.
		log.Error("checkout completed for unknown account")
		s.finish(ctx, record.ID, billingdomain.EventFailed, err.Error(), nil)
		return nil
	case err != nil:
		s.finish(ctx, record.ID, billingdomain.EventFailed, err.Error(), nil)
		return err
	}

	if err := s.projector.Apply(ctx, subEvent); err != nil {
		log.Error("apply subscription event failed", zap.Error(err))
		s.finish(ctx, record.ID, billingdomain.EventFailed, err.Error(), accountID)
		return err
	}
	log.Info("webhook processed")
	s.finish(ctx, record.ID, billingdomain.EventProcessed, "", accountID)
	return nil
}

func (s *Service) finish(ctx context.Context, id snowflake.ID, status billingdomain.EventStatus, errMsg string, accountID *snowflake.ID) {
	if err := s.repo.MarkEvent(ctx, s.db, id, status, errMsg, accountID, s.clock.Now()); err != nil {
		s.log.Warn("mark billing event failed", zap.String("id", id.String()), zap.Error(err))
	}
}

func (s *Service) toSubscriptionEvent(ctx context.Context, event *billingdomain.WebhookEvent) (subscriptiondomain.Event, *snowflake.ID, error) {
	switch event.Type {
	case billingdomain.WebhookCheckoutCompleted:
		return s.checkoutCompleted(ctx, event.Checkout)
	case billingdomain.WebhookSubscriptionUpdated:
		if event.Subscription == nil {
			return nil, nil, billingdomain.ErrInvalidEvent
		}
		sub := event.Subscription
		return subscriptiondomain.SubscriptionUpdated{
			ExternalSubscriptionID: sub.ID,
			PeriodStart:            sub.PeriodStart,
			PeriodEnd:              sub.PeriodEnd,
			Status:                 sub.Status,
			Trialing:               s.trialing(sub),
		}, nil, nil
	case billingdomain.WebhookSubscriptionDeleted:
		if event.Subscription == nil {
			return nil, nil, billingdomain.ErrInvalidEvent
		}
		return subscriptiondomain.SubscriptionDeleted{ExternalSubscriptionID: event.Subscription.ID}, nil, nil
	case billingdomain.WebhookTrialWillEnd:
		if event.Subscription == nil {
			return nil, nil, billingdomain.ErrInvalidEvent
		}
		return subscriptiondomain.TrialWillEnd{ExternalSubscriptionID: event.Subscription.ID}, nil, nil
	}
	return nil, nil, billingdomain.ErrEventIgnored
}

// checkoutCompleted fetches the subscription because the session does not
// carry periods or trial state.
func (s *Service) checkoutCompleted(ctx context.Context, checkout *billingdomain.CompletedCheckout) (subscriptiondomain.Event, *snowflake.ID, error) {
	if checkout == nil || checkout.SubscriptionID == "" {
		return nil, nil, billingdomain.ErrEventIgnored
	}

	sub, err := s.gateway.GetSubscription(ctx, checkout.SubscriptionID)
	if err != nil {
		return nil, nil, err
	}

	customerID := checkout.CustomerID
	if customerID == "" {
		customerID = sub.CustomerID
	}
	accountID, err := s.resolveAccount(ctx, customerID, checkout.Metadata, sub.Metadata)
	if err != nil {
		return nil, nil, err
	}

	return subscriptiondomain.CheckoutCompleted{
		AccountID:              accountID,
		ExternalSubscriptionID: sub.ID,
		PeriodStart:            sub.PeriodStart,
		PeriodEnd:              sub.PeriodEnd,
		Trialing:               s.trialing(sub),
	}, &accountID, nil
}

// resolveAccount prefers the account id stamped into metadata at checkout
// and falls back to the stored processor customer id.
func (s *Service) resolveAccount(ctx context.Context, customerID string, metadata ...map[string]string) (snowflake.ID, error) {
	for _, md := range metadata {
		for _, key := range metadataAccountKeys {
			raw := strings.TrimSpace(md[key])
			if raw == "" {
				continue
			}
			id, err := snowflake.ParseString(raw)
			if err != nil {
				continue
			}
			account, err := s.accounts.FindByID(ctx, s.db, id)
			if err != nil {
				return 0, err
			}
			if account != nil {
				return account.ID, nil
			}
		}
	}

	if customerID != "" {
		account, err := s.accounts.FindByStripeCustomerID(ctx, s.db, customerID)
		if err != nil {
			return 0, err
		}
		if account != nil {
			return account.ID, nil
		}
	}
	return 0, billingdomain.ErrAccountNotResolved
}

func (s *Service) trialing(sub *billingdomain.ProcessorSubscription) bool {
	if strings.EqualFold(sub.Status, "trialing") {
		return true
	}
	return sub.TrialEnd != nil && sub.TrialEnd.After(s.clock.Now())
}

func subscriptionIDOf(event *billingdomain.WebhookEvent) string {
	switch {
	case event.Subscription != nil:
		return event.Subscription.ID
	case event.Checkout != nil:
		return event.Checkout.SubscriptionID
	}
	return ""
}
