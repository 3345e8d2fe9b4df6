package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
)

const (
	planFree    = "free"
	planPremium = "premium"
)

type subscriptionResponse struct {
	Plan                   string                    `json:"plan"`
	Status                 subscriptiondomain.Status `json:"status"`
	IsTrialing             bool                      `json:"is_trialing"`
	ExternalSubscriptionID string                    `json:"external_subscription_id,omitempty"`
	CurrentPeriodStart     *time.Time                `json:"current_period_start,omitempty"`
	CurrentPeriodEnd       *time.Time                `json:"current_period_end"`
	CancelAtPeriodEnd      bool                      `json:"cancel_at_period_end"`
}

func freeSubscription() subscriptionResponse {
	return subscriptionResponse{
		Plan:   planFree,
		Status: subscriptiondomain.StatusInactive,
	}
}

func toSubscriptionResponse(p *subscriptiondomain.Projection) subscriptionResponse {
	plan := planFree
	if p.Premium() {
		plan = planPremium
	}
	return subscriptionResponse{
		Plan:                   plan,
		Status:                 p.Status,
		IsTrialing:             p.IsTrialing,
		ExternalSubscriptionID: p.ExternalSubscriptionID,
		CurrentPeriodStart:     p.CurrentPeriodStart,
		CurrentPeriodEnd:       p.CurrentPeriodEnd,
		CancelAtPeriodEnd:      p.CancelAtPeriodEnd,
	}
}

func (s *Server) GetUserStats(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	usage, err := s.quota.Usage(c.Request.Context(), accountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": usage})
}

func (s *Server) GetUserSubscription(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	projection, err := s.projector.Current(c.Request.Context(), accountID)
	if errors.Is(err, subscriptiondomain.ErrProjectionNotFound) {
		c.JSON(http.StatusOK, gin.H{"data": freeSubscription()})
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toSubscriptionResponse(projection)})
}

func (s *Server) DeleteMe(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	if err := s.accountSvc.Delete(c.Request.Context(), accountID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
