package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxWebhookBody caps the webhook payload held in memory.
const maxWebhookBody = 512 << 10

type cancelSubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id"`
}

func (s *Server) CreateCheckoutSession(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	session, err := s.billingSvc.CreateCheckoutSession(c.Request.Context(), accountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

func (s *Server) CancelSubscription(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	var req cancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.billingSvc.CancelSubscription(c.Request.Context(), accountID, strings.TrimSpace(req.SubscriptionID)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) CreatePortalSession(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	session, err := s.billingSvc.CreatePortalSession(c.Request.Context(), accountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

// HandleStripeWebhook needs the untouched body for signature verification.
func (s *Server) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.billingSvc.HandleWebhook(c.Request.Context(), payload, c.Request.Header); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
