package domain

import (
	"testing"

	"github.com/smallbiznis/quill/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in       string
		status   Status
		trialing bool
	}{
		{"active", StatusActive, false},
		{"TRIALING", StatusActive, true},
		{"past_due", StatusInactive, false},
		{"unpaid", StatusInactive, false},
		{"incomplete_expired", StatusInactive, false},
		{"", StatusInactive, false},
	}
	for _, tt := range tests {
		status, trialing := NormalizeStatus(tt.in)
		assert.Equal(t, tt.status, status, tt.in)
		assert.Equal(t, tt.trialing, trialing, tt.in)
	}
}

func TestTierFor(t *testing.T) {
	plans := config.DefaultPlanConfig()

	assert.Equal(t, TierRestricted, TierFor(nil, plans).Name)
	assert.Equal(t, TierPremium, TierFor(&Projection{Status: StatusActive}, plans).Name)
	assert.Equal(t, TierPremium, TierFor(&Projection{Status: StatusInactive, IsTrialing: true}, plans).Name)
	assert.Equal(t, TierRestricted, TierFor(&Projection{Status: StatusInactive}, plans).Name)

	plans.Restricted.MaxAIRequests = 3
	assert.Equal(t, 3, TierFor(nil, plans).MaxAIRequests)
}
