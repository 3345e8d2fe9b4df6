package domain

import "github.com/smallbiznis/quill/internal/config"

type TierName string

const (
	TierPremium    TierName = "premium"
	TierRestricted TierName = "restricted"
)

// LimitTier is derived from a projection on every read and never stored.
type LimitTier struct {
	Name                 TierName `json:"name"`
	MaxAIRequests        int      `json:"max_ai_requests"`
	MaxDocumentsPerMonth int      `json:"max_documents_per_month"`
	Model                string   `json:"model"`
}

func (t LimitTier) Premium() bool { return t.Name == TierPremium }

// TierFor returns the tier granted by p. A nil projection is restricted.
func TierFor(p *Projection, plans config.PlanConfig) LimitTier {
	if p != nil && p.Premium() {
		return newTier(TierPremium, plans.Premium)
	}
	return RestrictedTier(plans)
}

func RestrictedTier(plans config.PlanConfig) LimitTier {
	return newTier(TierRestricted, plans.Restricted)
}

func newTier(name TierName, limits config.PlanLimits) LimitTier {
	return LimitTier{
		Name:                 name,
		MaxAIRequests:        limits.MaxAIRequests,
		MaxDocumentsPerMonth: limits.MaxDocumentsPerMonth,
		Model:                limits.Model,
	}
}
