package ai

import (
	"github.com/careerkit/career-assistant/internal/store/model"
)

// RouteTier maps a company classification to a capability tier. Total and
// deterministic over the closed tag set: regulated or large organizations
// justify the costlier tier, everything else defaults to the fast one.
func RouteTier(companyType model.CompanyType) Tier {
	switch companyType {
	case model.CompanyTypeFinance, model.CompanyTypeEnterprise:
		return TierHighFidelity
	default:
		return TierFast
	}
}

// Router holds one client per tier and resolves classifications to clients.
type Router struct {
	high Client
	fast Client
}

func NewRouter(high, fast Client) *Router {
	return &Router{high: high, fast: fast}
}

func (r *Router) Route(companyType model.CompanyType) Client {
	return r.ForTier(RouteTier(companyType))
}

func (r *Router) ForTier(tier Tier) Client {
	if tier == TierHighFidelity {
		return r.high
	}
	return r.fast
}
