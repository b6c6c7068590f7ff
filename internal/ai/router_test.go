package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careerkit/career-assistant/internal/store/model"
)

type fakeClient struct {
	tier Tier
}

func (f *fakeClient) Generate(context.Context, string) (string, error) { return "", nil }
func (f *fakeClient) GenerateWithSystem(context.Context, string, string) (string, error) {
	return "", nil
}
func (f *fakeClient) Model() string { return string(f.tier) }
func (f *fakeClient) Tier() Tier    { return f.tier }

func TestRouteTier(t *testing.T) {
	assert.Equal(t, TierHighFidelity, RouteTier(model.CompanyTypeFinance))
	assert.Equal(t, TierHighFidelity, RouteTier(model.CompanyTypeEnterprise))
	assert.Equal(t, TierFast, RouteTier(model.CompanyTypeStartup))
	assert.Equal(t, TierFast, RouteTier(model.CompanyTypeMidIT))
	assert.Equal(t, TierFast, RouteTier(model.CompanyTypeUnknown))
	assert.Equal(t, TierFast, RouteTier(model.CompanyType("anything-else")))
}

func TestRouterRoute(t *testing.T) {
	high := &fakeClient{tier: TierHighFidelity}
	fast := &fakeClient{tier: TierFast}
	router := NewRouter(high, fast)

	assert.Same(t, high, router.Route(model.CompanyTypeFinance).(*fakeClient))
	assert.Same(t, fast, router.Route(model.CompanyTypeStartup).(*fakeClient))
	assert.Same(t, high, router.ForTier(TierHighFidelity).(*fakeClient))
	assert.Same(t, fast, router.ForTier(TierFast).(*fakeClient))
}
