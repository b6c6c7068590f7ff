package ai

import (
	"context"
	"fmt"
)

// Tier is a named capability-quality level. The high-fidelity tier is routed
// to higher-stakes contexts; everything else uses the fast tier.
type Tier string

const (
	TierHighFidelity Tier = "high-fidelity"
	TierFast         Tier = "fast"
)

// Client is the boundary to one generative model. Calls block until the
// model answers or the client's own timeout makes them fail; no retry is
// performed at this layer or above.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateWithSystem(ctx context.Context, systemPrompt, prompt string) (string, error)
	Model() string
	Tier() Tier
}

// CapabilityError wraps any failure of a generative call: transport errors,
// timeouts, quota and API errors all surface as this type.
type CapabilityError struct {
	ClientTier Tier
	Err        error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability call failed (tier %s): %v", e.ClientTier, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}

func NewCapabilityError(tier Tier, err error) *CapabilityError {
	return &CapabilityError{ClientTier: tier, Err: err}
}
