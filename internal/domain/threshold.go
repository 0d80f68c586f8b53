package domain

// ThresholdPolicy gates commands on a minimum paid amount. Which events it
// applies to is decided by the adapter that classified them: bits for chat
// commands, monetary amounts for paid highlights, and no gate at all for
// platforms where plain-chat triggering is free.
type ThresholdPolicy struct {
	RequirePayment bool
	MinimumAmount  float64
}

// Passes reports whether the given amount satisfies the policy. An amount
// exactly equal to the minimum passes.
func (p ThresholdPolicy) Passes(amount float64) bool {
	if !p.RequirePayment {
		return true
	}
	return amount >= p.MinimumAmount
}

// Ungated is the policy used for events that need no payment.
var Ungated = ThresholdPolicy{}
