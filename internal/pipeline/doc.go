// Package pipeline runs the stages between a raw platform event and the
// brain: normalization, URL moderation, threshold gating, cooldown checks,
// and dispatch. The stages do not know which transport fed them; adapters
// only decide classification and which threshold gate applies.
package pipeline
