// Package gate tracks which identity channels have been verified for the
// values currently in the draft.
package gate

import (
	"time"

	"orgdesk/internal/onboarding/models"
)

// Gate holds per-channel verification state. A channel counts as verified
// only for the exact normalized value that was verified.
//
// Gate is not safe for concurrent use; the wizard controller serializes access.
type Gate struct {
	state map[models.Channel]models.ChannelState
}

func New() *Gate {
	g := &Gate{state: make(map[models.Channel]models.ChannelState, len(models.AllChannels))}
	for _, c := range models.AllChannels {
		g.state[c] = models.ChannelState{}
	}
	return g
}

// MarkVerified records a collaborator's success for verifiedValue. It is
// discarded, returning false, when verifiedValue no longer matches current.
func (g *Gate) MarkVerified(ch models.Channel, verifiedValue, current, holderName string, at time.Time) bool {
	v := ch.Normalize(verifiedValue)
	if v == "" || v != ch.Normalize(current) {
		return false
	}
	g.state[ch] = models.ChannelState{
		Verified:   true,
		Value:      v,
		HolderName: holderName,
		VerifiedAt: at,
	}
	return true
}

// OnValueChanged resets ch when newValue differs from the verified value.
// Formatting-only edits (case, spacing) keep the verification. It reports
// whether a reset happened.
func (g *Gate) OnValueChanged(ch models.Channel, newValue string) bool {
	st := g.state[ch]
	if !st.Verified || st.Value == ch.Normalize(newValue) {
		return false
	}
	g.state[ch] = models.ChannelState{}
	return true
}

// Verified reports whether ch is verified for current.
func (g *Gate) Verified(ch models.Channel, current string) bool {
	st := g.state[ch]
	return st.Verified && st.Value == ch.Normalize(current)
}

// Satisfied applies the channel's requirement: email and phone must always be
// verified; PAN and Aadhaar only when their field is filled.
func (g *Gate) Satisfied(ch models.Channel, current string) bool {
	if !ch.Unconditional() && ch.Normalize(current) == "" {
		return true
	}
	return g.Verified(ch, current)
}

// HolderName returns the name captured with the PAN verification, if any.
func (g *Gate) HolderName(ch models.Channel) string {
	return g.state[ch].HolderName
}

// Snapshot copies the state of every channel.
func (g *Gate) Snapshot() models.VerificationState {
	out := make(models.VerificationState, len(g.state))
	for c, st := range g.state {
		out[c] = st
	}
	return out
}
