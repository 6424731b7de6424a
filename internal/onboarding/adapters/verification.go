package adapters

import (
	"context"

	"orgdesk/internal/onboarding/ports"
	"orgdesk/internal/verification/challenge"
	"orgdesk/internal/verification/providers"
	id "orgdesk/pkg/domain"
	"orgdesk/pkg/requestcontext"
)

// ChallengeService sends and confirms one-time codes.
type ChallengeService interface {
	SendChallenge(ctx context.Context, tenantID id.TenantID, channel challenge.Channel, target string) error
	Confirm(ctx context.Context, tenantID id.TenantID, channel challenge.Channel, target, code string) error
}

// ChallengeVerifier binds a ChallengeService to one channel. It serves the
// EmailVerifier and PhoneVerifier ports. Challenges are scoped to the
// caller's tenant from the request context.
type ChallengeVerifier struct {
	service ChallengeService
	channel challenge.Channel
}

var (
	_ ports.EmailVerifier    = (*ChallengeVerifier)(nil)
	_ ports.PhoneVerifier    = (*ChallengeVerifier)(nil)
	_ ports.DocumentVerifier = (*providers.Verifier)(nil)
)

func NewEmailVerifier(service ChallengeService) *ChallengeVerifier {
	return &ChallengeVerifier{service: service, channel: challenge.ChannelEmail}
}

func NewPhoneVerifier(service ChallengeService) *ChallengeVerifier {
	return &ChallengeVerifier{service: service, channel: challenge.ChannelPhone}
}

func (v *ChallengeVerifier) SendChallenge(ctx context.Context, target string) error {
	return v.service.SendChallenge(ctx, requestcontext.TenantID(ctx), v.channel, target)
}

func (v *ChallengeVerifier) Confirm(ctx context.Context, target, code string) error {
	return v.service.Confirm(ctx, requestcontext.TenantID(ctx), v.channel, target, code)
}
