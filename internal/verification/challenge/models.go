// Package challenge issues and confirms one-time codes that prove control of
// an email address or phone number.
package challenge

import (
	"strings"
	"time"
	"unicode"

	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
)

// Channel is a deliverable verification channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// ParseChannel accepts "email" or "phone".
func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelEmail:
		return ChannelEmail, nil
	case ChannelPhone:
		return ChannelPhone, nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "unsupported verification channel")
}

// Normalize returns the canonical form of target on the channel, used as the
// challenge key: emails are lower-cased and phones lose all whitespace.
func (c Channel) Normalize(target string) string {
	switch c {
	case ChannelEmail:
		return strings.ToLower(strings.TrimSpace(target))
	case ChannelPhone:
		return strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, target)
	}
	return strings.TrimSpace(target)
}

// Key addresses one pending challenge. Tenants never share a challenge for
// the same address.
type Key struct {
	TenantID id.TenantID
	Channel  Channel
	Target   string
}

// Challenge is a pending code for one channel target within a tenant. Only
// the code hash is stored.
type Challenge struct {
	TenantID  id.TenantID
	Channel   Channel
	Target    string
	CodeHash  string
	Attempts  int
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the challenge can no longer be confirmed at now.
func (c *Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

func (c *Challenge) Key() Key {
	return Key{TenantID: c.TenantID, Channel: c.Channel, Target: c.Target}
}
