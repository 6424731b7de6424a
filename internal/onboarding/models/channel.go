package models

import (
	"strings"
	"time"
	"unicode"

	dErrors "orgdesk/pkg/domain-errors"
)

// Channel is an independently verifiable identity channel.
type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelPhone   Channel = "phone"
	ChannelPAN     Channel = "pan"
	ChannelAadhaar Channel = "aadhaar"
)

// AllChannels in gate order.
var AllChannels = []Channel{ChannelEmail, ChannelPhone, ChannelPAN, ChannelAadhaar}

func ParseChannel(s string) (Channel, error) {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case ChannelEmail, ChannelPhone, ChannelPAN, ChannelAadhaar:
		return c, nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "unknown verification channel: "+s)
}

// Field is the draft field whose value the channel verifies.
func (c Channel) Field() Field {
	switch c {
	case ChannelEmail:
		return FieldEmail
	case ChannelPhone:
		return FieldPhone
	case ChannelPAN:
		return FieldPANNumber
	case ChannelAadhaar:
		return FieldAadhaarNumber
	}
	return ""
}

// ChannelForField returns the channel verifying f, if any.
func ChannelForField(f Field) (Channel, bool) {
	for _, c := range AllChannels {
		if c.Field() == f {
			return c, true
		}
	}
	return "", false
}

// Unconditional channels must be verified regardless of field content.
// Document channels are required only when their field is filled.
func (c Channel) Unconditional() bool {
	return c == ChannelEmail || c == ChannelPhone
}

// Normalize returns the comparison form of a channel value: emails are trimmed
// and lower-cased, phone and Aadhaar lose whitespace, PAN is trimmed and
// upper-cased.
func (c Channel) Normalize(value string) string {
	switch c {
	case ChannelEmail:
		return strings.ToLower(strings.TrimSpace(value))
	case ChannelPhone, ChannelAadhaar:
		return stripSpace(value)
	case ChannelPAN:
		return strings.ToUpper(strings.TrimSpace(value))
	}
	return value
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ChannelState is the verification status of one channel. Value is the
// normalized value that was verified.
type ChannelState struct {
	Verified   bool      `json:"verified"`
	Value      string    `json:"value,omitempty"`
	HolderName string    `json:"holder_name,omitempty"`
	VerifiedAt time.Time `json:"verified_at,omitempty"`
}

// VerificationState maps every channel to its status.
type VerificationState map[Channel]ChannelState
