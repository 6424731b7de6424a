// Package providers verifies identity documents (PAN, Aadhaar) against
// external registries.
package providers

import (
	"context"
	"time"
)

// DocumentType identifies a verifiable identity document.
type DocumentType string

const (
	DocumentPAN     DocumentType = "pan"
	DocumentAadhaar DocumentType = "aadhaar"
)

// Result is a registry answer for one document number.
type Result struct {
	ProviderID  string
	Document    DocumentType
	Number      string
	Valid       bool
	HolderName  string
	ReferenceID string
	CheckedAt   time.Time
}

// Provider is a registry source for one document type.
type Provider interface {
	ID() string
	Document() DocumentType
	Verify(ctx context.Context, number string) (*Result, error)
	Health(ctx context.Context) error
}
