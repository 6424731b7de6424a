package providers

import (
	"context"
	"regexp"
	"strings"
	"time"
)

var (
	panShape     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadhaarShape = regexp.MustCompile(`^[2-9][0-9]{11}$`)
)

// SandboxProvider accepts any well-formed number. It backs development
// deployments that have no registry credentials.
type SandboxProvider struct {
	document DocumentType
	now      func() time.Time
}

func NewSandboxProvider(document DocumentType) *SandboxProvider {
	return &SandboxProvider{document: document, now: time.Now}
}

func (p *SandboxProvider) ID() string             { return "sandbox-" + string(p.document) }
func (p *SandboxProvider) Document() DocumentType { return p.document }

func (p *SandboxProvider) Verify(_ context.Context, number string) (*Result, error) {
	var valid bool
	var holder string
	switch p.document {
	case DocumentPAN:
		valid = panShape.MatchString(number)
		if valid {
			holder = "SANDBOX HOLDER"
		}
	case DocumentAadhaar:
		valid = aadhaarShape.MatchString(number)
	default:
		return nil, NewProviderError(ErrorInternal, p.ID(), "unsupported document", nil)
	}
	return &Result{
		ProviderID:  p.ID(),
		Document:    p.document,
		Number:      number,
		Valid:       valid,
		HolderName:  holder,
		ReferenceID: "sandbox-" + strings.ToLower(number),
		CheckedAt:   p.now(),
	}, nil
}

func (p *SandboxProvider) Health(context.Context) error { return nil }
