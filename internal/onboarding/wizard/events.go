package wizard

import (
	"time"

	"orgdesk/internal/onboarding/models"
)

// Event is an external result delivered into the controller.
type Event interface {
	isEvent()
}

// VerificationSucceeded reports that a collaborator verified Value on
// Channel. It is discarded if the draft no longer holds Value.
type VerificationSucceeded struct {
	Channel    models.Channel
	Value      string
	HolderName string
	At         time.Time
}

// AvailabilityResolved carries a username lookup result. Ticket and Candidate
// identify the request; a result for any other request is stale.
type AvailabilityResolved struct {
	Ticket    uint64
	Candidate string
	Available bool
	Err       error
}

func (VerificationSucceeded) isEvent() {}
func (AvailabilityResolved) isEvent()  {}
