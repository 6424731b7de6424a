package wizard

import (
	"context"
	"strconv"
	"strings"

	"github.com/looplab/fsm"

	"orgdesk/internal/onboarding/models"
)

const (
	stateSubmitting = "submitting"
	stateSubmitted  = "submitted"
	stateClosed     = "closed"

	eventAdvance         = "advance"
	eventRetreat         = "retreat"
	eventSubmit          = "submit"
	eventSubmitFailed    = "submit_failed"
	eventSubmitSucceeded = "submit_succeeded"
	eventClose           = "close"

	stepStatePrefix = "step_"
)

func stateForStep(s models.Step) string {
	return stepStatePrefix + strconv.Itoa(int(s))
}

func stepForState(state string) (models.Step, bool) {
	rest, ok := strings.CutPrefix(state, stepStatePrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || !models.Step(n).Valid() {
		return 0, false
	}
	return models.Step(n), true
}

func lifecycleForState(state string) models.Lifecycle {
	switch state {
	case stateSubmitting:
		return models.LifecycleSubmitting
	case stateSubmitted:
		return models.LifecycleSubmitted
	case stateClosed:
		return models.LifecycleClosed
	}
	return models.LifecycleOpen
}

// transitions encodes the structural moves only. Whether a move is allowed
// by the draft's content is decided by the policy before an event fires.
func transitions() fsm.Events {
	events := fsm.Events{
		{Name: eventSubmit, Src: []string{stateForStep(models.LastStep)}, Dst: stateSubmitting},
		{Name: eventSubmitFailed, Src: []string{stateSubmitting}, Dst: stateForStep(models.LastStep)},
		{Name: eventSubmitSucceeded, Src: []string{stateSubmitting}, Dst: stateSubmitted},
	}
	closable := []string{stateSubmitting, stateSubmitted}
	for _, s := range models.AllSteps {
		closable = append(closable, stateForStep(s))
		if s < models.LastStep {
			events = append(events, fsm.EventDesc{Name: eventAdvance, Src: []string{stateForStep(s)}, Dst: stateForStep(s + 1)})
		}
		if s > models.FirstStep {
			events = append(events, fsm.EventDesc{Name: eventRetreat, Src: []string{stateForStep(s)}, Dst: stateForStep(s - 1)})
		}
	}
	return append(events, fsm.EventDesc{Name: eventClose, Src: closable, Dst: stateClosed})
}

// newMachine builds the step machine. onEnter runs after every transition
// with the destination state; it must not call back into the machine.
func newMachine(initial models.Step, onEnter func(dst string)) *fsm.FSM {
	return fsm.NewFSM(
		stateForStep(initial),
		transitions(),
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				onEnter(e.Dst)
			},
		},
	)
}
