package match

import "fmt"

// Result-verification events. Every status change funnels through
// Transition; nothing else may move a match between statuses.
const (
	EventReport          = "report"
	EventApprove         = "approve"
	EventDispute         = "dispute"
	EventRequireEvidence = "require_evidence"
	EventSubmitEvidence  = "submit_evidence"
)

var transitions = map[string]map[string]string{
	StatusScheduled: {
		EventReport: StatusAwaitingConfirmation,
	},
	StatusAwaitingConfirmation: {
		// Re-reporting before anyone confirms replaces the scores.
		EventReport:          StatusAwaitingConfirmation,
		EventApprove:         StatusApproved,
		EventDispute:         StatusDisputed,
		EventRequireEvidence: StatusNeedsSecondaryEvidence,
	},
	StatusNeedsSecondaryEvidence: {
		EventSubmitEvidence: StatusAwaitingConfirmation,
		EventDispute:        StatusDisputed,
	},
	StatusDisputed: {
		EventApprove:         StatusApproved,
		EventRequireEvidence: StatusNeedsSecondaryEvidence,
	},
	// Approved is terminal.
	StatusApproved: {},
}

// Transition returns the status the event moves a match into, or an error
// when the event is not legal from the current status.
func Transition(current, event string) (string, error) {
	next, ok := transitions[current][event]
	if !ok {
		return "", fmt.Errorf("cannot %s a match in status %q", event, current)
	}

	return next, nil
}
