package match

import "testing"

func TestTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		current string
		event   string
		want    string
		wantErr bool
	}{
		{name: "report a scheduled match", current: StatusScheduled, event: EventReport, want: StatusAwaitingConfirmation},
		{name: "re-report before confirmation", current: StatusAwaitingConfirmation, event: EventReport, want: StatusAwaitingConfirmation},
		{name: "approve a reported result", current: StatusAwaitingConfirmation, event: EventApprove, want: StatusApproved},
		{name: "dispute a reported result", current: StatusAwaitingConfirmation, event: EventDispute, want: StatusDisputed},
		{name: "escalate to secondary evidence", current: StatusAwaitingConfirmation, event: EventRequireEvidence, want: StatusNeedsSecondaryEvidence},
		{name: "resubmit evidence", current: StatusNeedsSecondaryEvidence, event: EventSubmitEvidence, want: StatusAwaitingConfirmation},
		{name: "dispute during evidence review", current: StatusNeedsSecondaryEvidence, event: EventDispute, want: StatusDisputed},
		{name: "resolve a dispute by approving", current: StatusDisputed, event: EventApprove, want: StatusApproved},
		{name: "resolve a dispute by demanding evidence", current: StatusDisputed, event: EventRequireEvidence, want: StatusNeedsSecondaryEvidence},
		{name: "approve an unreported match", current: StatusScheduled, event: EventApprove, wantErr: true},
		{name: "report over an approved result", current: StatusApproved, event: EventReport, wantErr: true},
		{name: "approve twice", current: StatusApproved, event: EventApprove, wantErr: true},
		{name: "evidence without a request", current: StatusAwaitingConfirmation, event: EventSubmitEvidence, wantErr: true},
		{name: "unknown status", current: "cancelled", event: EventReport, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Transition(tc.current, tc.event)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Transition(%s, %s) = %q, want error", tc.current, tc.event, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Transition(%s, %s): %v", tc.current, tc.event, err)
			}
			if got != tc.want {
				t.Fatalf("Transition(%s, %s) = %q, want %q", tc.current, tc.event, got, tc.want)
			}
		})
	}
}
