package match

import (
	"fmt"
	"time"
)

const (
	StatusScheduled              = "scheduled"
	StatusAwaitingConfirmation   = "awaiting_confirmation"
	StatusNeedsSecondaryEvidence = "needs_secondary_evidence"
	StatusDisputed               = "disputed"
	StatusApproved               = "approved"
)

// Match is one fixture between two roster teams of a tournament.
type Match struct {
	ID             string
	TournamentID   string
	Round          RoundRef
	Ordinal        int
	HomeTeamID     string
	AwayTeamID     string
	KickoffAt      time.Time
	Status         string
	HomeScore      *int
	AwayScore      *int
	PKHomeScore    *int
	PKAwayScore    *int
	ResolutionNote string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.TournamentID == "" {
		return fmt.Errorf("match tournament id is required")
	}
	if m.HomeTeamID == "" || m.AwayTeamID == "" {
		return fmt.Errorf("match needs both team ids")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match teams must be distinct")
	}
	if !KnownStatus(m.Status) {
		return fmt.Errorf("unknown match status %q", m.Status)
	}
	if err := m.Round.Validate(); err != nil {
		return err
	}

	return nil
}

func KnownStatus(status string) bool {
	switch status {
	case StatusScheduled, StatusAwaitingConfirmation, StatusNeedsSecondaryEvidence, StatusDisputed, StatusApproved:
		return true
	default:
		return false
	}
}

// HasResult reports whether regulation scores have been recorded.
func (m Match) HasResult() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Winner reports the advancing side of a decided knockout match. A match
// counts as decided only when it is approved and either the regulation
// scores differ or the penalty scores are present and differ.
func (m Match) Winner() (string, bool) {
	if m.Status != StatusApproved || !m.HasResult() {
		return "", false
	}
	if *m.HomeScore > *m.AwayScore {
		return m.HomeTeamID, true
	}
	if *m.AwayScore > *m.HomeScore {
		return m.AwayTeamID, true
	}
	if m.PKHomeScore == nil || m.PKAwayScore == nil {
		return "", false
	}
	if *m.PKHomeScore > *m.PKAwayScore {
		return m.HomeTeamID, true
	}
	if *m.PKAwayScore > *m.PKHomeScore {
		return m.AwayTeamID, true
	}

	return "", false
}
