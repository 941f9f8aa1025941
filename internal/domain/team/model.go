package team

import (
	"fmt"
	"time"
)

// Team is a registered tournament participant. Membership is immutable once
// the tournament starts.
type Team struct {
	ID           string
	TournamentID string
	Name         string
	CaptainID    string
	SeedPot      int
	CreatedAt    time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.TournamentID == "" {
		return fmt.Errorf("team tournament id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.CaptainID == "" {
		return fmt.Errorf("team captain id is required")
	}
	if t.SeedPot < 0 {
		return fmt.Errorf("team seed pot must be >= 0")
	}

	return nil
}
