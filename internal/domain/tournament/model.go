package tournament

import (
	"fmt"
	"time"
)

const (
	FormatLeague          = "league"
	FormatCup             = "cup"
	FormatChampionsLeague = "champions-league"
	FormatSwiss           = "swiss"
)

const (
	StatusOpenForRegistration = "open_for_registration"
	StatusReadyToStart        = "ready_to_start"
	StatusInProgress          = "in_progress"
	StatusCompleted           = "completed"
)

// Config carries the per-format knobs fixed at creation time.
type Config struct {
	// GroupSize is the target group size for cup tournaments. Zero means a
	// straight knockout bracket with no group stage.
	GroupSize int
	// AdvancePerGroup is how many teams leave each group for the knockout
	// stage of cup and champions-league tournaments.
	AdvancePerGroup int
	// SwissRounds is the fixed number of swiss rounds, set at creation and
	// never derived.
	SwissRounds int
}

// Tournament is one competition. CurrentStage and RoundSeq form the explicit
// state machine marker: RoundSeq bumps on every stage transition and guards
// against concurrent double progression.
type Tournament struct {
	ID           string
	Name         string
	Format       string
	Status       string
	Config       Config
	CurrentStage string
	RoundSeq     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t Tournament) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tournament id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tournament name is required")
	}
	if !KnownFormat(t.Format) {
		return fmt.Errorf("unknown tournament format %q", t.Format)
	}
	if !KnownStatus(t.Status) {
		return fmt.Errorf("unknown tournament status %q", t.Status)
	}

	return t.Config.Validate(t.Format)
}

func KnownFormat(format string) bool {
	switch format {
	case FormatLeague, FormatCup, FormatChampionsLeague, FormatSwiss:
		return true
	default:
		return false
	}
}

func KnownStatus(status string) bool {
	switch status {
	case StatusOpenForRegistration, StatusReadyToStart, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Validate checks the knobs that can be judged without knowing the roster.
// Roster-dependent checks (pot sizes, power-of-two brackets) run at start and
// progression time.
func (c Config) Validate(format string) error {
	switch format {
	case FormatLeague:
	case FormatCup:
		if c.GroupSize < 0 {
			return fmt.Errorf("cup group size must be >= 0")
		}
		if c.GroupSize == 1 {
			return fmt.Errorf("cup group size 1 cannot host matches")
		}
		if c.GroupSize > 0 && c.AdvancePerGroup < 1 {
			return fmt.Errorf("cup with groups needs an advancing-team count")
		}
	case FormatChampionsLeague:
		if c.AdvancePerGroup < 1 {
			return fmt.Errorf("champions-league needs an advancing-team count")
		}
	case FormatSwiss:
		if c.SwissRounds < 1 {
			return fmt.Errorf("swiss needs a fixed round count >= 1")
		}
	default:
		return fmt.Errorf("unknown tournament format %q", format)
	}

	return nil
}
