package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientTeams means the roster cannot host the format.
	ErrInsufficientTeams = errors.New("insufficient teams")
	// ErrSeeding means the pot arithmetic for a seeded draw does not work out.
	ErrSeeding = errors.New("seeding error")
	// ErrConfiguration covers missing or impossible tournament knobs.
	ErrConfiguration = errors.New("configuration error")
	// ErrIncompleteRound blocks progression while the active stage still has
	// unresolved matches. IncompleteRoundError carries the count.
	ErrIncompleteRound = errors.New("round incomplete")
	// ErrAlreadyComplete rejects progression on a finished tournament.
	ErrAlreadyComplete = errors.New("tournament already complete")
)

// IncompleteRoundError reports how many matches still block progression.
type IncompleteRoundError struct {
	Outstanding int
}

func (e *IncompleteRoundError) Error() string {
	return fmt.Sprintf("Cannot progress: %d match(es) are still not approved.", e.Outstanding)
}

func (e *IncompleteRoundError) Is(target error) bool {
	return target == ErrIncompleteRound
}
