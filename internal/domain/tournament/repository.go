package tournament

import (
	"context"
	"errors"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
)

// ErrStaleRound reports a stage transition whose round sequence no longer
// matches the stored one, meaning a concurrent caller advanced the
// tournament first.
var ErrStaleRound = errors.New("tournament round already advanced")

// StageTransition is one atomic move of a tournament to its next stage: the
// status/stage update and the next stage's fixtures commit together or not
// at all. FromSeq is the round sequence the caller read; the write must be
// conditional on it.
type StageTransition struct {
	TournamentID string
	FromSeq      int
	Stage        string
	Status       string
	Fixtures     []match.Match
}

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, t Tournament) error
	GetByID(ctx context.Context, tournamentID string) (Tournament, bool, error)
	List(ctx context.Context) ([]Tournament, error)
	UpdateStatus(ctx context.Context, tournamentID, status string) error
	Advance(ctx context.Context, transition StageTransition) error
}
