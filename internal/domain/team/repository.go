package team

import "context"

// Repository describes team persistence needs from use cases. Teams are
// listed in registration order; that order doubles as the stable tie-break
// for standings.
type Repository interface {
	Add(ctx context.Context, t Team) error
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]Team, error)
}
