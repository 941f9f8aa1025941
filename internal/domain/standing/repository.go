package standing

import "context"

// Repository describes standings persistence needs from use cases. Tables
// are always replaced wholesale after a recomputation.
type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Standing, error)
	ReplaceByTournament(ctx context.Context, tournamentID string, rows []Standing) error
}
