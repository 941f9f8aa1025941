package match

import "context"

// Repository describes match persistence needs from use cases. Matches are
// only ever inserted through tournament stage transitions, so the interface
// carries reads and result mutations.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]Match, error)
	ListByStage(ctx context.Context, tournamentID string, stage Stage) ([]Match, error)
	Update(ctx context.Context, m Match) error
}
