package memory

import (
	"context"

	"github.com/matchdayhq/tournament-engine/internal/domain/standing"
)

type StandingRepository struct {
	store *Store
}

func NewStandingRepository(store *Store) *StandingRepository {
	return &StandingRepository{store: store}
}

func (r *StandingRepository) ListByTournament(_ context.Context, tournamentID string) ([]standing.Standing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := r.store.standingsByTournament[tournamentID]
	out := make([]standing.Standing, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *StandingRepository) ReplaceByTournament(_ context.Context, tournamentID string, rows []standing.Standing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := make([]standing.Standing, len(rows))
	copy(stored, rows)
	r.store.standingsByTournament[tournamentID] = stored

	return nil
}
