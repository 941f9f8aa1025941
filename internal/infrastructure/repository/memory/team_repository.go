package memory

import (
	"context"

	"github.com/matchdayhq/tournament-engine/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) Add(_ context.Context, t team.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.teamsByTournament[t.TournamentID] = append(r.store.teamsByTournament[t.TournamentID], t)

	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, roster := range r.store.teamsByTournament {
		for _, item := range roster {
			if item.ID == teamID {
				return item, true, nil
			}
		}
	}

	return team.Team{}, false, nil
}

// ListByTournament returns the roster in registration order.
func (r *TeamRepository) ListByTournament(_ context.Context, tournamentID string) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	roster := r.store.teamsByTournament[tournamentID]
	out := make([]team.Team, 0, len(roster))
	out = append(out, roster...)

	return out, nil
}
