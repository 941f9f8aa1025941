package memory

import (
	"context"
	"fmt"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.matches[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return m, true, nil
}

func (r *MatchRepository) ListByTournament(_ context.Context, tournamentID string) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0, len(r.store.matchOrder))
	for _, id := range r.store.matchOrder {
		if m := r.store.matches[id]; m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}

	return out, nil
}

func (r *MatchRepository) ListByStage(_ context.Context, tournamentID string, stage match.Stage) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0, len(r.store.matchOrder))
	for _, id := range r.store.matchOrder {
		m := r.store.matches[id]
		if m.TournamentID == tournamentID && m.Round.Stage() == stage {
			out = append(out, m)
		}
	}

	return out, nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.matches[m.ID]; !ok {
		return fmt.Errorf("match %s not found", m.ID)
	}
	r.store.matches[m.ID] = m

	return nil
}
