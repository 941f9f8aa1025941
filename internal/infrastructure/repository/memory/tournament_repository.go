package memory

import (
	"context"
	"fmt"

	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
)

type TournamentRepository struct {
	store *Store
}

func NewTournamentRepository(store *Store) *TournamentRepository {
	return &TournamentRepository{store: store}
}

func (r *TournamentRepository) Create(_ context.Context, t tournament.Tournament) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.tournaments[t.ID]; exists {
		return fmt.Errorf("tournament %s already exists", t.ID)
	}
	r.store.tournaments[t.ID] = t
	r.store.tournamentOrder = append(r.store.tournamentOrder, t.ID)

	return nil
}

func (r *TournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.tournaments[tournamentID]
	if !ok {
		return tournament.Tournament{}, false, nil
	}

	return t, true, nil
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.store.tournamentOrder))
	for _, id := range r.store.tournamentOrder {
		out = append(out, r.store.tournaments[id])
	}

	return out, nil
}

func (r *TournamentRepository) UpdateStatus(_ context.Context, tournamentID, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.tournaments[tournamentID]
	if !ok {
		return fmt.Errorf("tournament %s not found", tournamentID)
	}
	t.Status = status
	r.store.tournaments[tournamentID] = t

	return nil
}

// Advance applies a stage transition under the store lock: the compare on
// the round sequence, the tournament update, and the fixture inserts are one
// atomic step, matching the postgres repository's transaction.
func (r *TournamentRepository) Advance(_ context.Context, transition tournament.StageTransition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.tournaments[transition.TournamentID]
	if !ok {
		return fmt.Errorf("tournament %s not found", transition.TournamentID)
	}
	if t.RoundSeq != transition.FromSeq {
		return fmt.Errorf("advance tournament %s from seq %d: %w",
			transition.TournamentID, transition.FromSeq, tournament.ErrStaleRound)
	}

	t.RoundSeq++
	t.CurrentStage = transition.Stage
	t.Status = transition.Status
	r.store.tournaments[transition.TournamentID] = t

	for _, m := range transition.Fixtures {
		r.store.insertMatchLocked(m)
	}

	return nil
}
