package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
)

type failingMatchLister struct{ err error }

func (f failingMatchLister) ListByTournament(context.Context, string) ([]match.Match, error) {
	return nil, f.err
}

func TestOverviewAggregatesTournamentPage(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	created := h.createTournament(t, CreateTournamentInput{Name: "Liga", Format: tournament.FormatLeague})
	h.registerTeams(t, created.ID, 4)

	matches, err := h.tournamentSvc.Start(ctx, created.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.reportAndApprove(t, matches[0].ID, 2, 0)

	svc := NewOverviewService(h.tournaments, h.teams, h.matchSvc, h.standingSvc)
	overview, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if overview.Tournament.ID != created.ID {
		t.Fatalf("tournament = %s, want %s", overview.Tournament.ID, created.ID)
	}
	if len(overview.Teams) != 4 {
		t.Fatalf("teams = %d, want 4", len(overview.Teams))
	}
	if len(overview.Matches) != 6 {
		t.Fatalf("matches = %d, want 6", len(overview.Matches))
	}
	if len(overview.Standings) != 4 {
		t.Fatalf("standings rows = %d, want 4", len(overview.Standings))
	}
	if overview.Standings[0].Points != 3 {
		t.Fatalf("leader points = %d, want 3", overview.Standings[0].Points)
	}
}

func TestOverviewUnknownTournament(t *testing.T) {
	t.Parallel()

	h := newHarness()
	svc := NewOverviewService(h.tournaments, h.teams, h.matchSvc, h.standingSvc)
	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestOverviewPropagatesReadErrors(t *testing.T) {
	t.Parallel()

	h := newHarness()
	created := h.createTournament(t, CreateTournamentInput{Name: "Liga", Format: tournament.FormatLeague})

	boom := errors.New("matches store down")
	svc := NewOverviewService(h.tournaments, h.teams, failingMatchLister{err: boom}, h.standingSvc)
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}
