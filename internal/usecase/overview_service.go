package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/standing"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
)

// TournamentOverview is the aggregate read model for one tournament page:
// the tournament itself, its roster, the full match list in display order,
// and the current tables.
type TournamentOverview struct {
	Tournament tournament.Tournament
	Teams      []team.Team
	Matches    []match.Match
	Standings  []standing.Standing
}

type OverviewService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	matches        matchLister
	standings      standingLister
}

type matchLister interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]match.Match, error)
}

type standingLister interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]standing.Standing, error)
}

func NewOverviewService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	matches matchLister,
	standings standingLister,
) *OverviewService {
	return &OverviewService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matches:        matches,
		standings:      standings,
	}
}

// Get assembles the overview, fetching roster, matches, and standings
// concurrently once the tournament is known to exist.
func (s *OverviewService) Get(ctx context.Context, tournamentID string) (TournamentOverview, error) {
	ctx, span := startServiceSpan(ctx, "usecase.OverviewService.Get")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return TournamentOverview{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	t, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return TournamentOverview{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return TournamentOverview{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	overview := TournamentOverview{Tournament: t}

	readers := pool.New().WithContext(ctx)
	readers.Go(func(ctx context.Context) error {
		teams, err := s.teamRepo.ListByTournament(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list teams for overview: %w", err)
		}
		overview.Teams = teams
		return nil
	})
	readers.Go(func(ctx context.Context) error {
		matches, err := s.matches.ListByTournament(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list matches for overview: %w", err)
		}
		overview.Matches = matches
		return nil
	})
	readers.Go(func(ctx context.Context) error {
		standings, err := s.standings.ListByTournament(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list standings for overview: %w", err)
		}
		overview.Standings = standings
		return nil
	})
	if err := readers.Wait(); err != nil {
		return TournamentOverview{}, err
	}

	return overview, nil
}
