package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/schedule"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
	idgen "github.com/matchdayhq/tournament-engine/internal/platform/id"
)

// ProgressionResult describes what a successful progression produced: the
// next round's fixtures, or the completed tournament.
type ProgressionResult struct {
	TournamentID string
	Stage        string
	RoundLabel   string
	MatchCount   int
	Completed    bool
}

type ProgressionService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	matchRepo      match.Repository
	idGen          idgen.Generator
	now            func() time.Time
}

func NewProgressionService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	idGen idgen.Generator,
) *ProgressionService {
	return &ProgressionService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		idGen:          idGen,
		now:            time.Now,
	}
}

// Progress moves a tournament past its active stage: the next knockout or
// swiss round when one follows, or completion when nothing does. It refuses
// while any stage match is unapproved. The stage flip and the new fixtures
// commit atomically against the round sequence the caller read, so two
// racing calls produce exactly one new round.
func (s *ProgressionService) Progress(ctx context.Context, tournamentID string) (ProgressionResult, error) {
	ctx, span := startServiceSpan(ctx, "usecase.ProgressionService.Progress")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return ProgressionResult{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	t, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return ProgressionResult{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return ProgressionResult{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	if t.Status == tournament.StatusCompleted {
		return ProgressionResult{}, fmt.Errorf("%w: tournament=%s", schedule.ErrAlreadyComplete, t.ID)
	}
	if t.Status != tournament.StatusInProgress {
		return ProgressionResult{}, fmt.Errorf("%w: tournament=%s has not started", ErrConflict, t.ID)
	}

	stage, err := match.ParseStage(t.CurrentStage)
	if err != nil {
		return ProgressionResult{}, fmt.Errorf("parse current stage: %w", err)
	}

	stageMatches, err := s.matchRepo.ListByStage(ctx, t.ID, stage)
	if err != nil {
		return ProgressionResult{}, fmt.Errorf("list stage matches: %w", err)
	}
	if len(stageMatches) == 0 {
		return ProgressionResult{}, fmt.Errorf("%w: stage %s has no matches", schedule.ErrConfiguration, stage.Key())
	}

	fixtures, done, err := s.nextStage(ctx, t, stage, stageMatches)
	if err != nil {
		return ProgressionResult{}, err
	}

	if done {
		transition := tournament.StageTransition{
			TournamentID: t.ID,
			FromSeq:      t.RoundSeq,
			Stage:        stage.Key(),
			Status:       tournament.StatusCompleted,
		}
		if err := s.tournamentRepo.Advance(ctx, transition); err != nil {
			return ProgressionResult{}, fmt.Errorf("complete tournament: %w", err)
		}

		return ProgressionResult{
			TournamentID: t.ID,
			Stage:        stage.Key(),
			Completed:    true,
		}, nil
	}

	matches, err := materializeFixtures(s.idGen, t.ID, fixtures, s.now().UTC())
	if err != nil {
		return ProgressionResult{}, err
	}

	nextStage := matches[0].Round.Stage()
	transition := tournament.StageTransition{
		TournamentID: t.ID,
		FromSeq:      t.RoundSeq,
		Stage:        nextStage.Key(),
		Status:       tournament.StatusInProgress,
		Fixtures:     matches,
	}
	if err := s.tournamentRepo.Advance(ctx, transition); err != nil {
		return ProgressionResult{}, fmt.Errorf("advance tournament: %w", err)
	}

	return ProgressionResult{
		TournamentID: t.ID,
		Stage:        nextStage.Key(),
		RoundLabel:   matches[0].Round.Label(),
		MatchCount:   len(matches),
	}, nil
}

// nextStage resolves the fixtures that follow the active stage, or reports
// the tournament done. Knockout rounds gate on decided winners inside
// NextKnockout; every other stage kind gates on approval here first.
func (s *ProgressionService) nextStage(
	ctx context.Context,
	t tournament.Tournament,
	stage match.Stage,
	stageMatches []match.Match,
) ([]schedule.Fixture, bool, error) {
	switch stage.Kind {
	case match.KindKnockout:
		return schedule.NextKnockout(stageMatches)

	case match.KindLeague:
		if outstanding := schedule.Outstanding(stageMatches); outstanding > 0 {
			return nil, false, &schedule.IncompleteRoundError{Outstanding: outstanding}
		}
		return nil, true, nil

	case match.KindGroup:
		if outstanding := schedule.Outstanding(stageMatches); outstanding > 0 {
			return nil, false, &schedule.IncompleteRoundError{Outstanding: outstanding}
		}
		roster, err := s.rosterIDs(ctx, t.ID)
		if err != nil {
			return nil, false, err
		}
		fixtures, err := schedule.KnockoutFromGroups(roster, stageMatches, t.Config.AdvancePerGroup)
		if err != nil {
			return nil, false, err
		}
		return fixtures, false, nil

	case match.KindSwiss:
		if outstanding := schedule.Outstanding(stageMatches); outstanding > 0 {
			return nil, false, &schedule.IncompleteRoundError{Outstanding: outstanding}
		}
		roster, err := s.rosterIDs(ctx, t.ID)
		if err != nil {
			return nil, false, err
		}
		all, err := s.matchRepo.ListByTournament(ctx, t.ID)
		if err != nil {
			return nil, false, fmt.Errorf("list matches for swiss pairing: %w", err)
		}
		return schedule.NextSwissRound(stage.Number, t.Config.SwissRounds, roster, all)

	default:
		return nil, false, fmt.Errorf("%w: unknown stage kind %q", schedule.ErrConfiguration, stage.Kind)
	}
}

func (s *ProgressionService) rosterIDs(ctx context.Context, tournamentID string) ([]string, error) {
	roster, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list teams for progression: %w", err)
	}

	return teamIDsOf(roster), nil
}

func teamIDsOf(roster []team.Team) []string {
	ids := make([]string, 0, len(roster))
	for _, item := range roster {
		ids = append(ids, item.ID)
	}

	return ids
}
