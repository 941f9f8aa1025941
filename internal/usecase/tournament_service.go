package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/schedule"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
	idgen "github.com/matchdayhq/tournament-engine/internal/platform/id"
)

// matchKickoffLead is how far ahead of now the first matchday is scheduled;
// each later matchday lands a week after the previous one.
const matchKickoffLead = 48 * time.Hour

type CreateTournamentInput struct {
	Name            string
	Format          string
	GroupSize       int
	AdvancePerGroup int
	SwissRounds     int
}

type RegisterTeamInput struct {
	TournamentID string
	Name         string
	CaptainID    string
	SeedPot      int
}

type TournamentService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	idGen          idgen.Generator
	now            func() time.Time
	shuffle        func(n int) []int
}

func NewTournamentService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	idGen idgen.Generator,
) *TournamentService {
	return &TournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		idGen:          idGen,
		now:            time.Now,
		shuffle:        rand.Perm,
	}
}

func (s *TournamentService) Create(ctx context.Context, input CreateTournamentInput) (tournament.Tournament, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Format = strings.TrimSpace(input.Format)
	if input.Name == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament name is required", ErrInvalidInput)
	}
	if !tournament.KnownFormat(input.Format) {
		return tournament.Tournament{}, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, input.Format)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("generate tournament id: %w", err)
	}

	now := s.now().UTC()
	t := tournament.Tournament{
		ID:     id,
		Name:   input.Name,
		Format: input.Format,
		Status: tournament.StatusOpenForRegistration,
		Config: tournament.Config{
			GroupSize:       input.GroupSize,
			AdvancePerGroup: input.AdvancePerGroup,
			SwissRounds:     input.SwissRounds,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.Validate(); err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return tournament.Tournament{}, fmt.Errorf("create tournament: %w", err)
	}

	return t, nil
}

func (s *TournamentService) Get(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	t, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	return t, nil
}

func (s *TournamentService) List(ctx context.Context) ([]tournament.Tournament, error) {
	items, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	return items, nil
}

// RegisterTeam adds a team to the roster. The roster only moves while
// registration is open; once the tournament leaves that status it is
// immutable.
func (s *TournamentService) RegisterTeam(ctx context.Context, input RegisterTeamInput) (team.Team, error) {
	input.TournamentID = strings.TrimSpace(input.TournamentID)
	input.Name = strings.TrimSpace(input.Name)
	input.CaptainID = strings.TrimSpace(input.CaptainID)
	if input.Name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if input.CaptainID == "" {
		return team.Team{}, fmt.Errorf("%w: captain id is required", ErrInvalidInput)
	}
	if input.SeedPot < 0 {
		return team.Team{}, fmt.Errorf("%w: seed pot cannot be negative", ErrInvalidInput)
	}

	t, err := s.Get(ctx, input.TournamentID)
	if err != nil {
		return team.Team{}, err
	}
	if t.Status != tournament.StatusOpenForRegistration {
		return team.Team{}, fmt.Errorf("%w: registration is closed for tournament=%s", ErrConflict, t.ID)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	entry := team.Team{
		ID:           id,
		TournamentID: t.ID,
		Name:         input.Name,
		CaptainID:    input.CaptainID,
		SeedPot:      input.SeedPot,
		CreatedAt:    s.now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Add(ctx, entry); err != nil {
		return team.Team{}, fmt.Errorf("register team: %w", err)
	}

	return entry, nil
}

// CloseRegistration freezes the roster ahead of the start.
func (s *TournamentService) CloseRegistration(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	t, err := s.Get(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, err
	}
	if t.Status != tournament.StatusOpenForRegistration {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s is not open for registration", ErrConflict, t.ID)
	}

	roster, err := s.teamRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("list teams for close: %w", err)
	}
	if len(roster) < 2 {
		return tournament.Tournament{}, fmt.Errorf("%w: need at least 2 registered teams, have %d", ErrInvalidInput, len(roster))
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, t.ID, tournament.StatusReadyToStart); err != nil {
		return tournament.Tournament{}, fmt.Errorf("close registration: %w", err)
	}
	t.Status = tournament.StatusReadyToStart

	return t, nil
}

// Start shuffles the roster, generates the opening fixtures for the format,
// and moves the tournament to in_progress. The status flip and the fixture
// insert commit atomically; a concurrent second start loses the round
// sequence race and fails.
func (s *TournamentService) Start(ctx context.Context, tournamentID string) ([]match.Match, error) {
	ctx, span := startServiceSpan(ctx, "usecase.TournamentService.Start")
	defer span.End()

	t, err := s.Get(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	switch t.Status {
	case tournament.StatusOpenForRegistration, tournament.StatusReadyToStart:
	case tournament.StatusCompleted:
		return nil, fmt.Errorf("%w: tournament=%s", schedule.ErrAlreadyComplete, t.ID)
	default:
		return nil, fmt.Errorf("%w: tournament=%s already started", ErrConflict, t.ID)
	}

	roster, err := s.teamRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list teams for start: %w", err)
	}

	fixtures, err := schedule.Opening(t, shuffleRoster(roster, s.shuffle))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	matches, err := materializeFixtures(s.idGen, t.ID, fixtures, now)
	if err != nil {
		return nil, err
	}

	transition := tournament.StageTransition{
		TournamentID: t.ID,
		FromSeq:      t.RoundSeq,
		Stage:        matches[0].Round.Stage().Key(),
		Status:       tournament.StatusInProgress,
		Fixtures:     matches,
	}
	if err := s.tournamentRepo.Advance(ctx, transition); err != nil {
		return nil, fmt.Errorf("start tournament: %w", err)
	}

	return matches, nil
}

func shuffleRoster(roster []team.Team, shuffle func(n int) []int) []team.Team {
	if shuffle == nil || len(roster) < 2 {
		return roster
	}

	perm := shuffle(len(roster))
	out := make([]team.Team, len(roster))
	for i := range perm {
		out[i] = roster[perm[i]]
	}

	return out
}

// materializeFixtures turns generated pairings into scheduled matches.
// Ordinal preserves the generation order inside the batch; bracket pairing
// depends on it. Kickoffs start two days out and step a week per matchday.
func materializeFixtures(idGen idgen.Generator, tournamentID string, fixtures []schedule.Fixture, now time.Time) ([]match.Match, error) {
	kickoffBase := now.Add(matchKickoffLead)
	out := make([]match.Match, 0, len(fixtures))
	for i, f := range fixtures {
		id, err := idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate match id: %w", err)
		}

		out = append(out, match.Match{
			ID:           id,
			TournamentID: tournamentID,
			Round:        f.Round,
			Ordinal:      i + 1,
			HomeTeamID:   f.HomeTeamID,
			AwayTeamID:   f.AwayTeamID,
			KickoffAt:    kickoffBase.AddDate(0, 0, (f.Matchday-1)*7),
			Status:       match.StatusScheduled,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	return out, nil
}
