package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/schedule"
	"github.com/matchdayhq/tournament-engine/internal/domain/standing"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
)

type stubTournamentRepository struct {
	mu      sync.Mutex
	byID    map[string]tournament.Tournament
	matches *stubMatchRepository
}

func newStubTournamentRepository(matches *stubMatchRepository) *stubTournamentRepository {
	return &stubTournamentRepository{
		byID:    make(map[string]tournament.Tournament),
		matches: matches,
	}
}

func (s *stubTournamentRepository) Create(_ context.Context, t tournament.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[t.ID] = t
	return nil
}

func (s *stubTournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[tournamentID]
	return t, ok, nil
}

func (s *stubTournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tournament.Tournament, 0, len(s.byID))
	for _, t := range s.byID {
		out = append(out, t)
	}
	return out, nil
}

func (s *stubTournamentRepository) UpdateStatus(_ context.Context, tournamentID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[tournamentID]
	if !ok {
		return fmt.Errorf("tournament %s not found", tournamentID)
	}
	t.Status = status
	s.byID[tournamentID] = t
	return nil
}

func (s *stubTournamentRepository) Advance(_ context.Context, transition tournament.StageTransition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[transition.TournamentID]
	if !ok {
		return fmt.Errorf("tournament %s not found", transition.TournamentID)
	}
	if t.RoundSeq != transition.FromSeq {
		return tournament.ErrStaleRound
	}
	t.RoundSeq++
	t.CurrentStage = transition.Stage
	t.Status = transition.Status
	s.byID[transition.TournamentID] = t
	if s.matches != nil {
		s.matches.insert(transition.Fixtures)
	}
	return nil
}

type stubTeamRepository struct {
	mu           sync.Mutex
	byTournament map[string][]team.Team
}

func newStubTeamRepository() *stubTeamRepository {
	return &stubTeamRepository{byTournament: make(map[string][]team.Team)}
}

func (s *stubTeamRepository) Add(_ context.Context, t team.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTournament[t.TournamentID] = append(s.byTournament[t.TournamentID], t)
	return nil
}

func (s *stubTeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, roster := range s.byTournament {
		for _, item := range roster {
			if item.ID == teamID {
				return item, true, nil
			}
		}
	}
	return team.Team{}, false, nil
}

func (s *stubTeamRepository) ListByTournament(_ context.Context, tournamentID string) ([]team.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.byTournament[tournamentID]
	out := make([]team.Team, len(items))
	copy(out, items)
	return out, nil
}

type stubMatchRepository struct {
	mu    sync.Mutex
	byID  map[string]match.Match
	order []string
}

func newStubMatchRepository() *stubMatchRepository {
	return &stubMatchRepository{byID: make(map[string]match.Match)}
}

func (s *stubMatchRepository) insert(items []match.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range items {
		if _, seen := s.byID[m.ID]; !seen {
			s.order = append(s.order, m.ID)
		}
		s.byID[m.ID] = m
	}
}

func (s *stubMatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[matchID]
	return m, ok, nil
}

func (s *stubMatchRepository) ListByTournament(_ context.Context, tournamentID string) ([]match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]match.Match, 0, len(s.order))
	for _, id := range s.order {
		if m := s.byID[id]; m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMatchRepository) ListByStage(_ context.Context, tournamentID string, stage match.Stage) ([]match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]match.Match, 0, len(s.order))
	for _, id := range s.order {
		m := s.byID[id]
		if m.TournamentID == tournamentID && m.Round.Stage() == stage {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMatchRepository) Update(_ context.Context, m match.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[m.ID]; !ok {
		return fmt.Errorf("match %s not found", m.ID)
	}
	s.byID[m.ID] = m
	return nil
}

type stubStandingRepository struct {
	mu           sync.Mutex
	byTournament map[string][]standing.Standing
	replaceCalls int
}

func newStubStandingRepository() *stubStandingRepository {
	return &stubStandingRepository{byTournament: make(map[string][]standing.Standing)}
}

func (s *stubStandingRepository) ListByTournament(_ context.Context, tournamentID string) ([]standing.Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.byTournament[tournamentID]
	out := make([]standing.Standing, len(items))
	copy(out, items)
	return out, nil
}

func (s *stubStandingRepository) ReplaceByTournament(_ context.Context, tournamentID string, rows []standing.Standing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]standing.Standing, len(rows))
	copy(out, rows)
	s.byTournament[tournamentID] = out
	s.replaceCalls++
	return nil
}

type seqIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

func identityShuffle(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

func reverseShuffle(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = n - 1 - i
	}
	return perm
}

// harness wires the services over shared stub repositories, the way the
// app container wires them over real ones.
type harness struct {
	tournaments *stubTournamentRepository
	teams       *stubTeamRepository
	matches     *stubMatchRepository
	standings   *stubStandingRepository

	tournamentSvc  *TournamentService
	progressionSvc *ProgressionService
	matchSvc       *MatchService
	standingSvc    *StandingService
}

func newHarness() *harness {
	matches := newStubMatchRepository()
	tournaments := newStubTournamentRepository(matches)
	teams := newStubTeamRepository()
	standings := newStubStandingRepository()
	idGen := &seqIDGenerator{}

	standingSvc := NewStandingService(teams, matches, standings)
	tournamentSvc := NewTournamentService(tournaments, teams, idGen)
	tournamentSvc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	tournamentSvc.shuffle = identityShuffle

	progressionSvc := NewProgressionService(tournaments, teams, matches, idGen)
	progressionSvc.now = tournamentSvc.now

	matchSvc := NewMatchService(matches, standingSvc)
	matchSvc.now = tournamentSvc.now

	return &harness{
		tournaments:    tournaments,
		teams:          teams,
		matches:        matches,
		standings:      standings,
		tournamentSvc:  tournamentSvc,
		progressionSvc: progressionSvc,
		matchSvc:       matchSvc,
		standingSvc:    standingSvc,
	}
}

func (h *harness) createTournament(t *testing.T, input CreateTournamentInput) tournament.Tournament {
	t.Helper()
	created, err := h.tournamentSvc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func (h *harness) registerTeams(t *testing.T, tournamentID string, count int) []team.Team {
	t.Helper()
	out := make([]team.Team, 0, count)
	for i := 1; i <= count; i++ {
		entry, err := h.tournamentSvc.RegisterTeam(context.Background(), RegisterTeamInput{
			TournamentID: tournamentID,
			Name:         fmt.Sprintf("Club %02d", i),
			CaptainID:    fmt.Sprintf("captain-%02d", i),
		})
		if err != nil {
			t.Fatalf("RegisterTeam %d: %v", i, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestCreateTournamentValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input CreateTournamentInput
	}{
		{name: "missing name", input: CreateTournamentInput{Format: tournament.FormatLeague}},
		{name: "unknown format", input: CreateTournamentInput{Name: "x", Format: "ladder"}},
		{name: "cup group size one", input: CreateTournamentInput{Name: "x", Format: tournament.FormatCup, GroupSize: 1}},
		{name: "cup groups without advance", input: CreateTournamentInput{Name: "x", Format: tournament.FormatCup, GroupSize: 4}},
		{name: "swiss without rounds", input: CreateTournamentInput{Name: "x", Format: tournament.FormatSwiss}},
		{name: "champions league without advance", input: CreateTournamentInput{Name: "x", Format: tournament.FormatChampionsLeague}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness()
			if _, err := h.tournamentSvc.Create(context.Background(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreateTournamentDefaults(t *testing.T) {
	t.Parallel()

	h := newHarness()
	created := h.createTournament(t, CreateTournamentInput{Name: "Friday Cup", Format: tournament.FormatCup})

	if created.Status != tournament.StatusOpenForRegistration {
		t.Fatalf("status = %s, want open_for_registration", created.Status)
	}
	if created.CurrentStage != "" || created.RoundSeq != 0 {
		t.Fatalf("fresh tournament carries stage %q seq %d", created.CurrentStage, created.RoundSeq)
	}
}

func TestRegisterTeamClosesWithLifecycle(t *testing.T) {
	t.Parallel()

	h := newHarness()
	created := h.createTournament(t, CreateTournamentInput{Name: "Liga", Format: tournament.FormatLeague})
	h.registerTeams(t, created.ID, 2)

	if _, err := h.tournamentSvc.CloseRegistration(context.Background(), created.ID); err != nil {
		t.Fatalf("CloseRegistration: %v", err)
	}

	_, err := h.tournamentSvc.RegisterTeam(context.Background(), RegisterTeamInput{
		TournamentID: created.ID,
		Name:         "Latecomer",
		CaptainID:    "captain-x",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("register after close: err = %v, want ErrConflict", err)
	}
}

func TestCloseRegistrationNeedsTwoTeams(t *testing.T) {
	t.Parallel()

	h := newHarness()
	created := h.createTournament(t, CreateTournamentInput{Name: "Liga", Format: tournament.FormatLeague})
	h.registerTeams(t, created.ID, 1)

	if _, err := h.tournamentSvc.CloseRegistration(context.Background(), created.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestStartLeagueGeneratesFullSchedule(t *testing.T) {
	t.Parallel()

	h := newHarness()
	created := h.createTournament(t, CreateTournamentInput{Name: "Liga", Format: tournament.FormatLeague})
	h.registerTeams(t, created.ID, 6)

	matches, err := h.tournamentSvc.Start(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(matches) != 15 {
		t.Fatalf("got %d matches, want 15", len(matches))
	}

	stored, _, _ := h.tournaments.GetByID(context.Background(), created.ID)
	if stored.Status != tournament.StatusInProgress {
		t.Fatalf("status = %s, want in_progress", stored.Status)
	}
	if stored.CurrentStage != "league" {
		t.Fatalf("stage = %q, want league", stored.CurrentStage)
	}
	if stored.RoundSeq != 1 {
		t.Fatalf("round seq = %d, want 1", stored.RoundSeq)
	}

	// Matchday 2 kicks off a week after matchday 1.
	var day1, day2 time.Time
	for _, m := range matches {
		switch m.Round.Number {
		case 1:
			day1 = m.KickoffAt
		case 2:
			day2 = m.KickoffAt
		}
	}
	if got := day2.Sub(day1); got != 7*24*time.Hour {
		t.Fatalf("matchday spacing = %s, want 168h", got)
	}
}

func TestStartAppliesShuffle(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.tournamentSvc.shuffle = reverseShuffle
	created := h.createTournament(t, CreateTournamentInput{Name: "Swiss Night", Format: tournament.FormatSwiss, SwissRounds: 3})
	roster := h.registerTeams(t, created.ID, 4)

	matches, err := h.tournamentSvc.Start(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}

	// Reversed roster pairs sequentially: (4th,3rd) then (2nd,1st).
	if matches[0].HomeTeamID != roster[3].ID || matches[0].AwayTeamID != roster[2].ID {
		t.Fatalf("pairing 1 = %s-%s, want %s-%s", matches[0].HomeTeamID, matches[0].AwayTeamID, roster[3].ID, roster[2].ID)
	}
	if matches[1].HomeTeamID != roster[1].ID || matches[1].AwayTeamID != roster[0].ID {
		t.Fatalf("pairing 2 = %s-%s, want %s-%s", matches[1].HomeTeamID, matches[1].AwayTeamID, roster[1].ID, roster[0].ID)
	}
}

func TestStartOnlyOnce(t *testing.T) {
	t.Parallel()

	h := newHarness()
	created := h.createTournament(t, CreateTournamentInput{Name: "Cup", Format: tournament.FormatCup})
	h.registerTeams(t, created.ID, 4)

	if _, err := h.tournamentSvc.Start(context.Background(), created.ID); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := h.tournamentSvc.Start(context.Background(), created.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("second start: err = %v, want ErrConflict", err)
	}
}

func TestStartErrorModes(t *testing.T) {
	t.Parallel()

	t.Run("insufficient teams", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		created := h.createTournament(t, CreateTournamentInput{Name: "Cup", Format: tournament.FormatCup})
		h.registerTeams(t, created.ID, 1)
		if _, err := h.tournamentSvc.Start(context.Background(), created.ID); !errors.Is(err, schedule.ErrInsufficientTeams) {
			t.Fatalf("err = %v, want ErrInsufficientTeams", err)
		}
	})

	t.Run("odd swiss roster", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		created := h.createTournament(t, CreateTournamentInput{Name: "Swiss", Format: tournament.FormatSwiss, SwissRounds: 2})
		h.registerTeams(t, created.ID, 5)
		if _, err := h.tournamentSvc.Start(context.Background(), created.ID); !errors.Is(err, schedule.ErrConfiguration) {
			t.Fatalf("err = %v, want ErrConfiguration", err)
		}
	})

	t.Run("champions league pots must line up", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		created := h.createTournament(t, CreateTournamentInput{Name: "CL", Format: tournament.FormatChampionsLeague, AdvancePerGroup: 1})
		for i := 1; i <= 4; i++ {
			pot := 1
			if i == 4 {
				pot = 2
			}
			if _, err := h.tournamentSvc.RegisterTeam(context.Background(), RegisterTeamInput{
				TournamentID: created.ID,
				Name:         fmt.Sprintf("Seeded %d", i),
				CaptainID:    fmt.Sprintf("captain-%d", i),
				SeedPot:      pot,
			}); err != nil {
				t.Fatalf("RegisterTeam: %v", err)
			}
		}
		if _, err := h.tournamentSvc.Start(context.Background(), created.ID); !errors.Is(err, schedule.ErrSeeding) {
			t.Fatalf("err = %v, want ErrSeeding", err)
		}
	})
}
