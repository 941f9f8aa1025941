package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/standing"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
)

const maxStandingWorkers = 4

type StandingService struct {
	teamRepo     team.Repository
	matchRepo    match.Repository
	standingRepo standing.Repository
}

func NewStandingService(
	teamRepo team.Repository,
	matchRepo match.Repository,
	standingRepo standing.Repository,
) *StandingService {
	return &StandingService{
		teamRepo:     teamRepo,
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
	}
}

// tableTask scopes one table recomputation: a single group's matches, or
// the whole league/swiss schedule when the tournament has no groups.
type tableTask struct {
	group   string
	members []string
	matches []match.Match
}

// Recompute rebuilds every table of the tournament from scratch over its
// approved matches and replaces the stored rows wholesale. Group tables
// recompute in parallel on a small worker pool.
func (s *StandingService) Recompute(ctx context.Context, tournamentID string) error {
	ctx, span := startServiceSpan(ctx, "usecase.StandingService.Recompute")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	rows, err := s.computeTables(ctx, tournamentID)
	if err != nil {
		return err
	}

	if err := s.standingRepo.ReplaceByTournament(ctx, tournamentID, rows); err != nil {
		return fmt.Errorf("replace standings: %w", err)
	}

	return nil
}

// ListByTournament serves the stored tables, falling back to an on-the-fly
// recomputation when nothing has been persisted yet.
func (s *StandingService) ListByTournament(ctx context.Context, tournamentID string) ([]standing.Standing, error) {
	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	rows, err := s.standingRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	if len(rows) > 0 {
		return rows, nil
	}

	return s.computeTables(ctx, tournamentID)
}

func (s *StandingService) computeTables(ctx context.Context, tournamentID string) ([]standing.Standing, error) {
	roster, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list teams for standings: %w", err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list matches for standings: %w", err)
	}

	tasks := buildTableTasks(roster, matches)
	if len(tasks) == 0 {
		return []standing.Standing{}, nil
	}

	workerCount := len(tasks)
	if workerCount > maxStandingWorkers {
		workerCount = maxStandingWorkers
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create standings worker pool: %w", err)
	}
	defer pool.Release()

	tables := make(chan []standing.Standing, len(tasks))
	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			tables <- standing.BuildTable(tournamentID, task.group, task.members, task.matches)
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit standings task: %w", err)
		}
	}
	workers.Wait()
	close(tables)

	rows := make([]standing.Standing, 0, len(roster))
	for batch := range tables {
		rows = append(rows, batch...)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Group != rows[j].Group {
			return rows[i].Group < rows[j].Group
		}
		return rows[i].Position < rows[j].Position
	})

	return rows, nil
}

// buildTableTasks splits matches into per-group tables, or one whole-roster
// table for groupless formats. Knockout matches never feed a table, so a
// pure bracket yields no tasks at all.
func buildTableTasks(roster []team.Team, matches []match.Match) []tableTask {
	byGroup := make(map[string][]match.Match)
	var letters []string
	var tableMatches []match.Match
	for _, m := range matches {
		switch m.Round.Kind {
		case match.KindGroup:
			if _, seen := byGroup[m.Round.Group]; !seen {
				letters = append(letters, m.Round.Group)
			}
			byGroup[m.Round.Group] = append(byGroup[m.Round.Group], m)
		case match.KindLeague, match.KindSwiss:
			tableMatches = append(tableMatches, m)
		}
	}

	if len(letters) > 0 {
		sort.Strings(letters)
		tasks := make([]tableTask, 0, len(letters))
		for _, letter := range letters {
			tasks = append(tasks, tableTask{
				group:   letter,
				members: rosterIDsIn(roster, byGroup[letter]),
				matches: byGroup[letter],
			})
		}
		return tasks
	}

	if len(tableMatches) == 0 {
		return nil
	}

	return []tableTask{{
		members: teamIDsOf(roster),
		matches: tableMatches,
	}}
}

// rosterIDsIn keeps registration order while narrowing the roster to the
// teams a group's matches actually involve.
func rosterIDsIn(roster []team.Team, matches []match.Match) []string {
	present := make(map[string]bool, len(matches)*2)
	for _, m := range matches {
		present[m.HomeTeamID] = true
		present[m.AwayTeamID] = true
	}

	ids := make([]string, 0, len(present))
	for _, item := range roster {
		if present[item.ID] {
			ids = append(ids, item.ID)
		}
	}

	return ids
}
