package usecase

import (
	"context"
	"testing"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/standing"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
)

func approvedMatch(id string, round match.RoundRef, home, away string, homeGoals, awayGoals int) match.Match {
	return match.Match{
		ID:           id,
		TournamentID: "trn-1",
		Round:        round,
		HomeTeamID:   home,
		AwayTeamID:   away,
		Status:       match.StatusApproved,
		HomeScore:    intPtr(homeGoals),
		AwayScore:    intPtr(awayGoals),
	}
}

func seedStandingService(roster []string, matches ...match.Match) (*stubStandingRepository, *StandingService) {
	teams := newStubTeamRepository()
	for _, id := range roster {
		teams.byTournament["trn-1"] = append(teams.byTournament["trn-1"], team.Team{
			ID:           id,
			TournamentID: "trn-1",
			Name:         id,
			CaptainID:    "captain-" + id,
		})
	}
	matchRepo := newStubMatchRepository()
	matchRepo.insert(matches)
	standings := newStubStandingRepository()
	return standings, NewStandingService(teams, matchRepo, standings)
}

func TestRecomputeBuildsGroupTables(t *testing.T) {
	t.Parallel()

	standings, svc := seedStandingService(
		[]string{"a1", "a2", "b1", "b2"},
		approvedMatch("ga", match.GroupRound("A"), "a1", "a2", 2, 0),
		approvedMatch("gb", match.GroupRound("B"), "b1", "b2", 1, 1),
	)

	if err := svc.Recompute(context.Background(), "trn-1"); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if standings.replaceCalls != 1 {
		t.Fatalf("replace calls = %d, want 1", standings.replaceCalls)
	}

	rows, err := svc.ListByTournament(context.Background(), "trn-1")
	if err != nil {
		t.Fatalf("ListByTournament: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}

	winner := rows[0]
	if winner.Group != "A" || winner.TeamID != "a1" || winner.Position != 1 || winner.Points != 3 {
		t.Fatalf("group A winner = %+v", winner)
	}
	if rows[1].TeamID != "a2" || rows[1].Points != 0 {
		t.Fatalf("group A runner-up = %+v", rows[1])
	}

	// Drawn group B splits the points; registration order breaks the tie.
	if rows[2].Group != "B" || rows[2].TeamID != "b1" || rows[2].Points != 1 {
		t.Fatalf("group B leader = %+v", rows[2])
	}
	if rows[3].TeamID != "b2" || rows[3].Points != 1 {
		t.Fatalf("group B runner-up = %+v", rows[3])
	}
}

func TestRecomputeIgnoresKnockoutMatches(t *testing.T) {
	t.Parallel()

	// The bracket after the groups must not leak into the group tables,
	// even when it pairs teams from the same table.
	standings, svc := seedStandingService(
		[]string{"a1", "a2", "b1", "b2"},
		approvedMatch("ga", match.GroupRound("A"), "a1", "a2", 2, 0),
		approvedMatch("gb", match.GroupRound("B"), "b1", "b2", 3, 0),
		approvedMatch("final", match.KnockoutRound(2), "a1", "b1", 0, 5),
	)

	if err := svc.Recompute(context.Background(), "trn-1"); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	rows, _ := standings.ListByTournament(context.Background(), "trn-1")
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[0].TeamID != "a1" || rows[0].GoalsAgainst != 0 {
		t.Fatalf("bracket result leaked into the table: %+v", rows[0])
	}
}

func TestRecomputePureBracketYieldsNoRows(t *testing.T) {
	t.Parallel()

	standings, svc := seedStandingService(
		[]string{"a", "b"},
		approvedMatch("final", match.KnockoutRound(2), "a", "b", 1, 0),
	)

	if err := svc.Recompute(context.Background(), "trn-1"); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if standings.replaceCalls != 1 {
		t.Fatalf("replace calls = %d, want 1", standings.replaceCalls)
	}

	rows, _ := standings.ListByTournament(context.Background(), "trn-1")
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want none for a pure bracket", len(rows))
	}
}

func TestListByTournamentComputesWhenUnstored(t *testing.T) {
	t.Parallel()

	standings, svc := seedStandingService(
		[]string{"a", "b"},
		approvedMatch("md1", match.LeagueRound(1), "a", "b", 4, 1),
	)

	rows, err := svc.ListByTournament(context.Background(), "trn-1")
	if err != nil {
		t.Fatalf("ListByTournament: %v", err)
	}
	if len(rows) != 2 || rows[0].TeamID != "a" || rows[0].Points != 3 {
		t.Fatalf("rows = %+v", rows)
	}

	// The fallback serves reads without writing anything back.
	if standings.replaceCalls != 0 {
		t.Fatalf("replace calls = %d, want 0", standings.replaceCalls)
	}
}

func TestListByTournamentPrefersStoredRows(t *testing.T) {
	t.Parallel()

	standings, svc := seedStandingService(
		[]string{"a", "b"},
		approvedMatch("md1", match.LeagueRound(1), "a", "b", 4, 1),
	)

	stored := []standing.Standing{{TournamentID: "trn-1", TeamID: "b", Position: 1, Points: 99}}
	if err := standings.ReplaceByTournament(context.Background(), "trn-1", stored); err != nil {
		t.Fatalf("seed stored rows: %v", err)
	}

	rows, err := svc.ListByTournament(context.Background(), "trn-1")
	if err != nil {
		t.Fatalf("ListByTournament: %v", err)
	}
	if len(rows) != 1 || rows[0].TeamID != "b" || rows[0].Points != 99 {
		t.Fatalf("rows = %+v, want the stored snapshot", rows)
	}
}
