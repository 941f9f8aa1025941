package standing

import (
	"testing"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
)

func approved(home, away string, homeGoals, awayGoals int) match.Match {
	return match.Match{
		ID:           home + "-" + away,
		TournamentID: "t-1",
		Round:        match.LeagueRound(1),
		HomeTeamID:   home,
		AwayTeamID:   away,
		Status:       match.StatusApproved,
		HomeScore:    &homeGoals,
		AwayScore:    &awayGoals,
	}
}

func TestBuildTableTotals(t *testing.T) {
	t.Parallel()

	roster := []string{"ath", "bor", "cel", "din"}
	matches := []match.Match{
		approved("ath", "bor", 3, 1),
		approved("cel", "din", 2, 2),
		approved("ath", "cel", 0, 0),
		approved("bor", "din", 1, 2),
	}

	rows := BuildTable("t-1", "", roster, matches)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	byTeam := make(map[string]Standing, len(rows))
	for _, row := range rows {
		byTeam[row.TeamID] = row
	}

	ath := byTeam["ath"]
	if ath.Points != 4 || ath.Won != 1 || ath.Draw != 1 || ath.Lost != 0 {
		t.Fatalf("ath row = %+v", ath)
	}
	if ath.GoalsFor != 3 || ath.GoalsAgainst != 1 || ath.GoalDifference != 2 {
		t.Fatalf("ath goals = %+v", ath)
	}
	if din := byTeam["din"]; din.Points != 4 || din.Played != 2 {
		t.Fatalf("din row = %+v", din)
	}
	if rows[0].TeamID != "ath" || rows[0].Position != 1 {
		t.Fatalf("leader = %+v, want ath on goal difference", rows[0])
	}
}

func TestBuildTableTieBreakChain(t *testing.T) {
	t.Parallel()

	// ppp and rrr finish level on points and goal difference, rrr scored
	// more; qqq is level on points but behind on difference; sss is last
	// on points.
	roster := []string{"ppp", "qqq", "rrr", "sss"}
	matches := []match.Match{
		approved("ppp", "sss", 3, 0),
		approved("qqq", "sss", 1, 0),
		approved("rrr", "sss", 4, 1),
	}

	rows := BuildTable("t-1", "", roster, matches)
	got := make([]string, 0, len(rows))
	for _, row := range rows {
		got = append(got, row.TeamID)
	}

	want := []string{"rrr", "ppp", "qqq", "sss"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestBuildTableStableRosterOrderOnFullTie(t *testing.T) {
	t.Parallel()

	roster := []string{"zzz", "yyy", "xxx", "www"}
	matches := []match.Match{
		approved("zzz", "yyy", 1, 1),
		approved("xxx", "www", 1, 1),
	}

	rows := BuildTable("t-1", "", roster, matches)
	for i, teamID := range roster {
		if rows[i].TeamID != teamID {
			t.Fatalf("position %d = %q, want registration order %v", i+1, rows[i].TeamID, roster)
		}
		if rows[i].Position != i+1 {
			t.Fatalf("position field = %d, want %d", rows[i].Position, i+1)
		}
	}
}

func TestBuildTableIgnoresUnapprovedAndForeignMatches(t *testing.T) {
	t.Parallel()

	roster := []string{"aaa", "bbb"}
	pending := approved("aaa", "bbb", 9, 0)
	pending.Status = match.StatusAwaitingConfirmation
	foreign := approved("ggg", "hhh", 2, 0)
	noScores := approved("bbb", "aaa", 0, 0)
	noScores.HomeScore = nil
	noScores.AwayScore = nil

	rows := BuildTable("t-1", "", roster, []match.Match{pending, foreign, noScores})
	for _, row := range rows {
		if row.Played != 0 || row.Points != 0 {
			t.Fatalf("expected empty table, got %+v", row)
		}
	}
}

func TestBuildTableGroupScope(t *testing.T) {
	t.Parallel()

	roster := []string{"aaa", "bbb"}
	m := approved("aaa", "bbb", 2, 0)
	m.Round = match.GroupRound("A")

	rows := BuildTable("t-1", "A", roster, []match.Match{m})
	for _, row := range rows {
		if row.Group != "A" || row.TournamentID != "t-1" {
			t.Fatalf("row scope = %+v", row)
		}
	}
}
