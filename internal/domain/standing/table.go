package standing

import (
	"sort"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
)

const (
	winPoints  = 3
	drawPoints = 1
)

// BuildTable recomputes a table from scratch over the given matches. Only
// approved matches with recorded scores count; penalty shootouts never
// change a table, so a regulation draw stays a draw. rosterOrder fixes the
// final tie-break: when points, goal difference, and goals scored are all
// level, the team registered earlier ranks higher.
func BuildTable(tournamentID, group string, rosterOrder []string, matches []match.Match) []Standing {
	rows := make([]Standing, 0, len(rosterOrder))
	index := make(map[string]int, len(rosterOrder))
	for _, teamID := range rosterOrder {
		if _, seen := index[teamID]; seen {
			continue
		}
		index[teamID] = len(rows)
		rows = append(rows, Standing{TournamentID: tournamentID, Group: group, TeamID: teamID})
	}

	for _, m := range matches {
		if m.Status != match.StatusApproved || !m.HasResult() {
			continue
		}
		home, okHome := index[m.HomeTeamID]
		away, okAway := index[m.AwayTeamID]
		if !okHome || !okAway {
			continue
		}
		applyResult(&rows[home], &rows[away], *m.HomeScore, *m.AwayScore)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDifference != rows[j].GoalDifference {
			return rows[i].GoalDifference > rows[j].GoalDifference
		}
		return rows[i].GoalsFor > rows[j].GoalsFor
	})
	for i := range rows {
		rows[i].Position = i + 1
	}

	return rows
}

func applyResult(home, away *Standing, homeGoals, awayGoals int) {
	home.Played++
	away.Played++
	home.GoalsFor += homeGoals
	home.GoalsAgainst += awayGoals
	away.GoalsFor += awayGoals
	away.GoalsAgainst += homeGoals
	home.GoalDifference = home.GoalsFor - home.GoalsAgainst
	away.GoalDifference = away.GoalsFor - away.GoalsAgainst

	switch {
	case homeGoals > awayGoals:
		home.Won++
		away.Lost++
		home.Points += winPoints
	case homeGoals < awayGoals:
		away.Won++
		home.Lost++
		away.Points += winPoints
	default:
		home.Draw++
		away.Draw++
		home.Points += drawPoints
		away.Points += drawPoints
	}
}
