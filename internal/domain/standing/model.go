package standing

// Standing is one table row for a team inside a group, a league table, or a
// swiss table. Rows are derived data: recomputed from approved matches,
// never hand-edited.
type Standing struct {
	TournamentID   string
	Group          string
	TeamID         string
	Position       int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}
