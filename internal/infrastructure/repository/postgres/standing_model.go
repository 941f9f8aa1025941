package postgres

import (
	"time"

	"github.com/matchdayhq/tournament-engine/internal/domain/standing"
)

type standingTableModel struct {
	ID             int64      `db:"id"`
	TournamentID   string     `db:"tournament_public_id"`
	GroupLetter    string     `db:"group_letter"`
	TeamID         string     `db:"team_public_id"`
	Position       int        `db:"position"`
	Played         int        `db:"played"`
	Won            int        `db:"won"`
	Draw           int        `db:"draw"`
	Lost           int        `db:"lost"`
	GoalsFor       int        `db:"goals_for"`
	GoalsAgainst   int        `db:"goals_against"`
	GoalDifference int        `db:"goal_difference"`
	Points         int        `db:"points"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type standingInsertModel struct {
	TournamentID   string `db:"tournament_public_id"`
	GroupLetter    string `db:"group_letter"`
	TeamID         string `db:"team_public_id"`
	Position       int    `db:"position"`
	Played         int    `db:"played"`
	Won            int    `db:"won"`
	Draw           int    `db:"draw"`
	Lost           int    `db:"lost"`
	GoalsFor       int    `db:"goals_for"`
	GoalsAgainst   int    `db:"goals_against"`
	GoalDifference int    `db:"goal_difference"`
	Points         int    `db:"points"`
}

func (row standingTableModel) toDomain() standing.Standing {
	return standing.Standing{
		TournamentID:   row.TournamentID,
		Group:          row.GroupLetter,
		TeamID:         row.TeamID,
		Position:       row.Position,
		Played:         row.Played,
		Won:            row.Won,
		Draw:           row.Draw,
		Lost:           row.Lost,
		GoalsFor:       row.GoalsFor,
		GoalsAgainst:   row.GoalsAgainst,
		GoalDifference: row.GoalDifference,
		Points:         row.Points,
	}
}
