package postgres

import (
	"time"

	"github.com/matchdayhq/tournament-engine/internal/domain/team"
)

type teamTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	TournamentID string     `db:"tournament_public_id"`
	Name         string     `db:"name"`
	CaptainID    string     `db:"captain_id"`
	SeedPot      int        `db:"seed_pot"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID     string `db:"public_id"`
	TournamentID string `db:"tournament_public_id"`
	Name         string `db:"name"`
	CaptainID    string `db:"captain_id"`
	SeedPot      int    `db:"seed_pot"`
}

func (row teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:           row.PublicID,
		TournamentID: row.TournamentID,
		Name:         row.Name,
		CaptainID:    row.CaptainID,
		SeedPot:      row.SeedPot,
		CreatedAt:    row.CreatedAt,
	}
}
