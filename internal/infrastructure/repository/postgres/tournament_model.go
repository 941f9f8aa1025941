package postgres

import (
	"time"

	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
)

type tournamentTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	Name            string     `db:"name"`
	Format          string     `db:"format"`
	GroupSize       int        `db:"group_size"`
	AdvancePerGroup int        `db:"advance_per_group"`
	SwissRounds     int        `db:"swiss_rounds"`
	Status          string     `db:"status"`
	CurrentStage    string     `db:"current_stage"`
	RoundSeq        int        `db:"round_seq"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type tournamentInsertModel struct {
	PublicID        string `db:"public_id"`
	Name            string `db:"name"`
	Format          string `db:"format"`
	GroupSize       int    `db:"group_size"`
	AdvancePerGroup int    `db:"advance_per_group"`
	SwissRounds     int    `db:"swiss_rounds"`
	Status          string `db:"status"`
	CurrentStage    string `db:"current_stage"`
	RoundSeq        int    `db:"round_seq"`
}

func (row tournamentTableModel) toDomain() tournament.Tournament {
	return tournament.Tournament{
		ID:     row.PublicID,
		Name:   row.Name,
		Format: row.Format,
		Status: row.Status,
		Config: tournament.Config{
			GroupSize:       row.GroupSize,
			AdvancePerGroup: row.AdvancePerGroup,
			SwissRounds:     row.SwissRounds,
		},
		CurrentStage: row.CurrentStage,
		RoundSeq:     row.RoundSeq,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
