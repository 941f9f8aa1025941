package postgres

import (
	"database/sql"
	"time"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
)

type matchTableModel struct {
	ID             int64         `db:"id"`
	PublicID       string        `db:"public_id"`
	TournamentID   string        `db:"tournament_public_id"`
	RoundKind      string        `db:"round_kind"`
	RoundNumber    int           `db:"round_number"`
	RoundGroup     string        `db:"round_group"`
	RoundOpening   bool          `db:"round_opening"`
	Ordinal        int           `db:"ordinal"`
	HomeTeamID     string        `db:"home_team_public_id"`
	AwayTeamID     string        `db:"away_team_public_id"`
	KickoffAt      time.Time     `db:"kickoff_at"`
	Status         string        `db:"status"`
	HomeScore      sql.NullInt64 `db:"home_score"`
	AwayScore      sql.NullInt64 `db:"away_score"`
	PKHomeScore    sql.NullInt64 `db:"pk_home_score"`
	PKAwayScore    sql.NullInt64 `db:"pk_away_score"`
	ResolutionNote string        `db:"resolution_note"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
	DeletedAt      *time.Time    `db:"deleted_at"`
}

type matchInsertModel struct {
	PublicID       string    `db:"public_id"`
	TournamentID   string    `db:"tournament_public_id"`
	RoundKind      string    `db:"round_kind"`
	RoundNumber    int       `db:"round_number"`
	RoundGroup     string    `db:"round_group"`
	RoundOpening   bool      `db:"round_opening"`
	Ordinal        int       `db:"ordinal"`
	HomeTeamID     string    `db:"home_team_public_id"`
	AwayTeamID     string    `db:"away_team_public_id"`
	KickoffAt      time.Time `db:"kickoff_at"`
	Status         string    `db:"status"`
	HomeScore      *int      `db:"home_score"`
	AwayScore      *int      `db:"away_score"`
	PKHomeScore    *int      `db:"pk_home_score"`
	PKAwayScore    *int      `db:"pk_away_score"`
	ResolutionNote string    `db:"resolution_note"`
}

func matchInsertModelFrom(m match.Match) matchInsertModel {
	return matchInsertModel{
		PublicID:       m.ID,
		TournamentID:   m.TournamentID,
		RoundKind:      string(m.Round.Kind),
		RoundNumber:    m.Round.Number,
		RoundGroup:     m.Round.Group,
		RoundOpening:   m.Round.Opening,
		Ordinal:        m.Ordinal,
		HomeTeamID:     m.HomeTeamID,
		AwayTeamID:     m.AwayTeamID,
		KickoffAt:      m.KickoffAt,
		Status:         m.Status,
		HomeScore:      m.HomeScore,
		AwayScore:      m.AwayScore,
		PKHomeScore:    m.PKHomeScore,
		PKAwayScore:    m.PKAwayScore,
		ResolutionNote: m.ResolutionNote,
	}
}

func (row matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:           row.PublicID,
		TournamentID: row.TournamentID,
		Round: match.RoundRef{
			Kind:    match.RoundKind(row.RoundKind),
			Number:  row.RoundNumber,
			Group:   row.RoundGroup,
			Opening: row.RoundOpening,
		},
		Ordinal:        row.Ordinal,
		HomeTeamID:     row.HomeTeamID,
		AwayTeamID:     row.AwayTeamID,
		KickoffAt:      row.KickoffAt,
		Status:         row.Status,
		HomeScore:      nullIntToPtr(row.HomeScore),
		AwayScore:      nullIntToPtr(row.AwayScore),
		PKHomeScore:    nullIntToPtr(row.PKHomeScore),
		PKAwayScore:    nullIntToPtr(row.PKAwayScore),
		ResolutionNote: row.ResolutionNote,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func nullIntToPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}
