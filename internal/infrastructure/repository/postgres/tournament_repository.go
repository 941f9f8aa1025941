package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
	qb "github.com/matchdayhq/tournament-engine/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) Create(ctx context.Context, t tournament.Tournament) error {
	insertModel := tournamentInsertModel{
		PublicID:        t.ID,
		Name:            t.Name,
		Format:          t.Format,
		GroupSize:       t.Config.GroupSize,
		AdvancePerGroup: t.Config.AdvancePerGroup,
		SwissRounds:     t.Config.SwissRounds,
		Status:          t.Status,
		CurrentStage:    t.CurrentStage,
		RoundSeq:        t.RoundSeq,
	}
	query, args, err := qb.InsertModel("tournaments", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create tournament query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create tournament: %w", err)
	}

	return nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(
			qb.Eq("public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament by id query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TournamentRepository) UpdateStatus(ctx context.Context, tournamentID, status string) error {
	query, args, err := qb.Update("tournaments").
		Set("status", status).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update tournament status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update tournament status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update tournament status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("tournament %s not found", tournamentID)
	}

	return nil
}

// Advance commits a stage transition atomically: the status/stage/round-seq
// update and the next round's fixtures land in one transaction, and the
// update is conditional on the round sequence the caller read. A lost race
// surfaces as tournament.ErrStaleRound and writes nothing.
func (r *TournamentRepository) Advance(ctx context.Context, transition tournament.StageTransition) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx advance tournament: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("tournaments").
		SetExpr("round_seq", "round_seq + 1").
		Set("current_stage", transition.Stage).
		Set("status", transition.Status).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", transition.TournamentID),
			qb.Eq("round_seq", transition.FromSeq),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build advance tournament query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("advance tournament: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected advance tournament: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("advance tournament %s from seq %d: %w",
			transition.TournamentID, transition.FromSeq, tournament.ErrStaleRound)
	}

	for _, m := range transition.Fixtures {
		query, args, err := qb.InsertModel("matches", matchInsertModelFrom(m), "")
		if err != nil {
			return fmt.Errorf("build insert fixture query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert fixture %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit advance tournament tx: %w", err)
	}

	return nil
}
