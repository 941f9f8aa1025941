// Package cache wraps repositories with read-through caching. Tournament and
// match reads stay uncached: progression decisions must see current rows.
package cache

import (
	"context"

	"github.com/matchdayhq/tournament-engine/internal/domain/standing"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
	basecache "github.com/matchdayhq/tournament-engine/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) Add(ctx context.Context, t team.Team) error {
	if err := r.next.Add(ctx, t); err != nil {
		return err
	}
	r.cache.Delete(ctx, "team:id:"+t.ID)
	r.cache.Delete(ctx, "team:list:"+t.TournamentID)
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	key := "team:id:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]team.Team, error) {
	key := "team:list:" + tournamentID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

type StandingRepository struct {
	next  standing.Repository
	cache *basecache.Store
}

func NewStandingRepository(next standing.Repository, cache *basecache.Store) *StandingRepository {
	return &StandingRepository{next: next, cache: cache}
}

func (r *StandingRepository) ListByTournament(ctx context.Context, tournamentID string) ([]standing.Standing, error) {
	key := "standing:list:" + tournamentID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		rows, err := r.next.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return append([]standing.Standing(nil), rows...), nil
	})
	if err != nil {
		return nil, err
	}

	rows, _ := v.([]standing.Standing)
	return append([]standing.Standing(nil), rows...), nil
}

func (r *StandingRepository) ReplaceByTournament(ctx context.Context, tournamentID string, rows []standing.Standing) error {
	if err := r.next.ReplaceByTournament(ctx, tournamentID, rows); err != nil {
		return err
	}
	r.cache.Delete(ctx, "standing:list:"+tournamentID)
	return nil
}
