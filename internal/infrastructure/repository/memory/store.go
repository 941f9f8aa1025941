package memory

import (
	"sync"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/standing"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
)

// Store keeps every entity behind one lock so that cross-entity writes,
// above all stage transitions inserting the next round's fixtures, are as
// atomic as the postgres transactions they stand in for. The per-entity
// repositories are thin views over it.
type Store struct {
	mu sync.RWMutex

	tournaments     map[string]tournament.Tournament
	tournamentOrder []string

	teamsByTournament map[string][]team.Team

	matches    map[string]match.Match
	matchOrder []string

	standingsByTournament map[string][]standing.Standing
}

func NewStore() *Store {
	return &Store{
		tournaments:           make(map[string]tournament.Tournament),
		teamsByTournament:     make(map[string][]team.Team),
		matches:               make(map[string]match.Match),
		standingsByTournament: make(map[string][]standing.Standing),
	}
}

// insertMatchLocked appends a match preserving insertion order. Callers hold
// the write lock.
func (s *Store) insertMatchLocked(m match.Match) {
	if _, seen := s.matches[m.ID]; !seen {
		s.matchOrder = append(s.matchOrder, m.ID)
	}
	s.matches[m.ID] = m
}
