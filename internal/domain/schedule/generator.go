package schedule

import (
	"fmt"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
)

// Fixture is one generated pairing, not yet persisted.
type Fixture struct {
	HomeTeamID string
	AwayTeamID string
	Round      match.RoundRef
	// Matchday is the 1-based matchday inside the generated cycle; callers
	// use it to space kickoff dates.
	Matchday int
}

const byeSlot = ""

const maxGroups = 26

// Opening produces the initial fixtures for a tournament. The roster must
// already be shuffled for fairness; generation itself is deterministic.
// Bracket formats only get their first round here; later rounds depend on
// winners and come from progression.
func Opening(t tournament.Tournament, roster []team.Team) ([]Fixture, error) {
	if len(roster) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 teams, have %d", ErrInsufficientTeams, len(roster))
	}

	switch t.Format {
	case tournament.FormatLeague:
		return League(teamIDs(roster))
	case tournament.FormatCup:
		if t.Config.GroupSize == 0 {
			return Knockout(teamIDs(roster))
		}
		return CupGroups(teamIDs(roster), t.Config.GroupSize)
	case tournament.FormatChampionsLeague:
		pots, err := seedPots(roster)
		if err != nil {
			return nil, err
		}
		return ChampionsLeague(pots)
	case tournament.FormatSwiss:
		return SwissOpening(teamIDs(roster), t.Config.SwissRounds)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrConfiguration, t.Format)
	}
}

// League lays out a single round-robin with the circle method: the first
// team stays fixed while the rest rotate one position per round. Odd
// rosters get a bye slot and matches against it are skipped.
func League(teamIDs []string) ([]Fixture, error) {
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 teams, have %d", ErrInsufficientTeams, len(teamIDs))
	}

	var fixtures []Fixture
	for day, pairs := range roundRobinRounds(teamIDs) {
		round := match.LeagueRound(day + 1)
		for _, pair := range pairs {
			fixtures = append(fixtures, Fixture{
				HomeTeamID: pair[0],
				AwayTeamID: pair[1],
				Round:      round,
				Matchday:   day + 1,
			})
		}
	}

	return fixtures, nil
}

// CupGroups partitions the roster into balanced groups around the target
// size and lays out an independent single round-robin per group. Every
// fixture of a group carries that group's round.
func CupGroups(teamIDs []string, groupSize int) ([]Fixture, error) {
	if groupSize < 2 {
		return nil, fmt.Errorf("%w: group size must be >= 2, have %d", ErrConfiguration, groupSize)
	}
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 teams, have %d", ErrInsufficientTeams, len(teamIDs))
	}

	groups, err := partition(teamIDs, groupSize)
	if err != nil {
		return nil, err
	}

	var fixtures []Fixture
	for g, members := range groups {
		round := match.GroupRound(groupLetter(g))
		for day, pairs := range roundRobinRounds(members) {
			for _, pair := range pairs {
				fixtures = append(fixtures, Fixture{
					HomeTeamID: pair[0],
					AwayTeamID: pair[1],
					Round:      round,
					Matchday:   day + 1,
				})
			}
		}
	}

	return fixtures, nil
}

// Knockout pairs a pre-shuffled roster into the opening bracket round,
// first against second, third against fourth, and so on. The opening round
// is always "Round of N"; later rounds are never emitted here.
func Knockout(teamIDs []string) ([]Fixture, error) {
	n := len(teamIDs)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 teams, have %d", ErrInsufficientTeams, n)
	}
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: a knockout bracket needs a power-of-two field, have %d teams", ErrConfiguration, n)
	}

	return pairSeeds(teamIDs, match.OpeningKnockoutRound(n)), nil
}

// pairSeeds turns an ordered seed list into bracket fixtures, adjacent
// seeds meeting each other.
func pairSeeds(seeds []string, round match.RoundRef) []Fixture {
	fixtures := make([]Fixture, 0, len(seeds)/2)
	for i := 0; i < len(seeds); i += 2 {
		fixtures = append(fixtures, Fixture{
			HomeTeamID: seeds[i],
			AwayTeamID: seeds[i+1],
			Round:      round,
			Matchday:   1,
		})
	}

	return fixtures
}

// ChampionsLeague draws exactly one team from each pot into every group and
// lays out a double round-robin per group. The pot size dictates the group
// count, so all pots must be the same size.
func ChampionsLeague(pots [][]string) ([]Fixture, error) {
	if len(pots) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 pots to fill groups, have %d", ErrSeeding, len(pots))
	}

	groupCount := len(pots[0])
	for i, pot := range pots {
		if len(pot) != groupCount {
			return nil, fmt.Errorf("%w: pot %d holds %d teams, every pot must hold %d", ErrSeeding, i+1, len(pot), groupCount)
		}
	}
	if groupCount < 1 {
		return nil, fmt.Errorf("%w: pots are empty", ErrSeeding)
	}
	if groupCount > maxGroups {
		return nil, fmt.Errorf("%w: %d groups exceed the supported %d", ErrConfiguration, groupCount, maxGroups)
	}

	var fixtures []Fixture
	for g := 0; g < groupCount; g++ {
		members := make([]string, 0, len(pots))
		for _, pot := range pots {
			members = append(members, pot[g])
		}

		round := match.GroupRound(groupLetter(g))
		cycle := roundRobinRounds(members)
		day := 0
		for _, pairs := range cycle {
			day++
			for _, pair := range pairs {
				fixtures = append(fixtures, Fixture{
					HomeTeamID: pair[0],
					AwayTeamID: pair[1],
					Round:      round,
					Matchday:   day,
				})
			}
		}
		for _, pairs := range cycle {
			day++
			for _, pair := range pairs {
				fixtures = append(fixtures, Fixture{
					HomeTeamID: pair[1],
					AwayTeamID: pair[0],
					Round:      round,
					Matchday:   day,
				})
			}
		}
	}

	return fixtures, nil
}

// SwissOpening pairs the pre-shuffled roster sequentially for round 1.
// Later rounds are ranked pairings and come from progression.
func SwissOpening(teamIDs []string, rounds int) ([]Fixture, error) {
	n := len(teamIDs)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 teams, have %d", ErrInsufficientTeams, n)
	}
	if n%2 != 0 {
		return nil, fmt.Errorf("%w: swiss needs an even roster, have %d teams", ErrConfiguration, n)
	}
	if rounds < 1 {
		return nil, fmt.Errorf("%w: swiss needs a fixed round count >= 1", ErrConfiguration)
	}
	if rounds > n-1 {
		return nil, fmt.Errorf("%w: %d swiss rounds cannot avoid repeats with %d teams", ErrConfiguration, rounds, n)
	}

	round := match.SwissRound(1)
	fixtures := make([]Fixture, 0, n/2)
	for i := 0; i < n; i += 2 {
		fixtures = append(fixtures, Fixture{
			HomeTeamID: teamIDs[i],
			AwayTeamID: teamIDs[i+1],
			Round:      round,
			Matchday:   1,
		})
	}

	return fixtures, nil
}

// roundRobinRounds returns the circle-method matchdays for a single
// round-robin: n-1 rounds for even n, n rounds with one bye each for odd n.
// Venues flip on odd matchdays so the fixed team does not host everything.
func roundRobinRounds(teamIDs []string) [][][2]string {
	working := append([]string(nil), teamIDs...)
	if len(working)%2 == 1 {
		working = append(working, byeSlot)
	}

	n := len(working)
	rounds := make([][][2]string, 0, n-1)
	for day := 0; day < n-1; day++ {
		pairs := make([][2]string, 0, n/2)
		for i := 0; i < n/2; i++ {
			home, away := working[i], working[n-1-i]
			if home == byeSlot || away == byeSlot {
				continue
			}
			if day%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, [2]string{home, away})
		}
		rounds = append(rounds, pairs)
		working = append([]string{working[0]}, append([]string{working[n-1]}, working[1:n-1]...)...)
	}

	return rounds
}

// partition splits teams into groups around the target size, as evenly as
// possible, never smaller than two.
func partition(teamIDs []string, size int) ([][]string, error) {
	n := len(teamIDs)
	count := (n + size - 1) / size
	if count > n/2 {
		count = n / 2
	}
	if count < 1 {
		count = 1
	}
	if count > maxGroups {
		return nil, fmt.Errorf("%w: %d groups exceed the supported %d", ErrConfiguration, count, maxGroups)
	}

	base := n / count
	extra := n % count
	groups := make([][]string, 0, count)
	offset := 0
	for g := 0; g < count; g++ {
		members := base
		if g < extra {
			members++
		}
		groups = append(groups, teamIDs[offset:offset+members])
		offset += members
	}

	return groups, nil
}

// seedPots buckets a champions-league roster by seeding pot. Every team
// needs a pot and pot numbers must be contiguous from 1.
func seedPots(roster []team.Team) ([][]string, error) {
	maxPot := 0
	for _, tm := range roster {
		if tm.SeedPot < 1 {
			return nil, fmt.Errorf("%w: team %s has no seeding pot", ErrSeeding, tm.ID)
		}
		if tm.SeedPot > maxPot {
			maxPot = tm.SeedPot
		}
	}

	pots := make([][]string, maxPot)
	for _, tm := range roster {
		pots[tm.SeedPot-1] = append(pots[tm.SeedPot-1], tm.ID)
	}
	for i, pot := range pots {
		if len(pot) == 0 {
			return nil, fmt.Errorf("%w: pot %d is empty", ErrSeeding, i+1)
		}
	}

	return pots, nil
}

func groupLetter(i int) string {
	return string(rune('A' + i))
}

func teamIDs(roster []team.Team) []string {
	ids := make([]string, 0, len(roster))
	for _, tm := range roster {
		ids = append(ids, tm.ID)
	}
	return ids
}
