package schedule

import (
	"fmt"
	"sort"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/standing"
)

// Outstanding counts matches that still block progression for a stage:
// anything not yet approved, plus approved knockout draws without a
// decisive shootout.
func Outstanding(stageMatches []match.Match) int {
	count := 0
	for _, m := range stageMatches {
		if m.Round.Kind == match.KindKnockout {
			if _, decided := m.Winner(); !decided {
				count++
			}
			continue
		}
		if m.Status != match.StatusApproved {
			count++
		}
	}

	return count
}

// NextKnockout advances a completed knockout round. Winners pair in bracket
// order, match 1's winner against match 2's, match 3's against match 4's,
// never re-shuffled. The done flag is true when the finished round was the
// Final, in which case no fixtures follow.
func NextKnockout(roundMatches []match.Match) ([]Fixture, bool, error) {
	if len(roundMatches) == 0 {
		return nil, false, fmt.Errorf("%w: the active round has no matches", ErrConfiguration)
	}

	ordered := append([]match.Match(nil), roundMatches...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Ordinal < ordered[j].Ordinal })

	winners := make([]string, 0, len(ordered))
	outstanding := 0
	for _, m := range ordered {
		winner, decided := m.Winner()
		if !decided {
			outstanding++
			continue
		}
		winners = append(winners, winner)
	}
	if outstanding > 0 {
		return nil, false, &IncompleteRoundError{Outstanding: outstanding}
	}

	if len(winners) == 1 {
		return nil, true, nil
	}
	if len(winners)%2 != 0 {
		return nil, false, fmt.Errorf("%w: cannot pair %d winners", ErrConfiguration, len(winners))
	}

	return pairSeeds(winners, match.KnockoutRound(len(winners))), false, nil
}

// KnockoutFromGroups seeds the opening bracket from the final group tables.
// One advancing team per group pairs adjacent group winners (A1 vs B1); two
// advancing teams cross-pair winners against the neighbouring runner-up
// (A1 vs B2, B1 vs A2). Other advance counts have no defined seeding.
func KnockoutFromGroups(rosterOrder []string, groupMatches []match.Match, advance int) ([]Fixture, error) {
	if advance < 1 {
		return nil, fmt.Errorf("%w: advancing-team count is not set", ErrConfiguration)
	}

	byGroup := make(map[string][]match.Match)
	var letters []string
	for _, m := range groupMatches {
		if m.Round.Kind != match.KindGroup {
			continue
		}
		if _, seen := byGroup[m.Round.Group]; !seen {
			letters = append(letters, m.Round.Group)
		}
		byGroup[m.Round.Group] = append(byGroup[m.Round.Group], m)
	}
	if len(letters) == 0 {
		return nil, fmt.Errorf("%w: no group matches to advance from", ErrConfiguration)
	}
	sort.Strings(letters)

	qualifiers := make(map[string][]string, len(letters))
	for _, letter := range letters {
		members := groupMembers(byGroup[letter], rosterOrder)
		if advance > len(members) {
			return nil, fmt.Errorf("%w: cannot advance %d from a group of %d", ErrConfiguration, advance, len(members))
		}
		table := standing.BuildTable("", letter, members, byGroup[letter])
		top := make([]string, 0, advance)
		for i := 0; i < advance; i++ {
			top = append(top, table[i].TeamID)
		}
		qualifiers[letter] = top
	}

	switch advance {
	case 1:
		seeds := make([]string, 0, len(letters))
		for _, letter := range letters {
			seeds = append(seeds, qualifiers[letter][0])
		}
		return knockoutSeeds(seeds)
	case 2:
		if len(letters)%2 != 0 {
			return nil, fmt.Errorf("%w: cross-pairing needs an even group count, have %d", ErrConfiguration, len(letters))
		}
		seeds := make([]string, 0, len(letters)*2)
		for i := 0; i < len(letters); i += 2 {
			first, second := qualifiers[letters[i]], qualifiers[letters[i+1]]
			seeds = append(seeds, first[0], second[1], second[0], first[1])
		}
		return knockoutSeeds(seeds)
	default:
		return nil, fmt.Errorf("%w: no seeding rule for advancing %d per group", ErrConfiguration, advance)
	}
}

// knockoutSeeds builds the bracket round that a completed group stage feeds.
// Group-fed rounds take the ladder names, not the opening "Round of N".
func knockoutSeeds(seeds []string) ([]Fixture, error) {
	n := len(seeds)
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d qualifiers cannot fill a bracket", ErrConfiguration, n)
	}
	return pairSeeds(seeds, match.KnockoutRound(n)), nil
}

// NextSwissRound ranks the roster over every played swiss match and pairs
// adjacent teams, swapping in the next available opponent whenever strict
// adjacency would repeat an earlier pairing. The done flag is true once the
// configured round count has been played out.
func NextSwissRound(current, total int, rosterOrder []string, allMatches []match.Match) ([]Fixture, bool, error) {
	if current >= total {
		return nil, true, nil
	}

	table := standing.BuildTable("", "", rosterOrder, allMatches)
	ranked := make([]string, 0, len(table))
	for _, row := range table {
		ranked = append(ranked, row.TeamID)
	}

	played := make(map[string]bool, len(allMatches))
	for _, m := range allMatches {
		played[pairKey(m.HomeTeamID, m.AwayTeamID)] = true
	}

	pairs, err := pairAvoidingRepeats(ranked, played)
	if err != nil {
		return nil, false, err
	}

	round := match.SwissRound(current + 1)
	fixtures := make([]Fixture, 0, len(pairs))
	for _, pair := range pairs {
		fixtures = append(fixtures, Fixture{
			HomeTeamID: pair[0],
			AwayTeamID: pair[1],
			Round:      round,
			Matchday:   1,
		})
	}

	return fixtures, false, nil
}

func pairAvoidingRepeats(ranked []string, played map[string]bool) ([][2]string, error) {
	if len(ranked)%2 != 0 {
		return nil, fmt.Errorf("%w: swiss needs an even roster, have %d teams", ErrConfiguration, len(ranked))
	}

	used := make([]bool, len(ranked))
	pairs := make([][2]string, 0, len(ranked)/2)
	for i := 0; i < len(ranked); i++ {
		if used[i] {
			continue
		}
		partner := -1
		for j := i + 1; j < len(ranked); j++ {
			if used[j] || played[pairKey(ranked[i], ranked[j])] {
				continue
			}
			partner = j
			break
		}
		if partner == -1 {
			return nil, fmt.Errorf("%w: no repeat-free opponent left for %s", ErrConfiguration, ranked[i])
		}
		used[i], used[partner] = true, true
		pairs = append(pairs, [2]string{ranked[i], ranked[partner]})
	}

	return pairs, nil
}

func groupMembers(matches []match.Match, rosterOrder []string) []string {
	present := make(map[string]bool, len(matches)*2)
	for _, m := range matches {
		present[m.HomeTeamID] = true
		present[m.AwayTeamID] = true
	}

	members := make([]string, 0, len(present))
	for _, teamID := range rosterOrder {
		if present[teamID] {
			members = append(members, teamID)
		}
	}

	return members
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
