package match

import (
	"fmt"
	"strconv"
	"strings"
)

// RoundKind discriminates the RoundRef variant.
type RoundKind string

const (
	KindLeague   RoundKind = "league"
	KindGroup    RoundKind = "group"
	KindKnockout RoundKind = "knockout"
	KindSwiss    RoundKind = "swiss"
)

// RoundRef places a match inside the tournament structure. It replaces the
// free-form round label: Number is the round number for league and swiss
// rounds and the number of teams still in contention for knockout rounds,
// Group is the group letter for group rounds. Opening marks the first
// knockout round of a bracket, which always renders as "Round of N"; only
// rounds built by progression take the Quarter-Final/Semi-Final ladder
// names.
type RoundRef struct {
	Kind    RoundKind
	Number  int
	Group   string
	Opening bool
}

func LeagueRound(number int) RoundRef {
	return RoundRef{Kind: KindLeague, Number: number}
}

func GroupRound(letter string) RoundRef {
	return RoundRef{Kind: KindGroup, Group: letter}
}

func KnockoutRound(teamCount int) RoundRef {
	return RoundRef{Kind: KindKnockout, Number: teamCount}
}

func OpeningKnockoutRound(teamCount int) RoundRef {
	return RoundRef{Kind: KindKnockout, Number: teamCount, Opening: true}
}

func SwissRound(number int) RoundRef {
	return RoundRef{Kind: KindSwiss, Number: number}
}

func (r RoundRef) Validate() error {
	switch r.Kind {
	case KindLeague, KindSwiss:
		if r.Number < 1 {
			return fmt.Errorf("%s round number must be >= 1", r.Kind)
		}
	case KindGroup:
		if r.Group == "" {
			return fmt.Errorf("group round needs a group letter")
		}
	case KindKnockout:
		if r.Number < 2 {
			return fmt.Errorf("knockout round needs at least 2 teams")
		}
	default:
		return fmt.Errorf("unknown round kind %q", r.Kind)
	}

	return nil
}

// Label renders the display name for the round.
func (r RoundRef) Label() string {
	switch r.Kind {
	case KindGroup:
		return "Group " + r.Group
	case KindKnockout:
		if r.Opening && r.Number > 2 {
			return fmt.Sprintf("Round of %d", r.Number)
		}
		switch r.Number {
		case 2:
			return "Final"
		case 4:
			return "Semi-Final"
		case 8:
			return "Quarter-Final"
		default:
			return fmt.Sprintf("Round of %d", r.Number)
		}
	default:
		return fmt.Sprintf("Round %d", r.Number)
	}
}

// Less orders rounds for display: group stages precede knockout rounds and
// knockout rounds shrink toward the Final.
func Less(a, b RoundRef) bool {
	if a.Kind != b.Kind {
		return kindRank(a.Kind) < kindRank(b.Kind)
	}
	switch a.Kind {
	case KindGroup:
		return a.Group < b.Group
	case KindKnockout:
		return a.Number > b.Number
	default:
		return a.Number < b.Number
	}
}

func kindRank(kind RoundKind) int {
	switch kind {
	case KindGroup:
		return 0
	case KindKnockout:
		return 2
	default:
		return 1
	}
}

// Stage identifies the set of rounds that must all resolve before the
// tournament can move on. A whole group stage is one stage; every knockout
// and swiss round is its own stage; a league schedule is a single stage.
type Stage struct {
	Kind   RoundKind
	Number int
}

func (r RoundRef) Stage() Stage {
	switch r.Kind {
	case KindGroup, KindLeague:
		return Stage{Kind: r.Kind}
	default:
		return Stage{Kind: r.Kind, Number: r.Number}
	}
}

// Key serializes the stage for the tournaments.current_stage column.
func (s Stage) Key() string {
	if s.Number == 0 {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s:%d", s.Kind, s.Number)
}

func ParseStage(key string) (Stage, error) {
	kindPart, numberPart, hasNumber := strings.Cut(key, ":")
	kind := RoundKind(kindPart)
	switch kind {
	case KindLeague, KindGroup, KindKnockout, KindSwiss:
	default:
		return Stage{}, fmt.Errorf("unknown stage key %q", key)
	}
	if !hasNumber {
		return Stage{Kind: kind}, nil
	}

	number, err := strconv.Atoi(numberPart)
	if err != nil || number < 1 {
		return Stage{}, fmt.Errorf("invalid stage key %q", key)
	}

	return Stage{Kind: kind, Number: number}, nil
}
