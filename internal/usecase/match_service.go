package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
)

type ReportResultInput struct {
	MatchID     string
	HomeScore   int
	AwayScore   int
	PKHomeScore *int
	PKAwayScore *int
}

type ResolveMatchInput struct {
	MatchID string
	Note    string
}

type MatchService struct {
	matchRepo match.Repository
	standings standingsRecomputer
	now       func() time.Time
}

type standingsRecomputer interface {
	Recompute(ctx context.Context, tournamentID string) error
}

func NewMatchService(matchRepo match.Repository, standings standingsRecomputer) *MatchService {
	return &MatchService{
		matchRepo: matchRepo,
		standings: standings,
		now:       time.Now,
	}
}

// ReportResult records the scores a captain submitted. Penalty scores are
// accepted only on knockout matches whose regulation scores are level.
func (s *MatchService) ReportResult(ctx context.Context, input ReportResultInput) (match.Match, error) {
	ctx, span := startServiceSpan(ctx, "usecase.MatchService.ReportResult")
	defer span.End()

	if input.HomeScore < 0 || input.AwayScore < 0 {
		return match.Match{}, fmt.Errorf("%w: scores cannot be negative", ErrInvalidInput)
	}
	if (input.PKHomeScore == nil) != (input.PKAwayScore == nil) {
		return match.Match{}, fmt.Errorf("%w: penalty scores need both sides", ErrInvalidInput)
	}
	if input.PKHomeScore != nil && (*input.PKHomeScore < 0 || *input.PKAwayScore < 0) {
		return match.Match{}, fmt.Errorf("%w: penalty scores cannot be negative", ErrInvalidInput)
	}

	m, err := s.get(ctx, input.MatchID)
	if err != nil {
		return match.Match{}, err
	}
	if input.PKHomeScore != nil {
		if m.Round.Kind != match.KindKnockout {
			return match.Match{}, fmt.Errorf("%w: penalty scores only apply to knockout matches", ErrInvalidInput)
		}
		if input.HomeScore != input.AwayScore {
			return match.Match{}, fmt.Errorf("%w: penalty scores require a drawn match", ErrInvalidInput)
		}
	}

	next, err := match.Transition(m.Status, match.EventReport)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrConflict, err)
	}

	homeScore, awayScore := input.HomeScore, input.AwayScore
	m.Status = next
	m.HomeScore = &homeScore
	m.AwayScore = &awayScore
	m.PKHomeScore = input.PKHomeScore
	m.PKAwayScore = input.PKAwayScore
	m.UpdatedAt = s.now().UTC()

	if err := s.matchRepo.Update(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("update match result: %w", err)
	}

	return m, nil
}

// Approve confirms a reported result. Approving a round-robin or swiss
// match refreshes the tournament's standings.
func (s *MatchService) Approve(ctx context.Context, input ResolveMatchInput) (match.Match, error) {
	ctx, span := startServiceSpan(ctx, "usecase.MatchService.Approve")
	defer span.End()

	m, err := s.transition(ctx, input.MatchID, match.EventApprove, input.Note)
	if err != nil {
		return match.Match{}, err
	}

	if s.standings != nil && m.Round.Kind != match.KindKnockout {
		if err := s.standings.Recompute(ctx, m.TournamentID); err != nil {
			return match.Match{}, fmt.Errorf("recompute standings after approval: %w", err)
		}
	}

	return m, nil
}

// Dispute flags a reported result for the organizer. The note explains what
// is contested.
func (s *MatchService) Dispute(ctx context.Context, input ResolveMatchInput) (match.Match, error) {
	if strings.TrimSpace(input.Note) == "" {
		return match.Match{}, fmt.Errorf("%w: a dispute needs a note", ErrInvalidInput)
	}

	return s.transition(ctx, input.MatchID, match.EventDispute, input.Note)
}

// RequireEvidence asks the reporter for secondary proof (screenshots,
// recordings) before the result can be approved.
func (s *MatchService) RequireEvidence(ctx context.Context, input ResolveMatchInput) (match.Match, error) {
	return s.transition(ctx, input.MatchID, match.EventRequireEvidence, input.Note)
}

// SubmitEvidence returns an evidence-pending match to the confirmation
// queue.
func (s *MatchService) SubmitEvidence(ctx context.Context, input ResolveMatchInput) (match.Match, error) {
	return s.transition(ctx, input.MatchID, match.EventSubmitEvidence, input.Note)
}

// ListByTournament returns every match ordered for display: group stages
// first, then rounds in play order, bracket order inside a round.
func (s *MatchService) ListByTournament(ctx context.Context, tournamentID string) ([]match.Match, error) {
	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	items, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Round != items[j].Round {
			return match.Less(items[i].Round, items[j].Round)
		}
		return items[i].Ordinal < items[j].Ordinal
	})

	return items, nil
}

func (s *MatchService) transition(ctx context.Context, matchID, event, note string) (match.Match, error) {
	m, err := s.get(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}

	next, err := match.Transition(m.Status, event)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrConflict, err)
	}

	m.Status = next
	if note = strings.TrimSpace(note); note != "" {
		m.ResolutionNote = note
	}
	m.UpdatedAt = s.now().UTC()

	if err := s.matchRepo.Update(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("update match status: %w", err)
	}

	return m, nil
}

func (s *MatchService) get(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return m, nil
}
