package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
	"github.com/matchdayhq/tournament-engine/internal/platform/cache"
)

// SummaryGenerator produces narrative text for a finished or running stage.
// It sits strictly outside fixture generation and progression; losing it
// only costs the summary endpoint.
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, prompt string) (string, error)
}

type NarrativeService struct {
	tournamentRepo tournament.Repository
	matches        matchLister
	teamRepo       team.Repository
	generator      SummaryGenerator
	cache          *cache.Store
}

func NewNarrativeService(
	tournamentRepo tournament.Repository,
	matches matchLister,
	teamRepo team.Repository,
	generator SummaryGenerator,
	store *cache.Store,
) *NarrativeService {
	return &NarrativeService{
		tournamentRepo: tournamentRepo,
		matches:        matches,
		teamRepo:       teamRepo,
		generator:      generator,
		cache:          store,
	}
}

// StageSummary returns narrative text for the tournament's active stage.
// Summaries are cached per stage instance and deduplicated in flight, so a
// busy tournament page does not fan repeated prompts out to the model.
func (s *NarrativeService) StageSummary(ctx context.Context, tournamentID string) (string, error) {
	ctx, span := startServiceSpan(ctx, "usecase.NarrativeService.StageSummary")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return "", fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if s.generator == nil {
		return "", fmt.Errorf("%w: no summary generator configured", ErrDependencyUnavailable)
	}

	t, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return "", fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	if t.CurrentStage == "" {
		return "", fmt.Errorf("%w: tournament=%s has no stage to summarize", ErrConflict, t.ID)
	}

	key := fmt.Sprintf("narrative:%s:%s:%d", t.ID, t.CurrentStage, t.RoundSeq)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		prompt, err := s.buildStagePrompt(ctx, t)
		if err != nil {
			return nil, err
		}
		text, err := s.generator.GenerateSummary(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("%w: generate summary: %v", ErrDependencyUnavailable, err)
		}
		return strings.TrimSpace(text), nil
	})
	if err != nil {
		return "", err
	}

	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("unexpected cached summary type %T", value)
	}

	return text, nil
}

func (s *NarrativeService) buildStagePrompt(ctx context.Context, t tournament.Tournament) (string, error) {
	stage, err := match.ParseStage(t.CurrentStage)
	if err != nil {
		return "", fmt.Errorf("parse current stage: %w", err)
	}

	all, err := s.matches.ListByTournament(ctx, t.ID)
	if err != nil {
		return "", fmt.Errorf("list matches for summary: %w", err)
	}
	stageMatches := make([]match.Match, 0, len(all))
	for _, m := range all {
		if m.Round.Stage() == stage {
			stageMatches = append(stageMatches, m)
		}
	}

	roster, err := s.teamRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return "", fmt.Errorf("list teams for summary: %w", err)
	}
	names := make(map[string]string, len(roster))
	for _, entry := range roster {
		names[entry.ID] = entry.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a short recap, two or three sentences, of the %s of the eFootball tournament %q.\n", stageTitle(stage, stageMatches), t.Name)
	b.WriteString("Highlight decisive results and who advances. Results so far:\n")
	for _, m := range stageMatches {
		fmt.Fprintf(&b, "- %s: %s vs %s", m.Round.Label(), teamName(names, m.HomeTeamID), teamName(names, m.AwayTeamID))
		if m.HasResult() {
			fmt.Fprintf(&b, ", %d-%d", *m.HomeScore, *m.AwayScore)
			if m.PKHomeScore != nil && m.PKAwayScore != nil {
				fmt.Fprintf(&b, " (%d-%d on penalties)", *m.PKHomeScore, *m.PKAwayScore)
			}
			fmt.Fprintf(&b, " [%s]", m.Status)
		} else {
			b.WriteString(", not played yet")
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func stageTitle(stage match.Stage, stageMatches []match.Match) string {
	switch stage.Kind {
	case match.KindGroup:
		return "group stage"
	case match.KindLeague:
		return "league phase"
	default:
		if len(stageMatches) > 0 {
			return stageMatches[0].Round.Label()
		}
		return stage.Key()
	}
}

func teamName(names map[string]string, teamID string) string {
	if name, ok := names[teamID]; ok {
		return name
	}
	return teamID
}
