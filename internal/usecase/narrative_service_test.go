package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
	"github.com/matchdayhq/tournament-engine/internal/platform/cache"
)

type stubSummaryGenerator struct {
	mu         sync.Mutex
	calls      int
	lastPrompt string
	text       string
	err        error
}

func (g *stubSummaryGenerator) GenerateSummary(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func (g *stubSummaryGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func TestStageSummaryCachesPerStageInstance(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	created := h.createTournament(t, CreateTournamentInput{Name: "Friday Cup", Format: tournament.FormatCup})
	h.registerTeams(t, created.ID, 4)
	opening, err := h.tournamentSvc.Start(ctx, created.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	gen := &stubSummaryGenerator{text: "  The semi-finals are set.  "}
	svc := NewNarrativeService(h.tournaments, h.matchSvc, h.teams, gen, cache.NewStore(time.Minute))

	first, err := svc.StageSummary(ctx, created.ID)
	if err != nil {
		t.Fatalf("StageSummary: %v", err)
	}
	if first != "The semi-finals are set." {
		t.Fatalf("summary = %q", first)
	}

	second, err := svc.StageSummary(ctx, created.ID)
	if err != nil {
		t.Fatalf("repeat StageSummary: %v", err)
	}
	if second != first {
		t.Fatalf("repeat summary = %q, want cached %q", second, first)
	}
	if gen.callCount() != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.callCount())
	}

	// A new round is a new cache key, so the next stage generates again.
	for _, m := range opening {
		h.reportAndApprove(t, m.ID, 1, 0)
	}
	if _, err := h.progressionSvc.Progress(ctx, created.ID); err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if _, err := svc.StageSummary(ctx, created.ID); err != nil {
		t.Fatalf("StageSummary after progression: %v", err)
	}
	if gen.callCount() != 2 {
		t.Fatalf("generator calls = %d, want 2", gen.callCount())
	}
}

func TestStageSummaryPromptNamesTeamsAndScores(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	created := h.createTournament(t, CreateTournamentInput{Name: "Friday Cup", Format: tournament.FormatCup})
	h.registerTeams(t, created.ID, 4)
	opening, err := h.tournamentSvc.Start(ctx, created.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.reportAndApprove(t, opening[0].ID, 2, 1)

	gen := &stubSummaryGenerator{text: "recap"}
	svc := NewNarrativeService(h.tournaments, h.matchSvc, h.teams, gen, cache.NewStore(time.Minute))
	if _, err := svc.StageSummary(ctx, created.ID); err != nil {
		t.Fatalf("StageSummary: %v", err)
	}

	prompt := gen.lastPrompt
	for _, want := range []string{"Friday Cup", "Club 01", "Club 02", "2-1", "not played yet"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestStageSummaryFailuresAreNotCached(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	created := h.createTournament(t, CreateTournamentInput{Name: "Cup", Format: tournament.FormatCup})
	h.registerTeams(t, created.ID, 4)
	if _, err := h.tournamentSvc.Start(ctx, created.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	gen := &stubSummaryGenerator{err: errors.New("model overloaded")}
	svc := NewNarrativeService(h.tournaments, h.matchSvc, h.teams, gen, cache.NewStore(time.Minute))

	if _, err := svc.StageSummary(ctx, created.ID); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("err = %v, want ErrDependencyUnavailable", err)
	}
	if _, err := svc.StageSummary(ctx, created.ID); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("repeat err = %v, want ErrDependencyUnavailable", err)
	}
	if gen.callCount() != 2 {
		t.Fatalf("generator calls = %d, want 2 (errors must not stick)", gen.callCount())
	}
}

func TestStageSummaryGuards(t *testing.T) {
	t.Parallel()

	t.Run("no generator configured", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		created := h.createTournament(t, CreateTournamentInput{Name: "Cup", Format: tournament.FormatCup})
		svc := NewNarrativeService(h.tournaments, h.matchSvc, h.teams, nil, cache.NewStore(time.Minute))
		if _, err := svc.StageSummary(context.Background(), created.ID); !errors.Is(err, ErrDependencyUnavailable) {
			t.Fatalf("err = %v, want ErrDependencyUnavailable", err)
		}
	})

	t.Run("no active stage", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		created := h.createTournament(t, CreateTournamentInput{Name: "Cup", Format: tournament.FormatCup})
		gen := &stubSummaryGenerator{text: "recap"}
		svc := NewNarrativeService(h.tournaments, h.matchSvc, h.teams, gen, cache.NewStore(time.Minute))
		if _, err := svc.StageSummary(context.Background(), created.ID); !errors.Is(err, ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
	})

	t.Run("unknown tournament", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		gen := &stubSummaryGenerator{text: "recap"}
		svc := NewNarrativeService(h.tournaments, h.matchSvc, h.teams, gen, cache.NewStore(time.Minute))
		if _, err := svc.StageSummary(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}
