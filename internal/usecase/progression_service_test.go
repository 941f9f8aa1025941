package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/schedule"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
)

func (h *harness) reportAndApprove(t *testing.T, matchID string, home, away int) {
	t.Helper()
	if _, err := h.matchSvc.ReportResult(context.Background(), ReportResultInput{
		MatchID:   matchID,
		HomeScore: home,
		AwayScore: away,
	}); err != nil {
		t.Fatalf("ReportResult %s: %v", matchID, err)
	}
	if _, err := h.matchSvc.Approve(context.Background(), ResolveMatchInput{MatchID: matchID}); err != nil {
		t.Fatalf("Approve %s: %v", matchID, err)
	}
}

func (h *harness) stageMatches(t *testing.T, tournamentID, stageKey string) []match.Match {
	t.Helper()
	stage, err := match.ParseStage(stageKey)
	if err != nil {
		t.Fatalf("ParseStage %q: %v", stageKey, err)
	}
	out, err := h.matches.ListByStage(context.Background(), tournamentID, stage)
	if err != nil {
		t.Fatalf("ListByStage %q: %v", stageKey, err)
	}
	return out
}

func TestCupRunsToCompletion(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	created := h.createTournament(t, CreateTournamentInput{Name: "Friday Night Cup", Format: tournament.FormatCup})
	roster := h.registerTeams(t, created.ID, 8)

	opening, err := h.tournamentSvc.Start(ctx, created.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(opening) != 4 {
		t.Fatalf("opening round has %d matches, want 4", len(opening))
	}
	for _, m := range opening {
		if got := m.Round.Label(); got != "Round of 8" {
			t.Fatalf("opening label = %q, want Round of 8", got)
		}
	}

	// Nothing approved yet: progression must refuse and count the backlog.
	_, err = h.progressionSvc.Progress(ctx, created.ID)
	if !errors.Is(err, schedule.ErrIncompleteRound) {
		t.Fatalf("premature progress: err = %v, want ErrIncompleteRound", err)
	}
	var incomplete *schedule.IncompleteRoundError
	if !errors.As(err, &incomplete) || incomplete.Outstanding != 4 {
		t.Fatalf("outstanding = %+v, want 4", incomplete)
	}

	// Home sides win the opening round.
	scores := [][2]int{{2, 0}, {2, 1}, {1, 0}, {3, 1}}
	for i, m := range opening {
		h.reportAndApprove(t, m.ID, scores[i][0], scores[i][1])
	}

	result, err := h.progressionSvc.Progress(ctx, created.ID)
	if err != nil {
		t.Fatalf("progress to semis: %v", err)
	}
	if result.Completed || result.MatchCount != 2 || result.RoundLabel != "Semi-Final" {
		t.Fatalf("semi result = %+v", result)
	}
	if result.Stage != "knockout:4" {
		t.Fatalf("stage = %q, want knockout:4", result.Stage)
	}

	// Bracket order holds: winner of ties 1 and 2 meet, then 3 and 4.
	semis := h.stageMatches(t, created.ID, "knockout:4")
	if semis[0].HomeTeamID != roster[0].ID || semis[0].AwayTeamID != roster[2].ID {
		t.Fatalf("semi 1 = %s-%s, want %s-%s", semis[0].HomeTeamID, semis[0].AwayTeamID, roster[0].ID, roster[2].ID)
	}
	if semis[1].HomeTeamID != roster[4].ID || semis[1].AwayTeamID != roster[6].ID {
		t.Fatalf("semi 2 = %s-%s, want %s-%s", semis[1].HomeTeamID, semis[1].AwayTeamID, roster[4].ID, roster[6].ID)
	}

	// First semi ends in regulation, the second goes to penalties.
	h.reportAndApprove(t, semis[0].ID, 1, 0)
	pkHome, pkAway := 5, 4
	if _, err := h.matchSvc.ReportResult(ctx, ReportResultInput{
		MatchID:     semis[1].ID,
		HomeScore:   1,
		AwayScore:   1,
		PKHomeScore: &pkHome,
		PKAwayScore: &pkAway,
	}); err != nil {
		t.Fatalf("report shootout: %v", err)
	}
	if _, err := h.matchSvc.Approve(ctx, ResolveMatchInput{MatchID: semis[1].ID}); err != nil {
		t.Fatalf("approve shootout: %v", err)
	}

	result, err = h.progressionSvc.Progress(ctx, created.ID)
	if err != nil {
		t.Fatalf("progress to final: %v", err)
	}
	if result.MatchCount != 1 || result.RoundLabel != "Final" || result.Stage != "knockout:2" {
		t.Fatalf("final result = %+v", result)
	}

	final := h.stageMatches(t, created.ID, "knockout:2")
	if final[0].HomeTeamID != roster[0].ID || final[0].AwayTeamID != roster[4].ID {
		t.Fatalf("final = %s-%s, want %s-%s", final[0].HomeTeamID, final[0].AwayTeamID, roster[0].ID, roster[4].ID)
	}

	h.reportAndApprove(t, final[0].ID, 2, 0)
	result, err = h.progressionSvc.Progress(ctx, created.ID)
	if err != nil {
		t.Fatalf("final progress: %v", err)
	}
	if !result.Completed || result.MatchCount != 0 {
		t.Fatalf("completion result = %+v", result)
	}

	stored, _, _ := h.tournaments.GetByID(ctx, created.ID)
	if stored.Status != tournament.StatusCompleted {
		t.Fatalf("status = %s, want completed", stored.Status)
	}
	if stored.RoundSeq != 4 {
		t.Fatalf("round seq = %d, want 4 (start + three progressions)", stored.RoundSeq)
	}

	if _, err := h.progressionSvc.Progress(ctx, created.ID); !errors.Is(err, schedule.ErrAlreadyComplete) {
		t.Fatalf("progress after completion: err = %v, want ErrAlreadyComplete", err)
	}
}

func TestProgressConcurrentCallsProduceOneRound(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	created := h.createTournament(t, CreateTournamentInput{Name: "Race Cup", Format: tournament.FormatCup})
	h.registerTeams(t, created.ID, 8)

	opening, err := h.tournamentSvc.Start(ctx, created.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, m := range opening {
		h.reportAndApprove(t, m.ID, 1, 0)
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.progressionSvc.Progress(ctx, created.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
		} else {
			lost++
		}
	}
	if won != 1 || lost != 1 {
		t.Fatalf("won=%d lost=%d, want exactly one of each", won, lost)
	}

	if semis := h.stageMatches(t, created.ID, "knockout:4"); len(semis) != 2 {
		t.Fatalf("semi-final count = %d, want 2", len(semis))
	}
	stored, _, _ := h.tournaments.GetByID(ctx, created.ID)
	if stored.RoundSeq != 2 {
		t.Fatalf("round seq = %d, want 2", stored.RoundSeq)
	}
}

func TestLeagueCompletesWhenAllApproved(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	created := h.createTournament(t, CreateTournamentInput{Name: "Liga", Format: tournament.FormatLeague})
	h.registerTeams(t, created.ID, 4)

	matches, err := h.tournamentSvc.Start(ctx, created.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(matches) != 6 {
		t.Fatalf("got %d matches, want 6", len(matches))
	}

	for _, m := range matches[:4] {
		h.reportAndApprove(t, m.ID, 1, 1)
	}

	_, err = h.progressionSvc.Progress(ctx, created.ID)
	var incomplete *schedule.IncompleteRoundError
	if !errors.As(err, &incomplete) {
		t.Fatalf("err = %v, want IncompleteRoundError", err)
	}
	if incomplete.Outstanding != 2 {
		t.Fatalf("outstanding = %d, want 2", incomplete.Outstanding)
	}
	if got, want := incomplete.Error(), "Cannot progress: 2 match(es) are still not approved."; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}

	for _, m := range matches[4:] {
		h.reportAndApprove(t, m.ID, 2, 0)
	}

	result, err := h.progressionSvc.Progress(ctx, created.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if !result.Completed || result.Stage != "league" {
		t.Fatalf("result = %+v, want completed league", result)
	}

	stored, _, _ := h.tournaments.GetByID(ctx, created.ID)
	if stored.Status != tournament.StatusCompleted {
		t.Fatalf("status = %s, want completed", stored.Status)
	}
}

func TestGroupStageFeedsKnockout(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	created := h.createTournament(t, CreateTournamentInput{
		Name:            "Grouped Cup",
		Format:          tournament.FormatCup,
		GroupSize:       2,
		AdvancePerGroup: 1,
	})
	roster := h.registerTeams(t, created.ID, 4)

	matches, err := h.tournamentSvc.Start(ctx, created.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d group matches, want 2", len(matches))
	}
	if matches[0].Round.Label() != "Group A" || matches[1].Round.Label() != "Group B" {
		t.Fatalf("labels = %q, %q", matches[0].Round.Label(), matches[1].Round.Label())
	}

	h.reportAndApprove(t, matches[0].ID, 2, 1)
	h.reportAndApprove(t, matches[1].ID, 1, 0)

	// Approvals recompute the tables, one per group.
	rows, err := h.standingSvc.ListByTournament(ctx, created.ID)
	if err != nil {
		t.Fatalf("ListByTournament standings: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("standings rows = %d, want 4", len(rows))
	}
	if rows[0].Group != "A" || rows[0].TeamID != roster[0].ID || rows[0].Points != 3 {
		t.Fatalf("group A leader = %+v", rows[0])
	}
	if rows[2].Group != "B" || rows[2].TeamID != roster[2].ID {
		t.Fatalf("group B leader = %+v", rows[2])
	}

	result, err := h.progressionSvc.Progress(ctx, created.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if result.Stage != "knockout:2" || result.RoundLabel != "Final" || result.MatchCount != 1 {
		t.Fatalf("result = %+v, want the final", result)
	}

	final := h.stageMatches(t, created.ID, "knockout:2")
	if final[0].HomeTeamID != roster[0].ID || final[0].AwayTeamID != roster[2].ID {
		t.Fatalf("final = %s-%s, want group winners %s-%s", final[0].HomeTeamID, final[0].AwayTeamID, roster[0].ID, roster[2].ID)
	}

	h.reportAndApprove(t, final[0].ID, 3, 0)
	result, err = h.progressionSvc.Progress(ctx, created.ID)
	if err != nil {
		t.Fatalf("final progress: %v", err)
	}
	if !result.Completed {
		t.Fatalf("result = %+v, want completed", result)
	}
}

func TestSwissAdvancesRoundByRound(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	created := h.createTournament(t, CreateTournamentInput{Name: "Swiss Night", Format: tournament.FormatSwiss, SwissRounds: 3})
	roster := h.registerTeams(t, created.ID, 4)

	round1, err := h.tournamentSvc.Start(ctx, created.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(round1) != 2 {
		t.Fatalf("round 1 has %d matches, want 2", len(round1))
	}

	h.reportAndApprove(t, round1[0].ID, 2, 0)
	h.reportAndApprove(t, round1[1].ID, 1, 0)

	result, err := h.progressionSvc.Progress(ctx, created.ID)
	if err != nil {
		t.Fatalf("progress to round 2: %v", err)
	}
	if result.Stage != "swiss:2" || result.MatchCount != 2 {
		t.Fatalf("round 2 result = %+v", result)
	}

	// Standings pair the two round-1 winners and the two losers.
	round2 := h.stageMatches(t, created.ID, "swiss:2")
	if round2[0].HomeTeamID != roster[0].ID || round2[0].AwayTeamID != roster[2].ID {
		t.Fatalf("round 2 top pairing = %s-%s", round2[0].HomeTeamID, round2[0].AwayTeamID)
	}
	if round2[1].HomeTeamID != roster[3].ID || round2[1].AwayTeamID != roster[1].ID {
		t.Fatalf("round 2 bottom pairing = %s-%s", round2[1].HomeTeamID, round2[1].AwayTeamID)
	}

	h.reportAndApprove(t, round2[0].ID, 1, 0)
	h.reportAndApprove(t, round2[1].ID, 1, 0)

	result, err = h.progressionSvc.Progress(ctx, created.ID)
	if err != nil {
		t.Fatalf("progress to round 3: %v", err)
	}
	if result.Stage != "swiss:3" {
		t.Fatalf("stage = %q, want swiss:3", result.Stage)
	}

	// Round 3 completes the schedule: every pair has now met exactly once.
	round3 := h.stageMatches(t, created.ID, "swiss:3")
	if round3[0].HomeTeamID != roster[0].ID || round3[0].AwayTeamID != roster[3].ID {
		t.Fatalf("round 3 top pairing = %s-%s", round3[0].HomeTeamID, round3[0].AwayTeamID)
	}
	if round3[1].HomeTeamID != roster[2].ID || round3[1].AwayTeamID != roster[1].ID {
		t.Fatalf("round 3 bottom pairing = %s-%s", round3[1].HomeTeamID, round3[1].AwayTeamID)
	}

	h.reportAndApprove(t, round3[0].ID, 1, 1)
	h.reportAndApprove(t, round3[1].ID, 0, 0)

	result, err = h.progressionSvc.Progress(ctx, created.ID)
	if err != nil {
		t.Fatalf("final progress: %v", err)
	}
	if !result.Completed {
		t.Fatalf("result = %+v, want completed after the fixed round count", result)
	}
}

func TestProgressGuards(t *testing.T) {
	t.Parallel()

	t.Run("unknown tournament", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		if _, err := h.progressionSvc.Progress(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("not started", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		created := h.createTournament(t, CreateTournamentInput{Name: "Cup", Format: tournament.FormatCup})
		if _, err := h.progressionSvc.Progress(context.Background(), created.ID); !errors.Is(err, ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
	})

	t.Run("stale transition", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		created := h.createTournament(t, CreateTournamentInput{Name: "Cup", Format: tournament.FormatCup})
		h.registerTeams(t, created.ID, 4)
		if _, err := h.tournamentSvc.Start(context.Background(), created.ID); err != nil {
			t.Fatalf("Start: %v", err)
		}

		err := h.tournaments.Advance(context.Background(), tournament.StageTransition{
			TournamentID: created.ID,
			FromSeq:      0,
			Stage:        "knockout:4",
			Status:       tournament.StatusInProgress,
		})
		if !errors.Is(err, tournament.ErrStaleRound) {
			t.Fatalf("err = %v, want ErrStaleRound", err)
		}
	})
}
