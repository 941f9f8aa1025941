package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/standing"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
	"github.com/matchdayhq/tournament-engine/internal/platform/logging"
	"github.com/matchdayhq/tournament-engine/internal/usecase"
)

type Handler struct {
	tournamentService  *usecase.TournamentService
	progressionService *usecase.ProgressionService
	matchService       *usecase.MatchService
	standingService    *usecase.StandingService
	overviewService    *usecase.OverviewService
	narrativeService   *usecase.NarrativeService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	tournamentService *usecase.TournamentService,
	progressionService *usecase.ProgressionService,
	matchService *usecase.MatchService,
	standingService *usecase.StandingService,
	overviewService *usecase.OverviewService,
	narrativeService *usecase.NarrativeService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tournamentService:  tournamentService,
		progressionService: progressionService,
		matchService:       matchService,
		standingService:    standingService,
		overviewService:    overviewService,
		narrativeService:   narrativeService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	tournaments, err := h.tournamentService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tournamentDTO, 0, len(tournaments))
	for _, t := range tournaments {
		items = append(items, tournamentToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTournament")
	defer span.End()

	var req createTournamentRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.tournamentService.Create(ctx, usecase.CreateTournamentInput{
		Name:            req.Name,
		Format:          req.Format,
		GroupSize:       req.GroupSize,
		AdvancePerGroup: req.AdvancePerGroup,
		SwissRounds:     req.SwissRounds,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create tournament failed", "format", req.Format, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tournamentToDTO(ctx, created))
}

func (h *Handler) GetTournamentOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournamentOverview")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	overview, err := h.overviewService.Get(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get tournament overview failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overviewToDTO(ctx, overview))
}

func (h *Handler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterTeam")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	var req registerTeamRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	registered, err := h.tournamentService.RegisterTeam(ctx, usecase.RegisterTeamInput{
		TournamentID: tournamentID,
		Name:         req.Name,
		CaptainID:    req.CaptainID,
		SeedPot:      req.SeedPot,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register team failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(ctx, registered))
}

func (h *Handler) CloseRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseRegistration")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	closed, err := h.tournamentService.CloseRegistration(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "close registration failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(ctx, closed))
}

func (h *Handler) StartTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartTournament")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	fixtures, err := h.tournamentService.Start(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "start tournament failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(fixtures))
	for _, m := range fixtures {
		items = append(items, matchToDTO(ctx, m))
	}

	writeSuccess(ctx, w, http.StatusCreated, items)
}

func (h *Handler) ProgressTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProgressTournament")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	result, err := h.progressionService.Progress(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "progress tournament failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, progressionDTO{
		TournamentID: result.TournamentID,
		Stage:        result.Stage,
		RoundLabel:   result.RoundLabel,
		MatchCount:   result.MatchCount,
		Completed:    result.Completed,
	})
}

func (h *Handler) ListTournamentMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentMatches")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	matches, err := h.matchService.ListByTournament(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(ctx, m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTournamentStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentStandings")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	rows, err := h.standingService.ListByTournament(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingToDTO(ctx, row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetStageSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStageSummary")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	summary, err := h.narrativeService.StageSummary(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "stage summary failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stageSummaryDTO{
		TournamentID: tournamentID,
		Summary:      summary,
	})
}

func (h *Handler) ReportMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReportMatchResult")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req reportResultRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	reported, err := h.matchService.ReportResult(ctx, usecase.ReportResultInput{
		MatchID:     matchID,
		HomeScore:   *req.HomeScore,
		AwayScore:   *req.AwayScore,
		PKHomeScore: req.PKHome,
		PKAwayScore: req.PKAway,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "report result failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(ctx, reported))
}

func (h *Handler) ApproveMatch(w http.ResponseWriter, r *http.Request) {
	h.resolveMatch(w, r, "httpapi.Handler.ApproveMatch", h.matchService.Approve, false)
}

func (h *Handler) DisputeMatch(w http.ResponseWriter, r *http.Request) {
	h.resolveMatch(w, r, "httpapi.Handler.DisputeMatch", h.matchService.Dispute, true)
}

func (h *Handler) RequireMatchEvidence(w http.ResponseWriter, r *http.Request) {
	h.resolveMatch(w, r, "httpapi.Handler.RequireMatchEvidence", h.matchService.RequireEvidence, false)
}

func (h *Handler) SubmitMatchEvidence(w http.ResponseWriter, r *http.Request) {
	h.resolveMatch(w, r, "httpapi.Handler.SubmitMatchEvidence", h.matchService.SubmitEvidence, false)
}

// resolveMatch handles the shared shape of the four confirmation-workflow
// endpoints: an optional (or, for disputes, required) note plus a match id.
func (h *Handler) resolveMatch(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	resolve func(context.Context, usecase.ResolveMatchInput) (match.Match, error),
	noteRequired bool,
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	matchID := r.PathValue("matchID")
	req, err := decodeResolveRequest(ctx, r, noteRequired)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	resolved, err := resolve(ctx, usecase.ResolveMatchInput{MatchID: matchID, Note: req.Note})
	if err != nil {
		h.logger.WarnContext(ctx, "resolve match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(ctx, resolved))
}

// decodeResolveRequest tolerates an empty body when the note is optional.
func decodeResolveRequest(ctx context.Context, r *http.Request, noteRequired bool) (resolveMatchRequest, error) {
	_ = ctx

	var req resolveMatchRequest
	if r.Body != nil && r.ContentLength != 0 {
		decoder := sonic.ConfigDefault.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return resolveMatchRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
		}
	}
	if noteRequired && req.Note == "" {
		return resolveMatchRequest{}, fmt.Errorf("%w: a note is required", usecase.ErrInvalidInput)
	}

	return req, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type createTournamentRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	Format          string `json:"format" validate:"required,oneof=league cup champions-league swiss"`
	GroupSize       int    `json:"group_size" validate:"min=0"`
	AdvancePerGroup int    `json:"advance_per_group" validate:"min=0"`
	SwissRounds     int    `json:"swiss_rounds" validate:"min=0"`
}

type registerTeamRequest struct {
	Name      string `json:"name" validate:"required,max=80"`
	CaptainID string `json:"captain_id" validate:"required"`
	SeedPot   int    `json:"seed_pot" validate:"min=0"`
}

type reportResultRequest struct {
	HomeScore *int `json:"home_score" validate:"required"`
	AwayScore *int `json:"away_score" validate:"required"`
	PKHome    *int `json:"pk_home"`
	PKAway    *int `json:"pk_away"`
}

type resolveMatchRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type tournamentDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Format          string `json:"format"`
	Status          string `json:"status"`
	GroupSize       int    `json:"group_size,omitempty"`
	AdvancePerGroup int    `json:"advance_per_group,omitempty"`
	SwissRounds     int    `json:"swiss_rounds,omitempty"`
	CurrentStage    string `json:"current_stage,omitempty"`
	RoundSeq        int    `json:"round_seq"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type teamDTO struct {
	ID           string `json:"id"`
	TournamentID string `json:"tournament_id"`
	Name         string `json:"name"`
	CaptainID    string `json:"captain_id"`
	SeedPot      int    `json:"seed_pot"`
	CreatedAt    string `json:"created_at"`
}

type roundDTO struct {
	Kind    string `json:"kind"`
	Number  int    `json:"number,omitempty"`
	Group   string `json:"group,omitempty"`
	Opening bool   `json:"opening,omitempty"`
	Label   string `json:"label"`
}

type matchDTO struct {
	ID             string   `json:"id"`
	TournamentID   string   `json:"tournament_id"`
	Stage          string   `json:"stage"`
	Round          roundDTO `json:"round"`
	Ordinal        int      `json:"ordinal"`
	HomeTeamID     string   `json:"home_team_id"`
	AwayTeamID     string   `json:"away_team_id"`
	KickoffAt      string   `json:"kickoff_at"`
	Status         string   `json:"status"`
	HomeScore      *int     `json:"home_score"`
	AwayScore      *int     `json:"away_score"`
	PKHome         *int     `json:"pk_home"`
	PKAway         *int     `json:"pk_away"`
	ResolutionNote string   `json:"resolution_note,omitempty"`
}

type standingDTO struct {
	Group          string `json:"group,omitempty"`
	TeamID         string `json:"team_id"`
	Position       int    `json:"position"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

type overviewDTO struct {
	Tournament tournamentDTO `json:"tournament"`
	Teams      []teamDTO     `json:"teams"`
	Matches    []matchDTO    `json:"matches"`
	Standings  []standingDTO `json:"standings"`
}

type progressionDTO struct {
	TournamentID string `json:"tournament_id"`
	Stage        string `json:"stage"`
	RoundLabel   string `json:"round_label,omitempty"`
	MatchCount   int    `json:"match_count"`
	Completed    bool   `json:"completed"`
}

type stageSummaryDTO struct {
	TournamentID string `json:"tournament_id"`
	Summary      string `json:"summary"`
}

func tournamentToDTO(ctx context.Context, v tournament.Tournament) tournamentDTO {
	ctx, span := startSpan(ctx, "httpapi.tournamentToDTO")
	defer span.End()

	return tournamentDTO{
		ID:              v.ID,
		Name:            v.Name,
		Format:          v.Format,
		Status:          v.Status,
		GroupSize:       v.Config.GroupSize,
		AdvancePerGroup: v.Config.AdvancePerGroup,
		SwissRounds:     v.Config.SwissRounds,
		CurrentStage:    v.CurrentStage,
		RoundSeq:        v.RoundSeq,
		CreatedAt:       v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:           v.ID,
		TournamentID: v.TournamentID,
		Name:         v.Name,
		CaptainID:    v.CaptainID,
		SeedPot:      v.SeedPot,
		CreatedAt:    v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func matchToDTO(ctx context.Context, v match.Match) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	return matchDTO{
		ID:           v.ID,
		TournamentID: v.TournamentID,
		Stage:        v.Round.Stage().Key(),
		Round: roundDTO{
			Kind:    string(v.Round.Kind),
			Number:  v.Round.Number,
			Group:   v.Round.Group,
			Opening: v.Round.Opening,
			Label:   v.Round.Label(),
		},
		Ordinal:        v.Ordinal,
		HomeTeamID:     v.HomeTeamID,
		AwayTeamID:     v.AwayTeamID,
		KickoffAt:      v.KickoffAt.UTC().Format(time.RFC3339),
		Status:         v.Status,
		HomeScore:      v.HomeScore,
		AwayScore:      v.AwayScore,
		PKHome:         v.PKHomeScore,
		PKAway:         v.PKAwayScore,
		ResolutionNote: v.ResolutionNote,
	}
}

func standingToDTO(ctx context.Context, v standing.Standing) standingDTO {
	ctx, span := startSpan(ctx, "httpapi.standingToDTO")
	defer span.End()

	return standingDTO{
		Group:          v.Group,
		TeamID:         v.TeamID,
		Position:       v.Position,
		Played:         v.Played,
		Won:            v.Won,
		Draw:           v.Draw,
		Lost:           v.Lost,
		GoalsFor:       v.GoalsFor,
		GoalsAgainst:   v.GoalsAgainst,
		GoalDifference: v.GoalDifference,
		Points:         v.Points,
	}
}

func overviewToDTO(ctx context.Context, v usecase.TournamentOverview) overviewDTO {
	ctx, span := startSpan(ctx, "httpapi.overviewToDTO")
	defer span.End()

	teams := make([]teamDTO, 0, len(v.Teams))
	for _, t := range v.Teams {
		teams = append(teams, teamToDTO(ctx, t))
	}
	matches := make([]matchDTO, 0, len(v.Matches))
	for _, m := range v.Matches {
		matches = append(matches, matchToDTO(ctx, m))
	}
	standings := make([]standingDTO, 0, len(v.Standings))
	for _, row := range v.Standings {
		standings = append(standings, standingToDTO(ctx, row))
	}

	return overviewDTO{
		Tournament: tournamentToDTO(ctx, v.Tournament),
		Teams:      teams,
		Matches:    matches,
		Standings:  standings,
	}
}
