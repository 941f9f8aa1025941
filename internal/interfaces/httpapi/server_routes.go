package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerTournamentRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/tournaments", handler.ListTournaments)
	mux.HandleFunc("POST /api/tournaments", handler.CreateTournament)
	mux.HandleFunc("GET /api/tournaments/{tournamentID}", handler.GetTournamentOverview)
	mux.HandleFunc("POST /api/tournaments/{tournamentID}/teams", handler.RegisterTeam)
	mux.HandleFunc("POST /api/tournaments/{tournamentID}/close-registration", handler.CloseRegistration)
	mux.HandleFunc("POST /api/tournaments/{tournamentID}/start", handler.StartTournament)
	mux.HandleFunc("POST /api/tournaments/{tournamentID}/progress", handler.ProgressTournament)
	mux.HandleFunc("GET /api/tournaments/{tournamentID}/matches", handler.ListTournamentMatches)
	mux.HandleFunc("GET /api/tournaments/{tournamentID}/standings", handler.ListTournamentStandings)
	mux.HandleFunc("GET /api/tournaments/{tournamentID}/summary", handler.GetStageSummary)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /api/matches/{matchID}/result", handler.ReportMatchResult)
	mux.HandleFunc("POST /api/matches/{matchID}/approve", handler.ApproveMatch)
	mux.HandleFunc("POST /api/matches/{matchID}/dispute", handler.DisputeMatch)
	mux.HandleFunc("POST /api/matches/{matchID}/evidence-request", handler.RequireMatchEvidence)
	mux.HandleFunc("POST /api/matches/{matchID}/evidence", handler.SubmitMatchEvidence)
}
