package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matchdayhq/tournament-engine/external/openai"
	"github.com/matchdayhq/tournament-engine/internal/config"
	"github.com/matchdayhq/tournament-engine/internal/domain/match"
	"github.com/matchdayhq/tournament-engine/internal/domain/standing"
	"github.com/matchdayhq/tournament-engine/internal/domain/team"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
	cacherepo "github.com/matchdayhq/tournament-engine/internal/infrastructure/repository/cache"
	"github.com/matchdayhq/tournament-engine/internal/infrastructure/repository/memory"
	"github.com/matchdayhq/tournament-engine/internal/infrastructure/repository/postgres"
	"github.com/matchdayhq/tournament-engine/internal/interfaces/httpapi"
	basecache "github.com/matchdayhq/tournament-engine/internal/platform/cache"
	idgen "github.com/matchdayhq/tournament-engine/internal/platform/id"
	"github.com/matchdayhq/tournament-engine/internal/platform/logging"
	"github.com/matchdayhq/tournament-engine/internal/platform/resilience"
	"github.com/matchdayhq/tournament-engine/internal/usecase"
)

// NewHTTPServer wires storage, services, and the HTTP transport into a
// ready-to-run server. The returned cleanup releases the database pool when
// one was opened and is safe to call for either backend.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		tournamentRepo tournament.Repository
		teamRepo       team.Repository
		matchRepo      match.Repository
		standingRepo   standing.Repository
	)

	cleanup := func() {}

	if cfg.DBURL != "" {
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Error("close database", "error", err)
			}
		}

		tournamentRepo = postgres.NewTournamentRepository(db)
		teamRepo = postgres.NewTeamRepository(db)
		matchRepo = postgres.NewMatchRepository(db)
		standingRepo = postgres.NewStandingRepository(db)
	} else {
		logger.Warn("DB_URL is empty, using in-memory storage")

		store := memory.NewStore()
		tournamentRepo = memory.NewTournamentRepository(store)
		teamRepo = memory.NewTeamRepository(store)
		matchRepo = memory.NewMatchRepository(store)
		standingRepo = memory.NewStandingRepository(store)
	}

	if cfg.CacheEnabled {
		cacheStore := basecache.NewStore(cfg.CacheTTL)
		teamRepo = cacherepo.NewTeamRepository(teamRepo, cacheStore)
		standingRepo = cacherepo.NewStandingRepository(standingRepo, cacheStore)
	}

	idGen := idgen.NewUUIDGenerator()
	standingSvc := usecase.NewStandingService(teamRepo, matchRepo, standingRepo)
	matchSvc := usecase.NewMatchService(matchRepo, standingSvc)
	tournamentSvc := usecase.NewTournamentService(tournamentRepo, teamRepo, idGen)
	progressionSvc := usecase.NewProgressionService(tournamentRepo, teamRepo, matchRepo, idGen)
	overviewSvc := usecase.NewOverviewService(tournamentRepo, teamRepo, matchSvc, standingSvc)

	var generator usecase.SummaryGenerator
	if cfg.OpenAIEnabled {
		generator = openai.NewClient(openai.ClientConfig{
			BaseURL:    cfg.OpenAIBaseURL,
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			Timeout:    cfg.OpenAITimeout,
			MaxRetries: cfg.OpenAIMaxRetries,
			MaxTokens:  cfg.OpenAIMaxTokens,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.OpenAICircuitEnabled,
				FailureThreshold: cfg.OpenAICircuitFailureCount,
				OpenTimeout:      cfg.OpenAICircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.OpenAICircuitHalfOpenMaxReq,
			},
		})
	}

	narrativeSvc := usecase.NewNarrativeService(
		tournamentRepo,
		matchSvc,
		teamRepo,
		generator,
		basecache.NewStore(cfg.CacheTTL),
	)

	handler := httpapi.NewHandler(
		tournamentSvc,
		progressionSvc,
		matchSvc,
		standingSvc,
		overviewSvc,
		narrativeSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return db, nil
}
