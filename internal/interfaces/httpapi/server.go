package httpapi

import (
	"net/http"
	"runtime"

	"github.com/matchdayhq/tournament-engine/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	swaggerEnabled bool,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, swaggerEnabled)
	registerTournamentRoutes(mux, handler)
	registerMatchRoutes(mux, handler)

	// Wrapped inside out: tracing sees every request first, panic recovery
	// sits closest to the mux.
	var h http.Handler = mux
	h = recoverPanic(logger, h)
	h = CORS(corsAllowedOrigins, h)
	h = RequestLogging(logger, h)
	h = RequestTracing(h)

	return h
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			stack := make([]byte, 4096)
			stack = stack[:runtime.Stack(stack, false)]
			logger.ErrorContext(ctx, "panic recovered",
				"panic", rec,
				"path", r.URL.Path,
				"stack", string(stack),
			)
			writeInternalError(ctx, w)
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
