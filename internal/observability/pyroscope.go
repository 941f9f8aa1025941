package observability

import (
	"fmt"

	"github.com/grafana/pyroscope-go"

	"github.com/matchdayhq/tournament-engine/internal/config"
	"github.com/matchdayhq/tournament-engine/internal/platform/logging"
)

// profileTypes is everything the runtime can report; retention per type is
// the collector's call.
var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexCount,
	pyroscope.ProfileMutexDuration,
	pyroscope.ProfileBlockCount,
	pyroscope.ProfileBlockDuration,
}

// InitPyroscope starts continuous profiling when enabled. The returned func
// stops the upload loop.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Logger:            profilerLogAdapter{logger: logger},
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
			"version": cfg.ServiceVersion,
		},
		ProfileTypes: profileTypes,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)

	return profiler.Stop, nil
}

// profilerLogAdapter routes the profiler's own diagnostics through the
// service logger. Upload-cycle chatter lands at debug.
type profilerLogAdapter struct {
	logger *logging.Logger
}

func (a profilerLogAdapter) Infof(format string, args ...any) {
	a.logger.Debug("pyroscope: " + fmt.Sprintf(format, args...))
}

func (a profilerLogAdapter) Debugf(format string, args ...any) {
	a.logger.Debug("pyroscope: " + fmt.Sprintf(format, args...))
}

func (a profilerLogAdapter) Errorf(format string, args ...any) {
	a.logger.Warn("pyroscope: " + fmt.Sprintf(format, args...))
}
