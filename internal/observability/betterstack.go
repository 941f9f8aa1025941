package observability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matchdayhq/tournament-engine/internal/config"
	"github.com/matchdayhq/tournament-engine/internal/platform/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	shipQueueDepth     = 1024
	shipBatchLimit     = 64
	shipFlushEvery     = time.Second
	defaultShipTimeout = 3 * time.Second
)

// InitBetterStackLogger fans log output out to stdout and, when enabled, the
// Better Stack ingest API. The returned shutdown func drains queued records.
func InitBetterStackLogger(cfg config.Config, baseLogger *logging.Logger) (*logging.Logger, func(context.Context) error, error) {
	if baseLogger == nil {
		baseLogger = logging.NewJSON(cfg.LogLevel)
	}

	if !cfg.BetterStackEnabled {
		baseLogger.Info("betterstack disabled", "reason", "BETTERSTACK_ENABLED=false")
		return baseLogger, func(context.Context) error { return nil }, nil
	}

	ingestURL := normalizeBetterStackEndpoint(cfg.BetterStackEndpoint)
	if ingestURL == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	stdoutCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(logging.JSONEncoderConfig()),
		zapcore.Lock(os.Stdout),
		cfg.LogLevel,
	)

	shipper := newLogShipper(ingestURL, strings.TrimSpace(cfg.BetterStackToken), cfg.BetterStackTimeout)

	remoteCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(logging.JSONEncoderConfig()),
		zapcore.AddSync(shipper),
		cfg.BetterStackMinLevel,
	)

	logger := logging.FromZap(zap.New(
		zapcore.NewTee(stdoutCore, remoteCore),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	))
	logger.Info("betterstack enabled",
		"endpoint", ingestURL,
		"min_level", cfg.BetterStackMinLevel.String(),
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
	)

	shutdown := func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		if _, ok := ctx.Deadline(); !ok {
			bounded, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			ctx = bounded
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("drain betterstack queue: %w", err)
		}
		if err := logger.Sync(); err != nil && !isIgnorableLoggerSyncError(err) {
			return err
		}
		return nil
	}

	return logger, shutdown, nil
}

func normalizeBetterStackEndpoint(raw string) string {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return ""
	case strings.HasPrefix(value, "http://"), strings.HasPrefix(value, "https://"):
		return value
	default:
		return "https://" + value
	}
}

// logShipper uploads encoded records to the Better Stack ingest API in
// batches. Writes never block the logging hot path: records beyond the queue
// depth are counted and dropped.
type logShipper struct {
	ingestURL string
	token     string
	client    *http.Client

	gate   sync.RWMutex
	closed atomic.Bool
	queue  chan []byte

	stopOnce sync.Once
	workers  sync.WaitGroup
	dropped  atomic.Uint64
}

func newLogShipper(ingestURL, token string, timeout time.Duration) *logShipper {
	if timeout <= 0 {
		timeout = defaultShipTimeout
	}

	s := &logShipper{
		ingestURL: ingestURL,
		token:     token,
		client:    &http.Client{Timeout: timeout},
		queue:     make(chan []byte, shipQueueDepth),
	}
	s.workers.Add(1)
	go s.run()

	return s
}

func (s *logShipper) Write(p []byte) (int, error) {
	line := bytes.TrimSpace(p)
	if len(line) == 0 {
		return len(p), nil
	}

	s.gate.RLock()
	defer s.gate.RUnlock()
	if s.closed.Load() {
		return len(p), nil
	}

	// zap reuses the buffer after Write returns, so the record must be copied
	// before it crosses the channel.
	record := append(make([]byte, 0, len(line)), line...)

	select {
	case s.queue <- record:
	default:
		s.noteDrop()
	}

	return len(p), nil
}

func (s *logShipper) noteDrop() {
	n := s.dropped.Add(1)
	if n == 1 || n%100 == 0 {
		fmt.Fprintf(os.Stderr, "betterstack queue full; dropped logs=%d\n", n)
	}
}

func (s *logShipper) run() {
	defer s.workers.Done()

	ticker := time.NewTicker(shipFlushEvery)
	defer ticker.Stop()

	batch := make([][]byte, 0, shipBatchLimit)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.post(packBatch(batch))
		batch = batch[:0]
	}

	for {
		select {
		case record, ok := <-s.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, record)
			if len(batch) >= shipBatchLimit {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// packBatch joins encoded records into one JSON array, the shape the ingest
// API accepts for multi-event uploads.
func packBatch(records [][]byte) []byte {
	size := 2
	for _, record := range records {
		size += len(record) + 1
	}

	body := make([]byte, 0, size)
	body = append(body, '[')
	for i, record := range records {
		if i > 0 {
			body = append(body, ',')
		}
		body = append(body, record...)
	}

	return append(body, ']')
}

func (s *logShipper) post(body []byte) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.ingestURL, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "betterstack build request: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "betterstack upload: %v\n", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		fmt.Fprintf(os.Stderr, "betterstack upload rejected: status=%d\n", resp.StatusCode)
	}
}

// Close stops accepting records and waits for the worker to flush what is
// already queued, up to the context deadline.
func (s *logShipper) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.stopOnce.Do(func() {
		s.gate.Lock()
		s.closed.Store(true)
		close(s.queue)
		s.gate.Unlock()
	})

	drained := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sync satisfies zapcore.WriteSyncer; delivery is handled by the worker.
func (s *logShipper) Sync() error { return nil }

func isIgnorableLoggerSyncError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") || strings.Contains(msg, "invalid argument")
}
