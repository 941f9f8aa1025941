package observability

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/matchdayhq/tournament-engine/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"
)

const (
	uptraceLogInstrumentation = "tournament-engine/internal/platform/logging"
	maxLogValueDepth          = 3
)

// newUptraceLogMirror builds the logging.MirrorFunc that forwards every
// accepted zap record to the OTel log bridge as a structured log record.
func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	otelLogger := otelglobal.Logger(
		uptraceLogInstrumentation,
		otellog.WithInstrumentationVersion(serviceVersion),
	)

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if isProbeAccessLog(msg, args) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		severity := otelSeverity(level)
		if !otelLogger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}

		now := time.Now().UTC()
		var record otellog.Record
		record.SetTimestamp(now)
		record.SetObservedTimestamp(now)
		record.SetSeverity(severity)
		record.SetSeverityText(strings.ToUpper(level.String()))
		record.SetEventName(msg)
		record.SetBody(otellog.StringValue(msg))
		if attrs := logAttributes(args); len(attrs) > 0 {
			record.AddAttributes(attrs...)
		}

		otelLogger.Emit(ctx, record)
	}
}

// Access logs for liveness probes are pure noise in Uptrace. The HTTP tracer
// skips the same paths.
func isProbeAccessLog(msg string, args []any) bool {
	if msg != "http request" {
		return false
	}

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key != "path" {
			continue
		}
		path, ok := args[i+1].(string)
		if !ok {
			return false
		}
		switch path {
		case "/healthz", "/health", "/livez", "/readyz":
			return true
		default:
			return false
		}
	}

	return false
}

func logAttributes(args []any) []otellog.KeyValue {
	if len(args) == 0 {
		return nil
	}

	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key := attrKeyAt(args, i)
		if i+1 >= len(args) {
			attrs = append(attrs, otellog.Empty(key))
			break
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(args[i+1], 0)})
	}

	return attrs
}

func attrKeyAt(args []any, i int) string {
	if key, ok := args[i].(string); ok && strings.TrimSpace(key) != "" {
		return key
	}
	return fmt.Sprintf("arg_%d", i/2)
}

func otelSeverity(level zapcore.Level) otellog.Severity {
	switch level {
	case zapcore.DebugLevel:
		return otellog.SeverityDebug
	case zapcore.InfoLevel:
		return otellog.SeverityInfo
	case zapcore.WarnLevel:
		return otellog.SeverityWarn
	case zapcore.ErrorLevel:
		return otellog.SeverityError
	default:
		if level < zapcore.DebugLevel {
			return otellog.SeverityDebug
		}
		return otellog.SeverityFatal
	}
}

// logValue converts a zap-style attribute into an OTel log value. Composite
// values recurse up to maxLogValueDepth before degrading to fmt.Sprint.
func logValue(value any, depth int) otellog.Value {
	if depth >= maxLogValueDepth {
		return otellog.StringValue(fmt.Sprint(value))
	}
	if value == nil {
		return otellog.Value{}
	}
	if v, ok := scalarLogValue(value); ok {
		return v
	}
	return compositeLogValue(value, depth)
}

func scalarLogValue(value any) (otellog.Value, bool) {
	switch v := value.(type) {
	case string:
		return otellog.StringValue(v), true
	case bool:
		return otellog.BoolValue(v), true
	case error:
		return otellog.StringValue(v.Error()), true
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano)), true
	case time.Duration:
		return otellog.StringValue(v.String()), true
	case int:
		return otellog.IntValue(v), true
	case int8:
		return otellog.Int64Value(int64(v)), true
	case int16:
		return otellog.Int64Value(int64(v)), true
	case int32:
		return otellog.Int64Value(int64(v)), true
	case int64:
		return otellog.Int64Value(v), true
	case uint8:
		return otellog.Int64Value(int64(v)), true
	case uint16:
		return otellog.Int64Value(int64(v)), true
	case uint32:
		return otellog.Int64Value(int64(v)), true
	case uint:
		return unsignedLogValue(uint64(v)), true
	case uint64:
		return unsignedLogValue(v), true
	case float32:
		return otellog.Float64Value(float64(v)), true
	case float64:
		return otellog.Float64Value(v), true
	case []byte:
		return otellog.BytesValue(append([]byte(nil), v...)), true
	case fmt.Stringer:
		return otellog.StringValue(v.String()), true
	}
	return otellog.Value{}, false
}

// unsignedLogValue keeps values above MaxInt64 readable instead of letting
// the int64 conversion wrap negative.
func unsignedLogValue(v uint64) otellog.Value {
	if v > math.MaxInt64 {
		return otellog.StringValue(strconv.FormatUint(v, 10))
	}
	return otellog.Int64Value(int64(v))
}

func compositeLogValue(value any, depth int) otellog.Value {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return otellog.Value{}
		}
		return logValue(rv.Elem().Interface(), depth+1)
	case reflect.Slice, reflect.Array:
		return sequenceLogValue(rv, depth)
	case reflect.Map:
		return mapLogValue(rv, depth)
	default:
		return otellog.StringValue(fmt.Sprint(value))
	}
}

func sequenceLogValue(rv reflect.Value, depth int) otellog.Value {
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return otellog.BytesValue(out)
	}

	items := make([]otellog.Value, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		items = append(items, logValue(rv.Index(i).Interface(), depth+1))
	}
	return otellog.SliceValue(items...)
}

func mapLogValue(rv reflect.Value, depth int) otellog.Value {
	if rv.Type().Key().Kind() != reflect.String {
		return otellog.StringValue(fmt.Sprint(rv.Interface()))
	}

	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	kvs := make([]otellog.KeyValue, 0, len(keys))
	for _, key := range keys {
		kvs = append(kvs, otellog.KeyValue{
			Key:   key.String(),
			Value: logValue(rv.MapIndex(key).Interface(), depth+1),
		})
	}
	return otellog.MapValue(kvs...)
}
