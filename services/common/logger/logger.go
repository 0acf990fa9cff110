package logger

import (
	"context"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It starts as a no-op so packages that log
// before Initialize (or in tests) never panic.
var Log = zap.NewNop()

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

type ctxKey struct{}

// Initialize sets up the logger for env without a CloudWatch sink.
func Initialize(env string) *zap.Logger {
	return InitializeWithWriter(env, nil)
}

// InitializeWithWriter builds the logger for env and, when extra is non-nil,
// tees JSON-encoded entries into it (the CloudWatch Logs writer).
func InitializeWithWriter(env string, extra io.Writer) *zap.Logger {
	Log = New(env, extra)
	zap.ReplaceGlobals(Log)
	return Log
}

// New builds a logger without touching the global.
func New(env string, extra io.Writer) *zap.Logger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var consoleEncoder zapcore.Encoder
	if env == "production" {
		consoleEncoder = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	}
	level := zap.NewAtomicLevelAt(cfg.Level.Level())
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	if extra != nil {
		jsonCfg := cfg.EncoderConfig
		jsonCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cwCore := zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), zapcore.AddSync(extra), level)
		core = zapcore.NewTee(core, cwCore)
	}
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// RequestID reuses X-Request-ID or assigns a new one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), id))
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// WithContext stores a request ID on ctx.
func WithContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestIDFrom returns the request ID carried by ctx, or "unknown".
func RequestIDFrom(ctx context.Context) string {
	if gc, ok := ctx.(*gin.Context); ok {
		if id := gc.GetString(RequestIDKey); id != "" {
			return id
		}
		ctx = gc.Request.Context()
	}
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return "unknown"
}

// For returns l annotated with the request ID from ctx.
func For(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		l = Log
	}
	return l.With(zap.String("request_id", RequestIDFrom(ctx)))
}
