// Package server builds the gin engine every service runs behind and owns
// process startup and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/config"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/logger"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/middleware"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/telemetry"
)

const shutdownTimeout = 10 * time.Second

// Runtime is what every main needs before wiring its own dependencies.
type Runtime struct {
	Config  config.Base
	AWS     sdkaws.Config
	Logger  *zap.Logger
	Metrics *awspkg.MetricsClient

	closers []func(context.Context) error
}

// Bootstrap loads AWS config and sets up logging, metrics and tracing.
func Bootstrap(ctx context.Context, base config.Base) (*Runtime, error) {
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	cw, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, base.ServiceName)
	if err != nil {
		// logs still go to stdout
		fmt.Fprintf(os.Stderr, "cloudwatch logs disabled: %v\n", err)
		cw = nil
	}
	var log *zap.Logger
	if cw.IsEnabled() {
		log = logger.InitializeWithWriter(base.Env, cw)
	} else {
		log = logger.Initialize(base.Env)
	}
	log = log.With(zap.String("service", base.ServiceName))

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:  base.ServiceName,
		Environment:  base.Env,
		Enabled:      base.TracingEnabled,
		OTLPEndpoint: base.OTLPEndpoint,
	})
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
		shutdownTracing = func(context.Context) error { return nil }
	}

	return &Runtime{
		Config:  base,
		AWS:     awsCfg,
		Logger:  log,
		Metrics: awspkg.NewMetricsClient(awsCfg),
		closers: []func(context.Context) error{shutdownTracing},
	}, nil
}

// OnShutdown registers fn to run after the HTTP server stops.
func (rt *Runtime) OnShutdown(fn func(context.Context) error) {
	rt.closers = append(rt.closers, fn)
}

// NewRouter returns an engine with the shared middleware chain and /health.
func NewRouter(base config.Base, log *zap.Logger, metrics *awspkg.MetricsClient) *gin.Engine {
	if base.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	showDetails := !base.IsProduction()
	origins := middleware.ParseOrigins(base.AllowedOrigins)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(apperrors.MethodNotAllowed)
	r.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	r.Use(
		gin.CustomRecovery(func(c *gin.Context, rec any) {
			apperrors.Respond(c, fmt.Errorf("panic: %v", rec), showDetails)
		}),
		logger.RequestID(),
		middleware.ResponseHeaders(origins),
		middleware.CORS(origins),
		middleware.SecurityHeaders(),
		middleware.MetricsMiddleware(metrics, base.ServiceName),
		middleware.RequestLogger(log),
		middleware.RateLimitMiddleware(base.RateLimitPerMinute),
		middleware.Timeout(base.RequestTimeout),
		apperrors.ErrorMiddleware(showDetails),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": base.ServiceName})
	})
	return r
}

// Run serves h until SIGINT/SIGTERM or ctx is done, then shuts down.
func (rt *Runtime) Run(ctx context.Context, h http.Handler) error {
	if rt.Config.TracingEnabled {
		h = telemetry.Handler(h, rt.Config.ServiceName)
	}
	srv := &http.Server{
		Addr:              ":" + rt.Config.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		rt.Logger.Info("server started", zap.String("port", rt.Config.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	rt.Logger.Info("initiating graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		rt.Logger.Error("server shutdown error", zap.Error(err))
	}
	for _, closeFn := range rt.closers {
		if err := closeFn(shutdownCtx); err != nil {
			rt.Logger.Warn("shutdown hook failed", zap.Error(err))
		}
	}
	_ = rt.Logger.Sync()
	rt.Logger.Info("server stopped")
	return nil
}
