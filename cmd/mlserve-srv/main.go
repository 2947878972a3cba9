package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-sod/mlserve/internal/buildinfo"
	mlserve "github.com/go-sod/mlserve/internal/config"
	"github.com/go-sod/mlserve/internal/logging"
	"github.com/go-sod/mlserve/internal/metric"
	"github.com/go-sod/mlserve/internal/server"
	"github.com/go-sod/mlserve/internal/setup"
	"github.com/go-sod/mlserve/internal/shutdown"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintln(os.Stdout, buildinfo.Info.String())

	ctx, done := shutdown.New()
	logger := logging.NewLoggerFromEnv()
	ctx = logging.WithLogger(ctx, logger)

	err := run(ctx)
	done()
	if err != nil {
		logger.Fatal(err)
	}
	_ = logger.Sync()
}

func run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	config := mlserve.Config{}
	env, err := setup.Setup(ctx, &config)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}

	model, err := env.ProvidePredictor()(ctx)
	if err != nil {
		return fmt.Errorf("predictor provider function error: %w", err)
	}

	metricsHandler, err := metric.Register()
	if err != nil {
		return fmt.Errorf("metric.Register: %w", err)
	}

	router, err := newRouter(ctx, &config, model, metricsHandler)
	if err != nil {
		return err
	}

	srv, err := server.New(config.SrvAddr, config.MaxConnections)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("http server listening on %s", srv.Addr())
		return srv.ServeHTTPHandler(gctx, router)
	})

	if config.GRPCAddr != "" {
		grpcListener, err := server.New(config.GRPCAddr, 0)
		if err != nil {
			return fmt.Errorf("server.New grpc: %w", err)
		}
		grpcSrv, health := server.NewGRPCHealth()
		health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		g.Go(func() error {
			logger.Infof("grpc health listening on %s", grpcListener.Addr())
			return grpcListener.ServeGRPC(gctx, grpcSrv)
		})
		g.Go(func() error {
			<-gctx.Done()
			health.Shutdown()
			return nil
		})
	}

	if config.DebugAddr != "" {
		debugSrv, err := server.New(config.DebugAddr, 0)
		if err != nil {
			return fmt.Errorf("server.New debug: %w", err)
		}
		g.Go(func() error {
			logger.Infof("debug server listening on %s", debugSrv.Addr())
			return debugSrv.ServeHTTPHandler(gctx, http.DefaultServeMux)
		})
	}

	return g.Wait()
}
