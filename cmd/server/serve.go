package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/equity-outlook/internal/adapter/grpc"
	"github.com/simaogato/equity-outlook/internal/adapter/repository/postgres"
	"github.com/simaogato/equity-outlook/internal/config"
	"github.com/simaogato/equity-outlook/internal/metrics"
	"github.com/simaogato/equity-outlook/internal/usecase/passthrough"
	"github.com/simaogato/equity-outlook/internal/usecase/projection"
)

const connectTimeout = 10 * time.Second

// serveCmd runs the gRPC server and the metrics endpoint
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projections over gRPC",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// app holds the wired services shared by every command
type app struct {
	cfg         *config.Config
	registry    *config.Registry
	db          *postgres.DB
	projection  *projection.ProjectionService
	passthrough *passthrough.PassthroughService
}

// newApp loads configuration, connects to Postgres and wires the services
// m may be nil for one-shot commands
func newApp(ctx context.Context, m *metrics.Metrics) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	registry, err := config.LoadRegistry(cfg.MarketsFile)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := postgres.NewDB(connectCtx, cfg.ConnectionString(), postgres.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		QueryTimeout:    cfg.DBQueryTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Repositories (Postgres)
	seriesRepo := postgres.NewSeriesRepository(db)
	indexRepo := postgres.NewIndexRepository(db)
	passthroughRepo := postgres.NewPassthroughRepository(db)

	return &app{
		cfg:         cfg,
		registry:    registry,
		db:          db,
		projection:  projection.NewProjectionService(seriesRepo, indexRepo, m),
		passthrough: passthrough.NewPassthroughService(passthroughRepo, registry.Passthrough, m),
	}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	a, err := newApp(ctx, m)
	if err != nil {
		return err
	}
	defer a.db.Close()

	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log.Logger),
			grpcadapter.AuthInterceptor(a.cfg.APIToken),
		),
	)
	grpcadapter.RegisterProjectionServiceServer(grpcServer,
		grpcadapter.NewServer(a.projection, a.passthrough, a.registry, a.registry.Markets))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", a.cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.GRPCAddr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		log.Info().Str("addr", a.cfg.GRPCAddr).Int("markets", len(a.registry.Markets)).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("failed to serve gRPC server: %w", err)
		}
	}()

	go func() {
		log.Info().Str("addr", a.cfg.MetricsAddr).Msg("Metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to serve metrics: %w", err)
		}
	}()

	return waitForShutdown(grpcServer, metricsServer, errCh)
}

// waitForShutdown waits for SIGTERM, SIGINT or a server failure and stops both servers
func waitForShutdown(grpcServer *grpclib.Server, metricsServer *http.Server, errCh <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	var serveErr error
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")
	case serveErr = <-errCh:
		log.Error().Err(serveErr).Msg("Server failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Metrics server shutdown")
	}

	grpcServer.GracefulStop()
	log.Info().Msg("gRPC server stopped")

	return serveErr
}
