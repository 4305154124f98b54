package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/signalsfoundry/mapdraw/internal/config"
	"github.com/signalsfoundry/mapdraw/internal/gesture"
	"github.com/signalsfoundry/mapdraw/internal/logging"
	"github.com/signalsfoundry/mapdraw/internal/observability"
	"github.com/signalsfoundry/mapdraw/internal/session"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	grpcAddr := flag.String("grpc-addr", "", "TCP address the gesture gRPC server listens on (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics (overrides config)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		logging.NewFromEnv().Error(ctx, "failed to load config", logging.String("path", *configPath), logging.Err(err))
		os.Exit(1)
	}
	if *grpcAddr != "" {
		cfg.Server.GRPCAddr = *grpcAddr
	}
	if *metricsAddr != "" {
		cfg.Server.MetricsAddr = *metricsAddr
	}

	log := logging.New(cfg.Log)

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		log.Error(ctx, "failed to listen for gRPC", logging.String("addr", cfg.Server.GRPCAddr), logging.Err(err))
		os.Exit(1)
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(stopCtx, cfg, log, lis); err != nil {
		log.Error(ctx, "gesture server exited", logging.Err(err))
		os.Exit(1)
	}
}

// run serves the gesture service on lis until ctx is cancelled.
func run(ctx context.Context, cfg config.Config, log logging.Logger, lis net.Listener) error {
	collector, err := observability.NewCollector(nil)
	if err != nil {
		return err
	}
	metricsSrv := serveMetrics(cfg.Server.MetricsAddr, collector, log)

	store := session.NewStore(
		session.WithEditorOptions(cfg.Editor.Options()...),
		session.WithLogger(log),
		session.WithMetricsRecorder(collector),
		session.WithEditMetrics(collector),
	)
	unsubscribe := store.Subscribe(func(ev session.Event) {
		if ev.Type != session.EventEdited {
			return
		}
		log.Debug(context.Background(), "edit committed",
			logging.String("session_id", ev.SessionID),
			logging.String("kind", ev.Edit.Kind.String()),
			logging.Int("index", ev.Edit.Index),
			logging.Int("vertices", len(ev.Edit.Coordinates)),
		)
	})
	defer unsubscribe()

	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			gesture.RequestIDUnaryServerInterceptor(log),
			gesture.TracingUnaryServerInterceptor(),
			collector.UnaryServerInterceptor(),
		),
	)
	gesture.RegisterGestureServiceServer(server, gesture.NewService(store, log))

	log.Info(ctx, "starting gesture gRPC server", logging.String("addr", lis.Addr().String()))
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(lis)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
	}

	log.Info(context.Background(), "shutting down gesture server", logging.Int("sessions", store.Len()))
	server.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return nil
}

func serveMetrics(addr string, collector *observability.Collector, log logging.Logger) *http.Server {
	if collector == nil || addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
