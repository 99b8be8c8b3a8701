package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/config"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/grpc/chessserver"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/httpapi"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/monitoring"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/session"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/store"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", os.Getenv("APP_ENV"), "Environment overlay (loads config.<env>.yaml)")
	httpPort := flag.Int("http-port", -1, "The HTTP port (-1 to use config default)")
	grpcPort := flag.Int("grpc-port", -1, "The gRPC port (-1 to use config default)")
	host := flag.String("host", "", "Bind host for both listeners (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	maxGames := flag.Int("max-games", -1, "Maximum concurrent games (-1 to use config default)")
	storeDriver := flag.String("store", "", "Snapshot store: memory or mongo (empty to use config default)")
	restore := flag.String("restore", "", "Comma-separated game ids to reload from the store at startup")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(*env); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}
	cfg := *config.Get()

	// Flags override config
	if *httpPort != -1 {
		cfg.Server.HTTP.Port = *httpPort
	}
	if *grpcPort != -1 {
		cfg.Server.GRPC.Port = *grpcPort
	}
	if *host != "" {
		cfg.Server.HTTP.Host = *host
		cfg.Server.GRPC.Host = *host
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *maxGames != -1 {
		cfg.Sessions.MaxGames = *maxGames
	}
	if *storeDriver != "" {
		cfg.Store.Driver = *storeDriver
	}
	if *enableReflection {
		cfg.Server.GRPC.EnableReflection = true
	}
	if err := config.Validate(&cfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	setupLogging(cfg.Logging)

	log.Info().
		Bool("http", cfg.Server.HTTP.Enabled).
		Bool("grpc", cfg.Server.GRPC.Enabled).
		Int("max_games", cfg.Sessions.MaxGames).
		Str("store", cfg.Store.Driver).
		Bool("seats", cfg.Auth.SeatSecret != "").
		Msg("Starting chess server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := st.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	var seats *session.SeatIssuer
	if cfg.Auth.SeatSecret != "" {
		seats, err = session.NewSeatIssuer(cfg.Auth.SeatSecret, cfg.Auth.SeatTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create seat issuer")
		}
	} else {
		log.Warn().Msg("auth.seat_secret is empty, moves are not authorized")
	}

	manager := session.NewManager(session.Config{
		MaxGames:        cfg.Sessions.MaxGames,
		IdleTimeout:     cfg.Sessions.IdleTimeout,
		FinishedTTL:     cfg.Sessions.FinishedTTL,
		CleanupInterval: cfg.Sessions.CleanupInterval,
	}, st, seats, log.Logger)

	restoreGames(ctx, manager, *restore)

	monitor := monitoring.NewGoroutineMonitor(monitoring.DefaultConfig(), log.Logger)
	monitor.RegisterGauge("games", manager.Count)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		manager.RunCleanup(ctx)
	}()
	go func() {
		defer wg.Done()
		monitor.Run(ctx)
	}()

	// Hot reload of the log level
	if config.ConfigFilePath() != "" {
		config.WatchConfig(func(c *config.Config, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("Ignoring invalid config change")
				return
			}
			zerolog.SetGlobalLevel(parseLevel(c.Logging.Level))
			log.Info().Str("level", c.Logging.Level).Msg("Config reloaded")
		})
	}

	var (
		grpcServer   *grpc.Server
		healthServer *health.Server
		httpServer   *http.Server
		serveErr     = make(chan error, 2)
	)

	if cfg.Server.GRPC.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.Server.GRPC.Host, cfg.Server.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			log.Fatal().Err(err).Str("address", addr).Msg("Failed to listen")
		}

		grpcServer = grpc.NewServer(chessserver.ServerOptions(log.Logger)...)
		chessserver.RegisterChessServiceServer(grpcServer, chessserver.NewServer(manager, log.Logger))

		healthServer = health.NewServer()
		grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		healthServer.SetServingStatus(chessserver.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

		if cfg.Server.GRPC.EnableReflection {
			reflection.Register(grpcServer)
			log.Info().Msg("gRPC reflection enabled")
		}

		log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				serveErr <- fmt.Errorf("grpc: %w", err)
			}
		}()
	}

	if cfg.Server.HTTP.Enabled {
		handler := httpapi.NewHandler(manager, httpapi.Options{
			AllowedOrigins: cfg.Server.HTTP.AllowedOrigins,
			Monitor:        monitor,
		}, log.Logger)

		httpServer = &http.Server{
			Addr:        fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port),
			Handler:     handler.Handler(),
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		}

		log.Info().Str("address", httpServer.Addr).Msg("HTTP server listening")
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- fmt.Errorf("http: %w", err)
			}
		}()
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serveErr:
		log.Error().Err(err).Msg("Server failed")
	}

	if healthServer != nil {
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(chessserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		// Give ongoing requests time to complete
		time.Sleep(time.Duration(cfg.Server.GRPC.GracefulShutdownDelay) * time.Second)
	}

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown error")
		}
		shutdownCancel()
	}
	if grpcServer != nil {
		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()
	}

	cancel()
	wg.Wait()
	log.Info().Msg("Server shutdown complete")
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
			Timeout:    cfg.Timeout,
		}, log.Logger)
	default:
		return store.NewMemoryStore(), nil
	}
}

func restoreGames(ctx context.Context, manager *session.Manager, ids string) {
	if ids == "" {
		return
	}
	for _, id := range strings.Split(ids, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		info, seats, err := manager.Restore(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("game_id", id).Msg("Failed to restore game")
			continue
		}
		log.Info().
			Str("game_id", id).
			Str("phase", info.Phase.String()).
			Str("white_seat", seats.White).
			Str("black_seat", seats.Black).
			Msg("Restored game")
	}
}

func parseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}

func setupLogging(cfg config.LoggingConfig) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	// JSON output for production
	if os.Getenv("APP_ENV") == "production" || cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})
}
