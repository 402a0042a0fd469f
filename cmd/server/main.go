package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brandidog/dog-server-go/internal/auth"
	"github.com/brandidog/dog-server-go/internal/config"
	"github.com/brandidog/dog-server-go/internal/game"
	"github.com/brandidog/dog-server-go/internal/match"
	"github.com/brandidog/dog-server-go/internal/repository"
	"github.com/brandidog/dog-server-go/internal/server"
	"github.com/brandidog/dog-server-go/internal/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting dog server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Persistence is optional: without a DSN the server runs matches but
	// records no results.
	var results match.ResultSink
	if cfg.Database.DSN != "" {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)
		results = repository.NewMatchResultRepository(db)
	} else {
		logger.Warn("no database configured; match results will not be persisted")
	}

	sessionMgr := session.NewManager(cfg.Server.LeasePeriod, logger)
	sessionMgr.SetLimit(cfg.Server.MaxSessions)
	logger.Info("session manager initialized",
		zap.Duration("lease_period", cfg.Server.LeasePeriod),
	)
	go sessionMgr.CleanupExpiredSessions(ctx)

	tokenStore := auth.NewTokenStore(cfg.Game.JoinTokenTTL)
	logger.Info("join token store initialized",
		zap.Duration("token_ttl", cfg.Game.JoinTokenTTL),
	)
	go func() {
		ticker := time.NewTicker(cfg.Game.JoinTokenTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if pruned := tokenStore.Prune(); pruned > 0 {
					logger.Debug("pruned expired join tokens", zap.Int("count", pruned))
				}
			}
		}
	}()

	engine := game.NewDogEngine(logger)
	engine.SetReplayDir(cfg.Game.ReplayDir)
	logger.Info("game engine initialized",
		zap.String("replay_dir", cfg.Game.ReplayDir),
	)

	matchMgr := match.NewManager(engine, results, cfg.Game.Seed, cfg.Game.BotActionDelay, logger)
	logger.Info("match manager initialized",
		zap.Int64("seed", cfg.Game.Seed),
		zap.Duration("bot_action_delay", cfg.Game.BotActionDelay),
	)

	wsServer := server.NewWebSocketServer(cfg.Server.WebSocket, sessionMgr, matchMgr, engine, tokenStore, logger)
	go func() {
		if wsErr := wsServer.Start(ctx); wsErr != nil {
			logger.Error("websocket server error", zap.Error(wsErr))
		}
	}()

	logger.Info("dog server initialized",
		zap.String("version", version),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
		zap.Int("max_sessions", cfg.Server.MaxSessions),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	sessionMgr.CloseAll()

	logger.Info("dog server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
