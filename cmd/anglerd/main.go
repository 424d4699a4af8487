// Package main runs the fishing game daemon: the chat skill endpoint, the
// line console and the gRPC health service over one record store.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"net"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/angler/internal/config"
	"github.com/cory-johannsen/angler/internal/frontend/kakao"
	"github.com/cory-johannsen/angler/internal/frontend/telnet"
	"github.com/cory-johannsen/angler/internal/game/command"
	"github.com/cory-johannsen/angler/internal/game/dice"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
	"github.com/cory-johannsen/angler/internal/game/session"
	"github.com/cory-johannsen/angler/internal/gameserver"
	"github.com/cory-johannsen/angler/internal/observability"
	"github.com/cory-johannsen/angler/internal/server"
	"github.com/cory-johannsen/angler/internal/storage/backend"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	envFile := flag.String("env", ".env", "optional dotenv file loaded before the config")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading %s: %v", *envFile, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	rules := ruleset.Default()
	if cfg.Game.RulesFile != "" {
		rules, err = ruleset.LoadFile(cfg.Game.RulesFile)
		if err != nil {
			logger.Fatal("loading rules", zap.String("path", cfg.Game.RulesFile), zap.Error(err))
		}
	}
	loc, err := cfg.Game.Location()
	if err != nil {
		logger.Fatal("resolving timezone", zap.Error(err))
	}

	ctx := context.Background()
	storeStart := time.Now()
	store, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening store", zap.Error(err))
	}
	logger.Info("store ready", zap.Duration("elapsed", time.Since(storeStart)))

	src := dice.NewLoggedSource(dice.NewCryptoSource(), logger.Named("dice"))
	engine := gameserver.NewEngine(rules, src, gameserver.NewSystemClock(loc), logger.Named("engine"))

	sessions := session.NewManager(16)
	opts := []gameserver.DispatcherOption{gameserver.WithStoreTimeout(cfg.Storage.Timeout)}
	if cfg.GameServer.AutoReel {
		opts = append(opts, gameserver.WithAutoReel(sessions))
	}
	dispatcher := gameserver.NewDispatcher(engine, store, command.DefaultRegistry(), logger.Named("dispatcher"), opts...)

	lifecycle := server.NewLifecycle(logger, cfg.Server.ShutdownTimeout)
	lifecycle.OnClose("store", store.Close)
	lifecycle.OnClose("dispatcher", func() error {
		dispatcher.Close()
		return nil
	})

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	health := gameserver.NewHealthMonitor(store, 30*time.Second, logger.Named("health"))
	grpcServer := grpc.NewServer()
	health.Register(grpcServer)
	lifecycle.Add("grpc-health", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.GameServer.Addr())
			if err != nil {
				return err
			}
			go health.Run(monitorCtx)
			logger.Info("health service listening", zap.String("addr", lis.Addr().String()))
			return grpcServer.Serve(lis)
		},
		StopFn: func() {
			stopMonitor()
			grpcServer.GracefulStop()
		},
	})

	if cfg.Server.RunsKakao() {
		router := kakao.NewRouter(cfg.HTTP, dispatcher, store, logger.Named("kakao"))
		lifecycle.Add("kakao", kakao.NewServer(cfg.HTTP, router, logger.Named("kakao")))
	}
	if cfg.Server.RunsTelnet() {
		console := telnet.NewConsole(dispatcher, sessions, logger.Named("console"))
		lifecycle.Add("telnet", telnet.NewAcceptor(cfg.Telnet, console, logger.Named("telnet")))
	}

	logger.Info("angler daemon initialized",
		zap.String("mode", cfg.Server.Mode),
		zap.String("storage", cfg.Storage.Backend),
		zap.Bool("auto_reel", cfg.GameServer.AutoReel),
		zap.String("timezone", loc.String()),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("daemon stopped with error", zap.Error(err))
	}
}
