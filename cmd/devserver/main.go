// Package main runs the game in a single process against stdin and stdout
// with an in-memory store. It is meant for local play testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/angler/internal/config"
	"github.com/cory-johannsen/angler/internal/game/command"
	"github.com/cory-johannsen/angler/internal/game/dice"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
	"github.com/cory-johannsen/angler/internal/gameserver"
	"github.com/cory-johannsen/angler/internal/observability"
	"github.com/cory-johannsen/angler/internal/storage"
)

// stdoutNotifier prints auto-reel results as they fire.
type stdoutNotifier struct {
	w io.Writer
}

func (n stdoutNotifier) Notify(_ string, text string) bool {
	_, err := fmt.Fprintf(n.w, "\n%s\n%s", text, prompt)
	return err == nil
}

func main() {
	uid := flag.String("uid", "local", "user id to play as")
	rulesPath := flag.String("rules", "", "optional rules YAML file")
	tz := flag.String("tz", "Asia/Seoul", "IANA zone for attendance days and the night window")
	autoReel := flag.Bool("auto-reel", true, "reel automatically when a cast resolves")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger, err := observability.NewLogger(config.LoggingConfig{Level: *level, Format: "console"})
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	rules := ruleset.Default()
	if *rulesPath != "" {
		if rules, err = ruleset.LoadFile(*rulesPath); err != nil {
			logger.Fatal("loading rules", zap.String("path", *rulesPath), zap.Error(err))
		}
	}
	loc, err := config.GameConfig{Timezone: *tz}.Location()
	if err != nil {
		logger.Fatal("resolving timezone", zap.String("tz", *tz), zap.Error(err))
	}

	engine := gameserver.NewEngine(rules, dice.NewCryptoSource(), gameserver.NewSystemClock(loc), logger.Named("engine"))
	var opts []gameserver.DispatcherOption
	if *autoReel {
		opts = append(opts, gameserver.WithAutoReel(stdoutNotifier{w: os.Stdout}))
	}
	d := gameserver.NewDispatcher(engine, storage.NewMemory(), command.DefaultRegistry(), logger.Named("dispatcher"), opts...)
	defer d.Close()

	if err := play(context.Background(), d, *uid, os.Stdin, os.Stdout); err != nil {
		logger.Fatal("reading input", zap.Error(err))
	}
}
