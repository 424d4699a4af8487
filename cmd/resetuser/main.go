// Package main provides a CLI tool for deleting a player record so the user
// starts over at the nickname prompt.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/angler/internal/config"
	"github.com/cory-johannsen/angler/internal/observability"
	"github.com/cory-johannsen/angler/internal/storage"
	"github.com/cory-johannsen/angler/internal/storage/backend"
)

// nicknameFinder is implemented by stores that index nicknames.
type nicknameFinder interface {
	FindByNickname(ctx context.Context, nickname string) (string, error)
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	uid := flag.String("uid", "", "user id to reset")
	nickname := flag.String("nickname", "", "nickname to reset (postgres backend only)")
	flag.Parse()

	if (*uid == "") == (*nickname == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -uid or -nickname is required")
		flag.Usage()
		os.Exit(1)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	target := *uid
	if *nickname != "" {
		finder, ok := store.(nicknameFinder)
		if !ok {
			log.Fatalf("storage backend %q cannot look up nicknames; use -uid", cfg.Storage.Backend)
		}
		target, err = finder.FindByNickname(ctx, *nickname)
		if err != nil {
			log.Fatalf("looking up nickname %q: %v", *nickname, err)
		}
	}

	if err := store.Delete(ctx, target); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Fatalf("no record for user %q", target)
		}
		log.Fatalf("deleting user %q: %v", target, err)
	}

	fmt.Fprintf(os.Stdout, "reset user %s [%s]\n", target, time.Since(start))
}
