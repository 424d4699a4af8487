package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/angler/internal/config"
	"github.com/cory-johannsen/angler/internal/storage/postgres"
	"github.com/cory-johannsen/angler/migrations"
)

// PostgresContainer is a migrated PostgreSQL instance with an open pool.
type PostgresContainer struct {
	Pool   *pgxpool.Pool
	Config config.DatabaseConfig
}

// NewPostgresContainer starts PostgreSQL, applies every embedded migration
// and connects a pool.
//
// Postcondition: the players table exists; the pool and container are
// released when the test ends.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ep := startContainer(t, "postgres:16-alpine", "5432",
		"database system is ready to accept connections", 2,
		map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		})

	cfg := config.DatabaseConfig{
		Host:            ep.Host,
		Port:            ep.Port,
		User:            "test",
		Password:        "test",
		Name:            "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}
	if _, err := migrations.Apply(cfg.DSN(), migrations.Up, 0); err != nil {
		t.Fatalf("migrating test postgres: %v", err)
	}
	pool, err := postgres.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return &PostgresContainer{Pool: pool, Config: cfg}
}

// Truncate empties the players table.
func (pc *PostgresContainer) Truncate(t *testing.T) {
	t.Helper()
	if _, err := pc.Pool.Exec(context.Background(), `TRUNCATE players`); err != nil {
		t.Fatalf("truncating players: %v", err)
	}
}
