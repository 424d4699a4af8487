// Package migrations embeds the PostgreSQL schema and applies it with
// golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// FS holds every *.sql migration in golang-migrate naming.
//
//go:embed *.sql
var FS embed.FS

// Direction selects which way Apply migrates.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Result describes the schema after Apply.
type Result struct {
	Version uint
	Dirty   bool
	Changed bool
}

// Apply migrates the database at dsn in dir. steps == 0 migrates all the
// way; otherwise at most steps migrations run.
//
// Precondition: dsn must be a postgres:// URL.
// Postcondition: an already current schema is reported as Changed == false,
// not as an error.
func Apply(dsn string, dir Direction, steps int) (Result, error) {
	if dir != Up && dir != Down {
		return Result{}, fmt.Errorf("invalid direction %q: must be %q or %q", dir, Up, Down)
	}
	src, err := iofs.New(FS, ".")
	if err != nil {
		return Result{}, fmt.Errorf("opening embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return Result{}, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	switch {
	case steps > 0 && dir == Down:
		err = m.Steps(-steps)
	case steps > 0:
		err = m.Steps(steps)
	case dir == Down:
		err = m.Down()
	default:
		err = m.Up()
	}
	res := Result{Changed: true}
	if errors.Is(err, migrate.ErrNoChange) {
		res.Changed, err = false, nil
	}
	if err != nil {
		return res, fmt.Errorf("migrating %s: %w", dir, err)
	}

	res.Version, res.Dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		err = nil
	}
	return res, err
}
