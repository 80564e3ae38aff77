package database

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/eislab/lab-tracker/assets"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/mattn/go-sqlite3"
)

const (
	_defaultTimeout = 3 * time.Second
	_driverName     = "sqlite3"
)

type DB struct {
	*sqlx.DB
	Builder squirrel.StatementBuilderType

	path string
}

// New opens (creating if needed) the tracker database at path. WAL mode and
// foreign-key enforcement are switched on through the DSN; the pool is capped
// at a single connection because SQLite allows one writer at a time.
func New(path string, automigrate bool) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), _defaultTimeout)
	defer cancel()

	dsn := "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	sqlxDB, err := sqlx.ConnectContext(ctx, _driverName, dsn)
	if err != nil {
		return nil, err
	}

	sqlxDB.SetMaxOpenConns(1)
	sqlxDB.SetMaxIdleConns(1)
	sqlxDB.SetConnMaxIdleTime(5 * time.Minute)

	db := &DB{
		DB:      sqlxDB,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		path:    path,
	}

	if automigrate {
		if err := db.Migrate(); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate applies any pending schema migrations. It is idempotent and safe to
// re-run against an up-to-date store.
func (db *DB) Migrate() error {
	iofsDriver, err := iofs.New(assets.EmbeddedFiles, "migrations")
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", iofsDriver, "sqlite3://"+db.path)
	if err != nil {
		return err
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		break
	case err != nil:
		return err
	}

	if srcErr, dbErr := migrator.Close(); srcErr != nil || dbErr != nil {
		return errors.Join(srcErr, dbErr)
	}

	return nil
}
