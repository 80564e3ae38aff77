package database

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eislab/lab-tracker/internal/auth"
	"github.com/eislab/lab-tracker/internal/model"
)

const (
	// BootstrapAdminID is the sentinel account seeded the first time the
	// schema is provisioned on an empty store.
	BootstrapAdminID model.ID = 999999999

	_bootstrapAdminPassword = "admin123"
)

// EnsureBootstrapAdmin seeds the bootstrap administrator and its credential
// if no such credential exists yet. Safe to call on every startup: the check
// is an explicit existence test, not an insert-and-catch-conflict, so a
// provisioned store is left untouched.
func EnsureBootstrapAdmin(ctx context.Context, logger *slog.Logger, db *DB) error {
	creds := NewCredentialDAO(logger, db)

	exists, err := creds.Exists(ctx, BootstrapAdminID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(_bootstrapAdminPassword)
	if err != nil {
		return err
	}

	return db.WithTx(ctx, func(tx Tx) error {
		users := NewUserDAO(logger, db).WithTx(tx)

		_, err := users.Get(ctx, BootstrapAdminID)
		switch {
		case err == nil:
			// User row survived a credential wipe; just restore the credential.
		case errors.Is(err, model.ErrNotFound):
			err := users.Insert(ctx, InsertUserDTO{
				StudentID: BootstrapAdminID,
				FirstName: "Lab",
				LastName:  "Admin",
				Tags:      model.TagAdmin,
			})
			if err != nil {
				return err
			}
		default:
			return err
		}

		if err := creds.WithTx(tx).Upsert(ctx, BootstrapAdminID, hash); err != nil {
			return err
		}

		logger.Info("seeded bootstrap administrator", "studentId", BootstrapAdminID)

		return nil
	})
}
