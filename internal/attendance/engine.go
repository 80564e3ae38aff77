// Package attendance implements the session rules of the tracker: how a
// user's presence state, their open-ended log entries and their tag mask move
// together. All state lives in the store; every operation is a fresh
// read-modify-write cycle, and every multi-statement mutation runs inside one
// transaction.
package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/eislab/lab-tracker/internal/auth"
	"github.com/eislab/lab-tracker/internal/database"
	"github.com/eislab/lab-tracker/internal/model"
)

type Engine struct {
	logger *slog.Logger
	db     *database.DB

	users *database.UserDAO
	logs  *database.LogDAO
	creds *database.CredentialDAO

	// now is swappable for tests.
	now func() model.Millis
}

func NewEngine(logger *slog.Logger, db *database.DB) *Engine {
	logger = logger.With("component", "engine")
	return &Engine{
		logger: logger,
		db:     db,
		users:  database.NewUserDAO(logger, db),
		logs:   database.NewLogDAO(logger, db),
		creds:  database.NewCredentialDAO(logger, db),
		now:    func() model.Millis { return time.Now().UnixMilli() },
	}
}

type RegisterParams struct {
	StudentID model.ID
	FirstName string
	LastName  string
	Tags      model.Tags
}

// Register creates a new user. The ID must not already be taken.
func (e *Engine) Register(ctx context.Context, params RegisterParams) (model.User, error) {
	if params.StudentID <= 0 || params.FirstName == "" || params.LastName == "" {
		return model.User{}, model.NewError("user", model.ErrInvalidInput)
	}
	if !params.Tags.Valid() {
		return model.User{}, model.NewError("tags", model.ErrInvalidInput)
	}

	err := e.users.Insert(ctx, database.InsertUserDTO{
		StudentID: params.StudentID,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Tags:      params.Tags,
	})
	if err != nil {
		return model.User{}, err
	}

	e.logger.Info("registered user", "studentId", params.StudentID)

	return e.users.Get(ctx, params.StudentID)
}

// CheckIn opens a session for the user. The open-session check, the log
// insert and the logged_in flip are one transaction, so a double badge cannot
// slip a second open entry in between.
func (e *Engine) CheckIn(ctx context.Context, id model.ID, supervising *bool) (model.LogEntry, error) {
	var entry model.LogEntry

	err := e.db.WithTx(ctx, func(tx database.Tx) error {
		users := e.users.WithTx(tx)
		logs := e.logs.WithTx(tx)

		if _, err := users.Get(ctx, id); err != nil {
			return err
		}

		_, err := logs.GetOpenByUser(ctx, id)
		switch {
		case err == nil:
			return model.NewError("session", model.ErrAlreadyLoggedIn)
		case errors.Is(err, model.ErrNotFound):
		default:
			return err
		}

		logID, err := logs.Insert(ctx, database.InsertLogDTO{
			User:        id,
			TimeIn:      e.now(),
			Supervising: supervising,
		})
		if err != nil {
			return err
		}

		if err := users.SetLoggedIn(ctx, id, true); err != nil {
			return err
		}

		entry, err = logs.Get(ctx, logID)
		return err
	})
	if err != nil {
		return model.LogEntry{}, err
	}

	e.logger.Info("checked in", "studentId", id, "logId", entry.LogID)

	return entry, nil
}

// CheckOut closes the user's open session. Checking out without an open
// session is an error, never a silent no-op.
func (e *Engine) CheckOut(ctx context.Context, id model.ID) (model.LogEntry, error) {
	var entry model.LogEntry

	err := e.db.WithTx(ctx, func(tx database.Tx) error {
		users := e.users.WithTx(tx)
		logs := e.logs.WithTx(tx)

		if _, err := users.Get(ctx, id); err != nil {
			return err
		}

		open, err := logs.GetOpenByUser(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewError("session", model.ErrNotLoggedIn)
			}
			return err
		}

		if err := logs.Close(ctx, open.LogID, e.now()); err != nil {
			return err
		}

		if err := users.SetLoggedIn(ctx, id, false); err != nil {
			return err
		}

		entry, err = logs.Get(ctx, open.LogID)
		return err
	})
	if err != nil {
		return model.LogEntry{}, err
	}

	e.logger.Info("checked out", "studentId", id, "logId", entry.LogID)

	return entry, nil
}

// EditTags replaces the user's tag mask. The mask and its four mirror columns
// are written in a single statement.
func (e *Engine) EditTags(ctx context.Context, id model.ID, tags model.Tags) (model.User, error) {
	if !tags.Valid() {
		return model.User{}, model.NewError("tags", model.ErrInvalidInput)
	}

	if _, err := e.users.Get(ctx, id); err != nil {
		return model.User{}, err
	}

	if err := e.users.UpdateTags(ctx, id, tags); err != nil {
		return model.User{}, err
	}

	return e.users.Get(ctx, id)
}

// SetProfile updates the independently settable profile attributes.
func (e *Engine) SetProfile(ctx context.Context, id model.ID, dto database.UpdateUserDTO) (model.User, error) {
	if _, err := e.users.Get(ctx, id); err != nil {
		return model.User{}, err
	}

	if err := e.users.Update(ctx, id, dto); err != nil {
		return model.User{}, err
	}

	return e.users.Get(ctx, id)
}

// SetCardID binds a badge card to the user. Cards are unique across users.
func (e *Engine) SetCardID(ctx context.Context, id model.ID, cardID string) (model.User, error) {
	if cardID == "" {
		return model.User{}, model.NewError("card", model.ErrInvalidInput)
	}

	if _, err := e.users.Get(ctx, id); err != nil {
		return model.User{}, err
	}

	if err := e.users.UpdateCard(ctx, id, cardID); err != nil {
		return model.User{}, err
	}

	return e.users.Get(ctx, id)
}

const _minPasswordLength = 6

// SetCredential hashes and stores a password for the user.
func (e *Engine) SetCredential(ctx context.Context, id model.ID, password string) error {
	if len(password) < _minPasswordLength {
		return model.NewError("password", model.ErrInvalidInput)
	}

	if _, err := e.users.Get(ctx, id); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return e.creds.Upsert(ctx, id, hash)
}

// VerifyCredential reports whether the password matches the user's stored
// credential. An unknown user or a missing credential verifies false, not as
// an error, so callers cannot distinguish which part was wrong.
func (e *Engine) VerifyCredential(ctx context.Context, id model.ID, password string) (bool, error) {
	cred, err := e.creds.Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return auth.VerifyPassword(cred.PasswordHash, password)
}

// Delete removes the user and their credential. Blocked while any log entry
// references the user.
func (e *Engine) Delete(ctx context.Context, id model.ID) error {
	err := e.db.WithTx(ctx, func(tx database.Tx) error {
		users := e.users.WithTx(tx)
		logs := e.logs.WithTx(tx)

		if _, err := users.Get(ctx, id); err != nil {
			return err
		}

		count, err := logs.CountByUser(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return model.NewError("user", model.ErrHasLogs)
		}

		// The passwords row goes with the user via ON DELETE CASCADE.
		return users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	e.logger.Info("deleted user", "studentId", id)

	return nil
}
