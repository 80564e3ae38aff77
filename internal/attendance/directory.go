package attendance

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eislab/lab-tracker/internal/database"
	"github.com/eislab/lab-tracker/internal/model"
)

// Directory serves read-only projections over user and log data. It never
// mutates anything.
type Directory struct {
	logger *slog.Logger

	users *database.UserDAO
	logs  *database.LogDAO
}

func NewDirectory(logger *slog.Logger, db *database.DB) *Directory {
	logger = logger.With("component", "directory")
	return &Directory{
		logger: logger,
		users:  database.NewUserDAO(logger, db),
		logs:   database.NewLogDAO(logger, db),
	}
}

func (d *Directory) Get(ctx context.Context, id model.ID) (model.User, error) {
	return d.users.Get(ctx, id)
}

func (d *Directory) GetByCard(ctx context.Context, cardID string) (model.User, error) {
	return d.users.GetByCard(ctx, cardID)
}

func (d *Directory) Search(ctx context.Context, query string) ([]model.User, error) {
	return d.users.Search(ctx, query)
}

// History returns the user's full session log, oldest first.
func (d *Directory) History(ctx context.Context, id model.ID) ([]model.LogEntry, error) {
	if _, err := d.users.Get(ctx, id); err != nil {
		return nil, err
	}
	return d.logs.ListByUser(ctx, id)
}

// AllLogs returns every log entry, for export.
func (d *Directory) AllLogs(ctx context.Context) ([]model.LogEntry, error) {
	return d.logs.ListAll(ctx)
}

// ListPresent partitions everyone currently logged in into admins,
// supervisors and students. The admin tag wins over the supervisor tag; the
// supervisor bucket additionally requires the open session to have been
// opened in a supervisory capacity, and never contains the bootstrap
// administrator.
func (d *Directory) ListPresent(ctx context.Context) (model.Presence, error) {
	present := model.Presence{
		Admins:      []model.User{},
		Supervisors: []model.User{},
		Students:    []model.User{},
	}

	users, err := d.users.ListLoggedIn(ctx)
	if err != nil {
		return model.Presence{}, err
	}

	for _, user := range users {
		switch {
		case user.Tags.Admin():
			present.Admins = append(present.Admins, user)
		case user.Tags.Supervisor() && user.StudentID != database.BootstrapAdminID:
			supervising, err := d.openSessionSupervising(ctx, user.StudentID)
			if err != nil {
				return model.Presence{}, err
			}
			if supervising {
				present.Supervisors = append(present.Supervisors, user)
			} else {
				present.Students = append(present.Students, user)
			}
		default:
			present.Students = append(present.Students, user)
		}
	}

	return present, nil
}

func (d *Directory) openSessionSupervising(ctx context.Context, id model.ID) (bool, error) {
	open, err := d.logs.GetOpenByUser(ctx, id)
	if err != nil {
		// logged_in with no open row should not happen; treat as not
		// supervising rather than failing the whole listing.
		if errors.Is(err, model.ErrNotFound) {
			d.logger.Warn("logged in user has no open session", "studentId", id)
			return false, nil
		}
		return false, err
	}

	return open.Supervising != nil && *open.Supervising, nil
}

const _millisPerHour = 60 * 60 * 1000

// TotalHours sums the user's session durations in hours. Open sessions count
// up to asOf. No sessions at all is 0, not an error.
func (d *Directory) TotalHours(ctx context.Context, id model.ID, asOf model.Millis) (float64, error) {
	if _, err := d.users.Get(ctx, id); err != nil {
		return 0, err
	}

	entries, err := d.logs.ListByUser(ctx, id)
	if err != nil {
		return 0, err
	}

	var totalMillis model.Millis
	for _, entry := range entries {
		end := asOf
		if entry.TimeOut != nil {
			end = *entry.TimeOut
		}
		if end > entry.TimeIn {
			totalMillis += end - entry.TimeIn
		}
	}

	return float64(totalMillis) / _millisPerHour, nil
}
