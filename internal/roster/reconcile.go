package roster

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/eislab/lab-tracker/internal/database"
	"github.com/eislab/lab-tracker/internal/model"
)

// Rows per transaction. Batching is purely for throughput on large rosters;
// correctness does not depend on where the chunk boundaries fall.
const _chunkSize = 200

type Reconciler struct {
	logger *slog.Logger
	db     *database.DB
	users  *database.UserDAO
}

func NewReconciler(logger *slog.Logger, db *database.DB) *Reconciler {
	logger = logger.With("component", "roster")
	return &Reconciler{
		logger: logger,
		db:     db,
		users:  database.NewUserDAO(logger, db),
	}
}

// Reconcile upserts roster rows into the user store and reports how many were
// added, updated and skipped. Rows missing an ID or a name are skipped, not
// fatal. Existing users are only touched when a training tag or a name
// actually changed; their admin and supervisor bits are preserved.
func (r *Reconciler) Reconcile(ctx context.Context, rows []Row) (Result, error) {
	var result Result

	for start := 0; start < len(rows); start += _chunkSize {
		end := start + _chunkSize
		if end > len(rows) {
			end = len(rows)
		}

		err := r.db.WithTx(ctx, func(tx database.Tx) error {
			users := r.users.WithTx(tx)

			for _, row := range rows[start:end] {
				outcome, err := r.reconcileRow(ctx, users, row)
				if err != nil {
					return err
				}

				switch outcome {
				case _added:
					result.Added++
				case _updated:
					result.Updated++
				case _skipped:
					result.Skipped++
				}
			}

			return nil
		})
		if err != nil {
			return Result{}, err
		}
	}

	r.logger.Info("roster reconciled",
		"rows", len(rows),
		"added", result.Added,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)

	return result, nil
}

type outcome int

const (
	_skipped outcome = iota
	_added
	_updated
)

func (r *Reconciler) reconcileRow(ctx context.Context, users *database.UserDAO, row Row) (outcome, error) {
	if row.StudentID == "" || row.FirstName == "" || row.LastName == "" {
		return _skipped, nil
	}

	id, err := strconv.ParseInt(row.StudentID, 10, 64)
	if err != nil || id <= 0 {
		return _skipped, nil
	}

	trainingTags := model.ComposeTags(model.TagFlags{
		White:  row.WhiteTag,
		Blue:   row.BlueTag,
		Green:  row.GreenTag,
		Orange: row.OrangeTag,
	})

	existing, err := users.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return _skipped, err
		}

		err := users.Insert(ctx, database.InsertUserDTO{
			StudentID: id,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Tags:      trainingTags,
		})
		if err != nil {
			return _skipped, err
		}

		return _added, nil
	}

	tagsChanged := existing.WhiteTag != row.WhiteTag ||
		existing.BlueTag != row.BlueTag ||
		existing.GreenTag != row.GreenTag ||
		existing.OrangeTag != row.OrangeTag

	namesChanged := existing.FirstName != row.FirstName ||
		existing.LastName != row.LastName

	if !tagsChanged && !namesChanged {
		return _skipped, nil
	}

	if tagsChanged {
		newTags := existing.Tags&(model.TagAdmin|model.TagSupervisor) | trainingTags
		if err := users.UpdateTags(ctx, id, newTags); err != nil {
			return _skipped, err
		}
	}

	if namesChanged {
		err := users.Update(ctx, id, database.UpdateUserDTO{
			FirstName: &row.FirstName,
			LastName:  &row.LastName,
		})
		if err != nil {
			return _skipped, err
		}
	}

	return _updated, nil
}
