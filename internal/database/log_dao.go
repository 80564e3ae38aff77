package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/eislab/lab-tracker/internal/model"
	"github.com/jmoiron/sqlx"
)

type LogDAO struct {
	Logger  *slog.Logger
	Builder squirrel.StatementBuilderType

	q sqlx.ExtContext
}

func NewLogDAO(logger *slog.Logger, db *DB) *LogDAO {
	return &LogDAO{
		Logger:  logger.With("dao", "log"),
		Builder: db.Builder,
		q:       db,
	}
}

func (dao *LogDAO) WithTx(tx Tx) *LogDAO {
	clone := *dao
	clone.q = tx
	return &clone
}

func (dao *LogDAO) Get(ctx context.Context, id model.LogID) (model.LogEntry, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("logs").
		Where(squirrel.Eq{"log_id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.LogEntry{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var entry model.LogEntry
	if err := sqlx.GetContext(ctx, dao.q, &entry, query, args...); err != nil {
		if IsNoRows(err) {
			return model.LogEntry{}, model.NewError("log", model.ErrNotFound)
		}

		return model.LogEntry{}, err
	}

	return entry, nil
}

// GetOpenByUser returns the user's open session. At most one can exist.
func (dao *LogDAO) GetOpenByUser(ctx context.Context, user model.ID) (model.LogEntry, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("logs").
		Where(squirrel.Eq{"user": user}).
		Where("time_out IS NULL").
		Limit(1).
		ToSql()
	if err != nil {
		return model.LogEntry{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var entry model.LogEntry
	if err := sqlx.GetContext(ctx, dao.q, &entry, query, args...); err != nil {
		if IsNoRows(err) {
			return model.LogEntry{}, model.NewError("log", model.ErrNotFound)
		}

		return model.LogEntry{}, err
	}

	return entry, nil
}

func (dao *LogDAO) ListByUser(ctx context.Context, user model.ID) ([]model.LogEntry, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("logs").
		Where(squirrel.Eq{"user": user}).
		OrderBy("time_in ASC", "log_id ASC").
		ToSql()
	if err != nil {
		return []model.LogEntry{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	entries := make([]model.LogEntry, 0)
	if err := sqlx.SelectContext(ctx, dao.q, &entries, query, args...); err != nil {
		return []model.LogEntry{}, err
	}

	return entries, nil
}

func (dao *LogDAO) ListAll(ctx context.Context) ([]model.LogEntry, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("logs").
		OrderBy("log_id ASC").
		ToSql()
	if err != nil {
		return []model.LogEntry{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	entries := make([]model.LogEntry, 0)
	if err := sqlx.SelectContext(ctx, dao.q, &entries, query, args...); err != nil {
		return []model.LogEntry{}, err
	}

	return entries, nil
}

func (dao *LogDAO) CountByUser(ctx context.Context, user model.ID) (int, error) {
	query, args, err := dao.Builder.
		Select("COUNT(*)").
		From("logs").
		Where(squirrel.Eq{"user": user}).
		ToSql()
	if err != nil {
		return 0, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var count int
	if err := sqlx.GetContext(ctx, dao.q, &count, query, args...); err != nil {
		return 0, err
	}

	return count, nil
}

type InsertLogDTO struct {
	User        model.ID
	TimeIn      model.Millis
	Supervising *bool
}

func (dao *LogDAO) Insert(ctx context.Context, dto InsertLogDTO) (model.LogID, error) {
	query, args, err := dao.Builder.
		Insert("logs").
		Columns("user", "time_in", "supervising").
		Values(dto.User, dto.TimeIn, dto.Supervising).
		Suffix("RETURNING log_id").
		ToSql()
	if err != nil {
		return 0, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var id model.LogID
	row := dao.q.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		if IsUniqueViolation(err) {
			return 0, model.NewError("log", model.ErrExists)
		}

		return 0, err
	}

	return id, nil
}

// Close stamps the session's end time. The entry is immutable afterwards.
func (dao *LogDAO) Close(ctx context.Context, id model.LogID, timeOut model.Millis) error {
	query, args, err := dao.Builder.
		Update("logs").
		SetMap(map[string]any{
			"time_out": timeOut,
		}).
		Where(squirrel.Eq{"log_id": id}).
		Where("time_out IS NULL").
		ToSql()
	if err != nil {
		return err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	if _, err := dao.q.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}
