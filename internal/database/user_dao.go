package database

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/eislab/lab-tracker/internal/model"
	"github.com/jmoiron/sqlx"
)

type UserDAO struct {
	Logger  *slog.Logger
	Builder squirrel.StatementBuilderType

	q sqlx.ExtContext
}

func NewUserDAO(logger *slog.Logger, db *DB) *UserDAO {
	return &UserDAO{
		Logger:  logger.With("dao", "user"),
		Builder: db.Builder,
		q:       db,
	}
}

// WithTx returns a copy of the DAO that runs against tx instead of the pool.
func (dao *UserDAO) WithTx(tx Tx) *UserDAO {
	clone := *dao
	clone.q = tx
	return &clone
}

func (dao *UserDAO) Get(ctx context.Context, id model.ID) (model.User, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select("*").
		From("users").
		Where(squirrel.Eq{"student_id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var user model.User
	if err := sqlx.GetContext(ctx, dao.q, &user, query, args...); err != nil {
		if IsNoRows(err) {
			return model.User{}, model.NewError("user", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.User{}, err
	}

	return user, nil
}

func (dao *UserDAO) GetByCard(ctx context.Context, cardID string) (model.User, error) {
	logger := dao.Logger.With("query", "getByCard")

	query, args, err := dao.Builder.
		Select("*").
		From("users").
		Where(squirrel.Eq{"card_id": cardID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var user model.User
	if err := sqlx.GetContext(ctx, dao.q, &user, query, args...); err != nil {
		if IsNoRows(err) {
			return model.User{}, model.NewError("user", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.User{}, err
	}

	return user, nil
}

// Search matches the pattern case-insensitively against the first name, last
// name, the "first last" concatenation and the student ID. An empty result is
// not an error.
func (dao *UserDAO) Search(ctx context.Context, pattern string) ([]model.User, error) {
	logger := dao.Logger.With("query", "search")

	pat := "%" + strings.ToLower(strings.TrimSpace(pattern)) + "%"

	query, args, err := dao.Builder.
		Select("*").
		From("users").
		Where(squirrel.Or{
			squirrel.Expr("LOWER(first_name) LIKE ?", pat),
			squirrel.Expr("LOWER(last_name) LIKE ?", pat),
			squirrel.Expr("LOWER(first_name || ' ' || last_name) LIKE ?", pat),
			squirrel.Expr("CAST(student_id AS TEXT) LIKE ?", pat),
		}).
		OrderBy("last_name ASC", "first_name ASC").
		ToSql()
	if err != nil {
		return []model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	users := make([]model.User, 0)
	if err := sqlx.SelectContext(ctx, dao.q, &users, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.User{}, err
	}

	logger.Debug("success query execute", "countUsers", len(users))

	return users, nil
}

// ListLoggedIn returns everyone with an open session, ordered by ID.
func (dao *UserDAO) ListLoggedIn(ctx context.Context) ([]model.User, error) {
	logger := dao.Logger.With("query", "listLoggedIn")

	query, args, err := dao.Builder.
		Select("*").
		From("users").
		Where(squirrel.Eq{"logged_in": true}).
		OrderBy("student_id ASC").
		ToSql()
	if err != nil {
		return []model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	users := make([]model.User, 0)
	if err := sqlx.SelectContext(ctx, dao.q, &users, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.User{}, err
	}

	return users, nil
}

type InsertUserDTO struct {
	StudentID model.ID
	FirstName string
	LastName  string
	Tags      model.Tags
}

func (dao *UserDAO) Insert(ctx context.Context, dto InsertUserDTO) error {
	logger := dao.Logger.With("query", "insert")

	now := time.Now().UnixMilli()
	flags := dto.Tags.Decompose()

	query, args, err := dao.Builder.
		Insert("users").
		Columns(
			"student_id", "created_at", "updated_at",
			"first_name", "last_name",
			"tags", "white_tag", "blue_tag", "green_tag", "orange_tag",
		).
		Values(
			dto.StudentID, now, now,
			dto.FirstName, dto.LastName,
			dto.Tags, flags.White, flags.Blue, flags.Green, flags.Orange,
		).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.q.ExecContext(ctx, query, args...); err != nil {
		if IsUniqueViolation(err) {
			return model.NewError("user", model.ErrExists)
		}

		logger.Warn("failed query execute", "error", err)

		return err
	}

	logger.Debug("success query execute", "insertId", dto.StudentID)

	return nil
}

// UpdateTags writes the mask and all four mirror columns in one statement so
// the mirror can never drift from the mask.
func (dao *UserDAO) UpdateTags(ctx context.Context, id model.ID, tags model.Tags) error {
	logger := dao.Logger.With("query", "updateTags")

	flags := tags.Decompose()

	query, args, err := dao.Builder.
		Update("users").
		SetMap(map[string]any{
			"updated_at": time.Now().UnixMilli(),
			"tags":       tags,
			"white_tag":  flags.White,
			"blue_tag":   flags.Blue,
			"green_tag":  flags.Green,
			"orange_tag": flags.Orange,
		}).
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.q.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	return nil
}

type UpdateUserDTO struct {
	FirstName *string
	LastName  *string
	Major     *string
	Photo     *string
}

func (dao *UserDAO) Update(ctx context.Context, id model.ID, dto UpdateUserDTO) error {
	logger := dao.Logger.With("query", "update")

	data := make(map[string]any, 5)
	data["updated_at"] = time.Now().UnixMilli()
	if dto.FirstName != nil {
		data["first_name"] = *dto.FirstName
	}
	if dto.LastName != nil {
		data["last_name"] = *dto.LastName
	}
	if dto.Major != nil {
		data["major"] = *dto.Major
	}
	if dto.Photo != nil {
		data["photo"] = *dto.Photo
	}

	query, args, err := dao.Builder.
		Update("users").
		SetMap(data).
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.q.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	logger.Debug("success query execute", "updateId", id, "countUpdatedFields", len(data))

	return nil
}

func (dao *UserDAO) UpdateCard(ctx context.Context, id model.ID, cardID string) error {
	logger := dao.Logger.With("query", "updateCard")

	query, args, err := dao.Builder.
		Update("users").
		SetMap(map[string]any{
			"updated_at": time.Now().UnixMilli(),
			"card_id":    cardID,
		}).
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.q.ExecContext(ctx, query, args...); err != nil {
		if IsUniqueViolation(err) {
			return model.NewError("card", model.ErrExists)
		}

		logger.Warn("failed query execute", "error", err)

		return err
	}

	return nil
}

func (dao *UserDAO) SetLoggedIn(ctx context.Context, id model.ID, loggedIn bool) error {
	logger := dao.Logger.With("query", "setLoggedIn")

	query, args, err := dao.Builder.
		Update("users").
		SetMap(map[string]any{
			"updated_at": time.Now().UnixMilli(),
			"logged_in":  loggedIn,
		}).
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.q.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	return nil
}

func (dao *UserDAO) Delete(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "delete")

	query, args, err := dao.Builder.
		Delete("users").
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.q.ExecContext(ctx, query, args...); err != nil {
		if IsForeignKeyViolation(err) {
			return model.NewError("user", model.ErrHasLogs)
		}

		logger.Warn("failed query execute", "error", err)

		return err
	}

	logger.Debug("success query execute", "deleteId", id)

	return nil
}
