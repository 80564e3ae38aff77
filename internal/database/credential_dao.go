package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/eislab/lab-tracker/internal/model"
	"github.com/jmoiron/sqlx"
)

type CredentialDAO struct {
	Logger  *slog.Logger
	Builder squirrel.StatementBuilderType

	q sqlx.ExtContext
}

func NewCredentialDAO(logger *slog.Logger, db *DB) *CredentialDAO {
	return &CredentialDAO{
		Logger:  logger.With("dao", "credential"),
		Builder: db.Builder,
		q:       db,
	}
}

func (dao *CredentialDAO) WithTx(tx Tx) *CredentialDAO {
	clone := *dao
	clone.q = tx
	return &clone
}

func (dao *CredentialDAO) Get(ctx context.Context, id model.ID) (model.Credential, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("passwords").
		Where(squirrel.Eq{"student_id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Credential{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var cred model.Credential
	if err := sqlx.GetContext(ctx, dao.q, &cred, query, args...); err != nil {
		if IsNoRows(err) {
			return model.Credential{}, model.NewError("credential", model.ErrNotFound)
		}

		return model.Credential{}, err
	}

	return cred, nil
}

func (dao *CredentialDAO) Exists(ctx context.Context, id model.ID) (bool, error) {
	query, args, err := dao.Builder.
		Select("COUNT(*)").
		From("passwords").
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		return false, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var count int
	if err := sqlx.GetContext(ctx, dao.q, &count, query, args...); err != nil {
		return false, err
	}

	return count > 0, nil
}

// Upsert stores the hash for the user, replacing any previous one. Only the
// hash ever reaches the store.
func (dao *CredentialDAO) Upsert(ctx context.Context, id model.ID, passwordHash string) error {
	now := time.Now().UnixMilli()

	query, args, err := dao.Builder.
		Insert("passwords").
		Columns("student_id", "created_at", "updated_at", "password_hash").
		Values(id, now, now, passwordHash).
		Suffix("ON CONFLICT (student_id) DO UPDATE SET password_hash = excluded.password_hash, updated_at = excluded.updated_at").
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

func (dao *CredentialDAO) Delete(ctx context.Context, id model.ID) error {
	query, args, err := dao.Builder.
		Delete("passwords").
		Where(squirrel.Eq{"student_id": id}).
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
