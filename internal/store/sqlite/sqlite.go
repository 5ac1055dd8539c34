package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nulzo/model-catalog/internal/store"
	"github.com/nulzo/model-catalog/internal/store/model"
	"github.com/nulzo/model-catalog/pkg/catalog"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // *sqlx.DB, or *sqlx.Tx inside WithTx
	inTx     bool
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	if r.inTx {
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &SqliteRepository{
		db:       r.db,
		executor: tx,
		inTx:     true,
	}

	if err := fn(txRepo); err != nil {
		// attempt rollback, but prioritize original error
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) Models() store.ModelRepository {
	return &modelRepo{repo: r}
}

type modelRepo struct {
	repo *SqliteRepository
}

const upsertModelQuery = `
	INSERT INTO models (id, object, created_at, created_ns, owned_by, root, parent, imported_at)
	VALUES (:id, :object, :created_at, :created_ns, :owned_by, :root, :parent, :imported_at)
	ON CONFLICT (id) DO UPDATE SET
		object = excluded.object,
		created_at = excluded.created_at,
		created_ns = excluded.created_ns,
		owned_by = excluded.owned_by,
		root = excluded.root,
		parent = excluded.parent,
		imported_at = excluded.imported_at`

const insertPermissionQuery = `
	INSERT INTO model_permissions (
		model_id, position, id, object, created_at, created_ns,
		allow_create_engine, allow_sampling, allow_logprobs,
		allow_search_indices, allow_view, allow_fine_tuning,
		organization, grp, is_blocking
	) VALUES (
		:model_id, :position, :id, :object, :created_at, :created_ns,
		:allow_create_engine, :allow_sampling, :allow_logprobs,
		:allow_search_indices, :allow_view, :allow_fine_tuning,
		:organization, :grp, :is_blocking
	)`

func (r *modelRepo) Upsert(ctx context.Context, models ...catalog.Model) error {
	importedAt := time.Now().UTC()

	return r.repo.WithTx(ctx, func(tx store.Repository) error {
		db := tx.(*SqliteRepository).executor

		for _, m := range models {
			row, perms := model.FromCatalog(m, importedAt)

			if _, err := db.NamedExecContext(ctx, upsertModelQuery, row); err != nil {
				return fmt.Errorf("upsert model %s: %w", m.ID, err)
			}
			if _, err := db.ExecContext(ctx, `DELETE FROM model_permissions WHERE model_id = ?`, m.ID); err != nil {
				return fmt.Errorf("clear permissions of %s: %w", m.ID, err)
			}
			for _, p := range perms {
				if _, err := db.NamedExecContext(ctx, insertPermissionQuery, p); err != nil {
					return fmt.Errorf("insert permission %s of %s: %w", p.ID, m.ID, err)
				}
			}
		}
		return nil
	})
}

func (r *modelRepo) Get(ctx context.Context, id string) (*catalog.Model, error) {
	db := r.repo.executor

	var row model.Model
	if err := db.GetContext(ctx, &row, `SELECT * FROM models WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("model %s: %w", id, store.ErrNotFound)
		}
		return nil, err
	}

	var perms []model.Permission
	query := `SELECT * FROM model_permissions WHERE model_id = ? ORDER BY position`
	if err := db.SelectContext(ctx, &perms, query, id); err != nil {
		return nil, err
	}

	m := row.ToCatalog(perms)
	return &m, nil
}

func (r *modelRepo) List(ctx context.Context) ([]catalog.Model, error) {
	db := r.repo.executor

	var rows []model.Model
	if err := db.SelectContext(ctx, &rows, `SELECT * FROM models ORDER BY id`); err != nil {
		return nil, err
	}

	var perms []model.Permission
	query := `SELECT * FROM model_permissions ORDER BY model_id, position`
	if err := db.SelectContext(ctx, &perms, query); err != nil {
		return nil, err
	}

	byModel := make(map[string][]model.Permission, len(rows))
	for _, p := range perms {
		byModel[p.ModelID] = append(byModel[p.ModelID], p)
	}

	models := make([]catalog.Model, 0, len(rows))
	for _, row := range rows {
		models = append(models, row.ToCatalog(byModel[row.ID]))
	}
	return models, nil
}

func (r *modelRepo) Delete(ctx context.Context, id string) error {
	return r.repo.WithTx(ctx, func(tx store.Repository) error {
		db := tx.(*SqliteRepository).executor

		if _, err := db.ExecContext(ctx, `DELETE FROM model_permissions WHERE model_id = ?`, id); err != nil {
			return err
		}
		res, err := db.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("model %s: %w", id, store.ErrNotFound)
		}
		return nil
	})
}
