package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// KVRepo stores opaque values per (namespace, key). Namespaces are session ids.
type KVRepo struct{ db *sqlx.DB }

func NewKVRepo(db *sqlx.DB) *KVRepo { return &KVRepo{db: db} }

// Get reports ok == false for a missing entry.
func (r *KVRepo) Get(ctx context.Context, ns, key string) ([]byte, bool, error) {
	var v []byte
	err := r.db.GetContext(ctx, &v, `SELECT value FROM kv_entries WHERE namespace = ? AND key = ?`, ns, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *KVRepo) Set(ctx context.Context, ns, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv_entries(namespace, key, value, updated_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, ns, key, value, now())
	return err
}

func (r *KVRepo) Delete(ctx context.Context, ns, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE namespace = ? AND key = ?`, ns, key)
	return err
}

// PurgeBefore drops entries not written since cutoff.
func (r *KVRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE updated_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
