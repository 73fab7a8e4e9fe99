package repos

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"tiflisi/internal/domain"
)

// SettingsRepo keeps the site configuration as one JSON document.
type SettingsRepo struct{ db *sqlx.DB }

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// Get decodes the stored document over the defaults, so fields added later
// keep their default until an admin saves them.
func (r *SettingsRepo) Get() (domain.SiteSettings, error) {
	s := domain.DefaultSettings()
	var raw string
	err := r.db.Get(&raw, `SELECT data FROM settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return domain.DefaultSettings(), err
	}
	return s, nil
}

func (r *SettingsRepo) Save(s domain.SiteSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
		INSERT INTO settings(id, data, updated_at) VALUES(1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, string(raw), now())
	return err
}
