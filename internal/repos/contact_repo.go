package repos

import (
	"github.com/jmoiron/sqlx"

	"tiflisi/internal/domain"
)

type ContactRepo struct{ db *sqlx.DB }

func NewContactRepo(db *sqlx.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Create(m *domain.ContactMessage) error {
	if m.CreatedAt == "" {
		m.CreatedAt = now()
	}
	_, err := r.db.NamedExec(`
		INSERT INTO contact_messages(id, name, email, subject, message, created_at)
		VALUES(:id, :name, :email, :subject, :message, :created_at)
	`, m)
	return err
}

func (r *ContactRepo) ListLatest(limit int) ([]domain.ContactMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.ContactMessage{}
	err := r.db.Select(&out, `
		SELECT id, name, email, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	return out, err
}
