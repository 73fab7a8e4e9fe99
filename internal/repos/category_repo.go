package repos

import "github.com/jmoiron/sqlx"

// CategoryRepo derives categories from the products table; there is no
// separate category entity.
type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]string, error) {
	out := []string{}
	err := r.db.Select(&out, `
  SELECT DISTINCT category
  FROM products
  WHERE category != ''
  ORDER BY category
`)
	return out, err
}
