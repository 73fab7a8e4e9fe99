package repos

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"tiflisi/internal/domain"
)

var ErrNotFound = errors.New("not found")

const productColumns = `
    id, slug, name, description, price, image_urls, category, sizes, colors, stock,
    data_ai_hint, discount_percentage, brand_name, gender, average_rating, review_count,
    created_at, COALESCE(updated_at,'') AS updated_at`

const insertProductSQL = `
  INSERT INTO products(
    id, slug, name, description, price, image_urls, category, sizes, colors, stock,
    data_ai_hint, discount_percentage, brand_name, gender, average_rating, review_count,
    created_at, updated_at)
  VALUES(
    :id, :slug, :name, :description, :price, :image_urls, :category, :sizes, :colors, :stock,
    :data_ai_hint, :discount_percentage, :brand_name, :gender, :average_rating, :review_count,
    :created_at, NULL)`

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// ProductFilter narrows a catalog listing. Zero values mean "any".
type ProductFilter struct {
	Q        string // matched against name, description and category
	Category string
	Gender   string
	Sort     string // price-asc | price-desc | name-asc | name-desc | newest
	Limit    int
	Offset   int
}

var productOrder = map[string]string{
	"price-asc":  "price ASC, name ASC",
	"price-desc": "price DESC, name ASC",
	"name-asc":   "name ASC",
	"name-desc":  "name DESC",
	"newest":     "created_at DESC, rowid DESC",
}

func (r *ProductRepo) List(f ProductFilter) ([]domain.Product, error) {
	where := `1 = 1`
	args := []any{}
	if q := strings.TrimSpace(f.Q); q != "" {
		// LOWER only folds ASCII in sqlite; Georgian script has no case
		like := "%" + strings.ToLower(q) + "%"
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?)`
		args = append(args, like, like, like)
	}
	if f.Category != "" {
		where += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Gender != "" {
		where += ` AND gender = ?`
		args = append(args, f.Gender)
	}
	order, ok := productOrder[f.Sort]
	if !ok {
		order = productOrder["newest"]
	}
	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}

	query := `SELECT ` + productColumns + `
  FROM products
  WHERE ` + where + `
  ORDER BY ` + order + `
  LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	out := []domain.Product{}
	err := r.db.Select(&out, query, args...)
	return out, err
}

func (r *ProductRepo) Newest(limit int) ([]domain.Product, error) {
	return r.List(ProductFilter{Sort: "newest", Limit: limit})
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	return r.getBy(`id = ?`, id)
}

func (r *ProductRepo) BySlug(slug string) (domain.Product, error) {
	return r.getBy(`slug = ?`, slug)
}

func (r *ProductRepo) getBy(cond string, arg any) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productColumns+` FROM products WHERE `+cond, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	if p.CreatedAt == "" {
		p.CreatedAt = now()
	}
	_, err := r.db.NamedExec(insertProductSQL, p)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	p.UpdatedAt = now()
	res, err := r.db.NamedExec(`
  UPDATE products SET
    slug = :slug, name = :name, description = :description, price = :price,
    image_urls = :image_urls, category = :category, sizes = :sizes, colors = :colors,
    stock = :stock, data_ai_hint = :data_ai_hint, discount_percentage = :discount_percentage,
    brand_name = :brand_name, gender = :gender, updated_at = :updated_at
  WHERE id = :id`, p)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ProductRepo) SlugTaken(slug, exceptID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE slug = ? AND id != ?`, slug, exceptID)
	return n > 0, err
}

func (r *ProductRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
