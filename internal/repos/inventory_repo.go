package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// InventoryRow is used by the admin dashboard low-stock table.
type InventoryRow struct {
	ProductID string `db:"id"`
	Name      string `db:"name"`
	Slug      string `db:"slug"`
	Stock     int    `db:"stock"`
}

// ListAll returns every product's stock, lowest first.
func (r *InventoryRepo) ListAll() ([]InventoryRow, error) {
	rows := []InventoryRow{}
	err := r.db.Select(&rows, `
		SELECT id, name, slug, stock
		FROM products
		ORDER BY stock ASC, name
	`)
	return rows, err
}

// LowStock lists products with fewer than threshold units.
func (r *InventoryRepo) LowStock(threshold int) ([]InventoryRow, error) {
	rows := []InventoryRow{}
	err := r.db.Select(&rows, `
		SELECT id, name, slug, stock
		FROM products
		WHERE stock < ?
		ORDER BY stock ASC, name
	`, threshold)
	return rows, err
}

// Qty returns current stock for a product. Unknown products report ErrNotFound.
func (r *InventoryRepo) Qty(productID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT stock FROM products WHERE id = ?`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return qty, err
}

// SetQty overwrites the stock count.
func (r *InventoryRepo) SetQty(productID string, qty int) error {
	res, err := r.db.Exec(`UPDATE products SET stock = ?, updated_at = ? WHERE id = ?`, qty, now(), productID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
