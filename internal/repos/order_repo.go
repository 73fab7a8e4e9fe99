package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"tiflisi/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `
    o.id, COALESCE(o.user_id,'') AS user_id, o.session_id, o.customer_name, o.customer_email,
    o.customer_phone, o.status, o.address_line1, o.address_line2, o.city, o.postal_code,
    o.country, o.subtotal, o.shipping_cost, o.service_fee, o.total_amount, o.notes,
    o.payment_method, o.transaction_id, o.created_at, COALESCE(o.updated_at,'') AS updated_at`

// Create inserts the order header and its line snapshots in one transaction.
// CreatedAt is filled in when empty.
func (r *OrderRepo) Create(o *domain.Order) error {
	if o.CreatedAt == "" {
		o.CreatedAt = now()
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var userID any
	if o.UserID != "" {
		userID = o.UserID
	}
	if _, err := tx.Exec(`
	  INSERT INTO orders(
	    id, user_id, session_id, customer_name, customer_email, customer_phone, status,
	    address_line1, address_line2, city, postal_code, country,
	    subtotal, shipping_cost, service_fee, total_amount, notes,
	    payment_method, transaction_id, created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, o.ID, userID, o.SessionID, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.Status,
		o.AddressLine1, o.AddressLine2, o.City, o.PostalCode, o.Country,
		o.Subtotal, o.ShippingCost, o.ServiceFee, o.TotalAmount, o.Notes,
		o.PaymentMethod, o.TransactionID, o.CreatedAt); err != nil {
		return err
	}
	for i, l := range o.Products {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, line_no, product_id, name, quantity, price, image_url, slug, selected_size, selected_color)
		  VALUES(?,?,?,?,?,?,?,?,?,?)
		`, o.ID, i, l.ProductID, l.Name, l.Quantity, l.Price, l.ImageURL, l.Slug, l.SelectedSize, l.SelectedColor); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get loads an order with its lines.
func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderColumns+` FROM orders o WHERE o.id = ?`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return o, ErrNotFound
	}
	if err != nil {
		return o, err
	}
	o.Products = []domain.OrderLine{}
	if err := r.db.Select(&o.Products, `
		SELECT product_id, name, quantity, price, image_url, slug, selected_size, selected_color
		FROM order_items
		WHERE order_id = ?
		ORDER BY line_no
	`, orderID); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) list(where string, limit int, args ...any) ([]domain.Order, error) {
	if limit <= 0 {
		limit = -1
	}
	out := []domain.Order{}
	err := r.db.Select(&out, `SELECT `+orderColumns+` FROM orders o `+where+`
		ORDER BY o.created_at DESC, o.rowid DESC
		LIMIT ?`, append(args, limit)...)
	return out, err
}

// ListLatest returns the newest orders for the admin list (headers only).
func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(``, limit)
}

// ListByUser returns orders placed by a user or by any session the user was
// logged into.
func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	return r.list(`WHERE o.user_id = ? OR o.session_id IN (SELECT id FROM sessions WHERE user_id = ?)`, 0, userID, userID)
}

// ListBySession returns orders tied to a session id (anonymous or pre-login orders).
func (r *OrderRepo) ListBySession(sessionID string) ([]domain.Order, error) {
	return r.list(`WHERE o.session_id = ?`, 0, sessionID)
}

func (r *OrderRepo) UpdateStatus(id string, status domain.OrderStatus) error {
	res, err := r.db.Exec(`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`, status, now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetTransaction records the payment provider's reference for an order.
func (r *OrderRepo) SetTransaction(id, txID string) error {
	res, err := r.db.Exec(`UPDATE orders SET transaction_id = ?, updated_at = ? WHERE id = ?`, txID, now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *OrderRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM orders`)
	return n, err
}

// ---------- Analytics ----------

type StatusCount struct {
	Status domain.OrderStatus `db:"status"`
	Count  int                `db:"n"`
}

type TopProduct struct {
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Quantity  int     `db:"qty"`
	Revenue   float64 `db:"revenue"`
}

func (r *OrderRepo) CountByStatus() ([]StatusCount, error) {
	out := []StatusCount{}
	err := r.db.Select(&out, `SELECT status, COUNT(*) AS n FROM orders GROUP BY status ORDER BY n DESC, status`)
	return out, err
}

// Revenue sums total_amount over orders that were not cancelled or refunded.
func (r *OrderRepo) Revenue() (float64, error) {
	var v float64
	err := r.db.Get(&v, `SELECT COALESCE(SUM(total_amount),0) FROM orders WHERE status NOT IN (?,?)`,
		domain.StatusCancelled, domain.StatusRefunded)
	return v, err
}

func (r *OrderRepo) TopProducts(limit int) ([]TopProduct, error) {
	out := []TopProduct{}
	err := r.db.Select(&out, `
		SELECT oi.product_id, MAX(oi.name) AS name, SUM(oi.quantity) AS qty, SUM(oi.quantity * oi.price) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status NOT IN (?,?)
		GROUP BY oi.product_id
		ORDER BY qty DESC, revenue DESC
		LIMIT ?
	`, domain.StatusCancelled, domain.StatusRefunded, limit)
	return out, err
}
