package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"tiflisi/internal/domain"
)

var ErrEmailTaken = errors.New("email already registered")

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id,email,first_name,last_name,password_hash,role,phone,gender,address_city,postal_code,avatar_url,COALESCE(created_at,'') AS created_at`

func (r *UserRepo) one(query string, args ...any) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	return r.one(`SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	return r.one(`SELECT `+userColumns+` FROM users WHERE id=?`, id)
}

// Create inserts a new account. A duplicate email reports ErrEmailTaken.
func (r *UserRepo) Create(u *domain.User) error {
	var n int
	if err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)`, u.Email); err != nil {
		return err
	}
	if n > 0 {
		return ErrEmailTaken
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	_, err := r.DB.NamedExec(`
		INSERT INTO users(id,email,first_name,last_name,password_hash,role,phone,gender,address_city,postal_code,avatar_url)
		VALUES(:id,:email,:first_name,:last_name,:password_hash,:role,:phone,:gender,:address_city,:postal_code,:avatar_url)
	`, u)
	return err
}

// UpdateProfile writes the editable profile fields (not email, password or role).
func (r *UserRepo) UpdateProfile(u *domain.User) error {
	res, err := r.DB.NamedExec(`
		UPDATE users SET first_name=:first_name, last_name=:last_name, phone=:phone, gender=:gender,
		  address_city=:address_city, postal_code=:postal_code, avatar_url=:avatar_url, updated_at=CURRENT_TIMESTAMP
		WHERE id=:id
	`, u)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *UserRepo) SetRole(id, role string) error {
	res, err := r.DB.Exec(`UPDATE users SET role=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, role, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *UserRepo) SetPasswordHash(id, hash string) error {
	res, err := r.DB.Exec(`UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, hash, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *UserRepo) List() ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.Select(&out, `SELECT `+userColumns+` FROM users ORDER BY role DESC, LOWER(email)`)
	return out, err
}

func (r *UserRepo) Count() (int, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users`)
	return n, err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen) 
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	return r.one(`
      SELECT u.id,u.email,u.first_name,u.last_name,u.password_hash,u.role,u.phone,u.gender,
             u.address_city,u.postal_code,u.avatar_url,COALESCE(u.created_at,'') AS created_at
      FROM sessions s 
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// DeleteUserCascade deletes the account, its sessions and their stored
// cart/favorites entries. Orders are kept for the record; open ones are cancelled.
func (r *UserRepo) DeleteUserCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var sessionIDs []string
	if err := tx.Select(&sessionIDs, `SELECT id FROM sessions WHERE user_id=?`, userID); err != nil {
		return err
	}

	open := []domain.OrderStatus{domain.StatusPendingPayment, domain.StatusPending, domain.StatusProcessing}
	query, args, err := sqlx.In(`UPDATE orders SET status=?, updated_at=? WHERE user_id=? AND status IN (?)`,
		domain.StatusCancelled, now(), userID, open)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	if len(sessionIDs) > 0 {
		query, args, err := sqlx.In(`DELETE FROM kv_entries WHERE namespace IN (?)`, sessionIDs)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return err
		}
		query, args, err = sqlx.In(`DELETE FROM sessions WHERE id IN (?)`, sessionIDs)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return err
		}
	}

	res, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}
