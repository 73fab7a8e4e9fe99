package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID          string `db:"id"`
	Email       string `db:"email"`
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	Hash        string `db:"password_hash"`
	Role        string `db:"role"`
	Phone       string `db:"phone"`
	Gender      string `db:"gender"` // male | female
	AddressCity string `db:"address_city"`
	PostalCode  string `db:"postal_code"`
	AvatarURL   string `db:"avatar_url"`
	CreatedAt   string `db:"created_at"`
}

func (u User) Name() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
