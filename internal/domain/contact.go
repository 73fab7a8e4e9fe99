package domain

type ContactMessage struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Subject   string `db:"subject"`
	Message   string `db:"message"`
	CreatedAt string `db:"created_at"`
}
