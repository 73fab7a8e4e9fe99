package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tiflisi/internal/domain"
	"tiflisi/internal/repos"
	"tiflisi/internal/validate"
)

var (
	ErrBadCreds     = errors.New("invalid email or password")
	ErrEmailTaken   = errors.New("email already registered")
	ErrWrongCurrent = errors.New("current password is incorrect")
)

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// Register creates a USER account from a validated form and logs it into sid.
func (s *AuthService) Register(sid string, f validate.RegisterForm) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u := &domain.User{
		ID:          uuid.NewString(),
		Email:       strings.ToLower(f.Email),
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Hash:        string(hash),
		Role:        domain.RoleUser,
		Phone:       f.Phone,
		Gender:      f.Gender,
		AddressCity: f.City,
		PostalCode:  f.PostalCode,
	}
	if err := s.Users.Create(u); err != nil {
		if errors.Is(err, repos.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword requires the current password before storing the new hash.
func (s *AuthService) ChangePassword(userID, current, next string) error {
	u, err := s.Users.ByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(current)) != nil {
		return ErrWrongCurrent
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.Users.SetPasswordHash(userID, string(hash))
}
