package services

import (
	"errors"

	"tiflisi/internal/domain"
	"tiflisi/internal/repos"
	"tiflisi/internal/validate"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrSelfDelete   = errors.New("admins cannot delete their own account")
)

type UserService struct {
	Users  *repos.UserRepo
	Orders *repos.OrderRepo
}

func NewUserService(users *repos.UserRepo, orders *repos.OrderRepo) *UserService {
	return &UserService{Users: users, Orders: orders}
}

func (s *UserService) Get(id string) (*domain.User, error) {
	u, err := s.Users.ByID(id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *UserService) List() ([]domain.User, error) { return s.Users.List() }

// Detail returns a user with the orders linked to them.
func (s *UserService) Detail(id string) (*domain.User, []domain.Order, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	orders, err := s.Orders.ListByUser(id)
	return u, orders, err
}

// UpdateProfile applies the self-service profile form.
func (s *UserService) UpdateProfile(id string, f validate.ProfileForm) (*domain.User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	u.FirstName, u.LastName = f.FirstName, f.LastName
	u.Phone, u.Gender = f.Phone, f.Gender
	u.AddressCity, u.PostalCode = f.City, f.PostalCode
	u.AvatarURL = f.AvatarURL
	if err := s.Users.UpdateProfile(u); err != nil {
		return nil, err
	}
	return u, nil
}

// AdminUpdate applies the admin edit form, including the role.
func (s *UserService) AdminUpdate(id string, f validate.UserEditForm) (*domain.User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	u.FirstName, u.LastName = f.FirstName, f.LastName
	u.Phone, u.AddressCity, u.PostalCode = f.Phone, f.City, f.PostalCode
	if err := s.Users.UpdateProfile(u); err != nil {
		return nil, err
	}
	if f.Role != u.Role {
		if err := s.Users.SetRole(id, f.Role); err != nil {
			return nil, err
		}
		u.Role = f.Role
	}
	return u, nil
}

// Delete removes a user; their orders are kept.
func (s *UserService) Delete(actorID, id string) error {
	if actorID == id {
		return ErrSelfDelete
	}
	err := s.Users.DeleteUserCascade(id)
	if errors.Is(err, repos.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
