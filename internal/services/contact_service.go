package services

import (
	"github.com/google/uuid"

	"tiflisi/internal/domain"
	"tiflisi/internal/repos"
	"tiflisi/internal/validate"
)

type ContactService struct {
	Repo *repos.ContactRepo
}

func (s *ContactService) Submit(f validate.ContactForm) (domain.ContactMessage, error) {
	m := domain.ContactMessage{
		ID:      uuid.NewString(),
		Name:    f.Name,
		Email:   f.Email,
		Subject: f.Subject,
		Message: f.Message,
	}
	if err := s.Repo.Create(&m); err != nil {
		return m, err
	}
	return m, nil
}

func (s *ContactService) Latest(limit int) ([]domain.ContactMessage, error) {
	return s.Repo.ListLatest(limit)
}
