package services

import (
	"errors"

	"tiflisi/internal/domain"
	"tiflisi/internal/repos"
)

var ErrProductNotFound = errors.New("product not found")

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories() ([]string, error) {
	return s.Cats.List()
}

// Browse returns one page of products matching f. page is 1-based.
func (s *CatalogService) Browse(f repos.ProductFilter, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 24
	}
	f.Limit = pageSize
	f.Offset = (page - 1) * pageSize
	return s.Prods.List(f)
}

func (s *CatalogService) Newest(n int) ([]domain.Product, error) {
	return s.Prods.Newest(n)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, repos.ErrNotFound) {
		return p, ErrProductNotFound
	}
	return p, err
}

func (s *CatalogService) ProductBySlug(slug string) (domain.Product, error) {
	p, err := s.Prods.BySlug(slug)
	if errors.Is(err, repos.ErrNotFound) {
		return p, ErrProductNotFound
	}
	return p, err
}
