package services

import (
	"errors"

	"github.com/google/uuid"

	"tiflisi/internal/domain"
	"tiflisi/internal/repos"
	"tiflisi/internal/validate"
)

var ErrSlugTaken = errors.New("slug already used by another product")

// ProductAdminService backs the admin product editor.
type ProductAdminService struct {
	Prods *repos.ProductRepo
}

func applyProductForm(p *domain.Product, f validate.ProductForm) {
	p.Name = f.Name
	p.Slug = f.Slug
	p.Description = f.Description
	p.Price = f.Price
	p.Category = f.Category
	p.Sizes = validate.SplitList(f.Sizes)
	p.Colors = validate.SplitList(f.Colors)
	p.ImageURLs = validate.SplitList(f.ImageURLs)
	p.Stock = f.Stock
	p.Gender = f.Gender
	p.DiscountPercentage = f.DiscountPercentage
	p.BrandName = f.BrandName
	p.DataAIHint = f.DataAIHint
}

func (s *ProductAdminService) Create(f validate.ProductForm) (domain.Product, error) {
	taken, err := s.Prods.SlugTaken(f.Slug, "")
	if err != nil {
		return domain.Product{}, err
	}
	if taken {
		return domain.Product{}, ErrSlugTaken
	}
	p := domain.Product{ID: uuid.NewString()}
	applyProductForm(&p, f)
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

func (s *ProductAdminService) Update(id string, f validate.ProductForm) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, repos.ErrNotFound) {
		return p, ErrProductNotFound
	}
	if err != nil {
		return p, err
	}
	taken, err := s.Prods.SlugTaken(f.Slug, id)
	if err != nil {
		return p, err
	}
	if taken {
		return p, ErrSlugTaken
	}
	applyProductForm(&p, f)
	if err := s.Prods.Update(p); err != nil {
		return p, err
	}
	return p, nil
}

// AddImage appends an uploaded image URL to the product.
func (s *ProductAdminService) AddImage(id, url string) error {
	p, err := s.Prods.Get(id)
	if errors.Is(err, repos.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	p.ImageURLs = append(p.ImageURLs, url)
	return s.Prods.Update(p)
}

func (s *ProductAdminService) Delete(id string) error {
	err := s.Prods.Delete(id)
	if errors.Is(err, repos.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}
