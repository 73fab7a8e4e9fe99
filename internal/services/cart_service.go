package services

import (
	"context"
	"errors"

	"tiflisi/internal/cartstore"
	"tiflisi/internal/domain"
	"tiflisi/internal/kvstore"
	"tiflisi/internal/repos"
)

var (
	ErrSizeRequired  = errors.New("a size must be selected")
	ErrColorRequired = errors.New("a color must be selected")
)

// CartService opens the session cart and checks add-to-cart input against
// the catalog. Stock is not consulted.
type CartService struct {
	Store kvstore.Backend
	Prods *repos.ProductRepo
}

func NewCartService(store kvstore.Backend, prods *repos.ProductRepo) *CartService {
	return &CartService{Store: store, Prods: prods}
}

// Open returns the hydrated cart of session sid.
func (s *CartService) Open(ctx context.Context, sid string) *cartstore.CartStore {
	return cartstore.OpenCart(kvstore.Scope(ctx, s.Store, sid))
}

// Add validates the variant selection and adds qty units to the session cart.
// A size or color given for a product without that axis is ignored.
func (s *CartService) Add(ctx context.Context, sid, productID string, qty int, size, color string) (domain.CartLine, error) {
	p, err := s.Prods.Get(productID)
	if errors.Is(err, repos.ErrNotFound) {
		return domain.CartLine{}, ErrProductNotFound
	}
	if err != nil {
		return domain.CartLine{}, err
	}
	if len(p.Sizes) == 0 {
		size = ""
	} else if !p.HasSize(size) {
		return domain.CartLine{}, ErrSizeRequired
	}
	if len(p.Colors) == 0 {
		color = ""
	} else if !p.HasColor(color) {
		return domain.CartLine{}, ErrColorRequired
	}
	if qty < 1 {
		qty = 1
	}
	return s.Open(ctx, sid).Add(p, qty, size, color), nil
}

func (s *CartService) Update(ctx context.Context, sid, lineID string, qty int) {
	s.Open(ctx, sid).UpdateQuantity(lineID, qty)
}

func (s *CartService) Remove(ctx context.Context, sid, lineID string) (string, bool) {
	return s.Open(ctx, sid).Remove(lineID)
}

func (s *CartService) Clear(ctx context.Context, sid string) {
	s.Open(ctx, sid).Clear()
}
