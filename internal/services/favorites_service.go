package services

import (
	"context"
	"errors"

	"tiflisi/internal/cartstore"
	"tiflisi/internal/kvstore"
	"tiflisi/internal/repos"
)

type FavoritesService struct {
	Store kvstore.Backend
	Prods *repos.ProductRepo
}

func NewFavoritesService(store kvstore.Backend, prods *repos.ProductRepo) *FavoritesService {
	return &FavoritesService{Store: store, Prods: prods}
}

func (s *FavoritesService) Open(ctx context.Context, sid string) *cartstore.FavoritesStore {
	return cartstore.OpenFavorites(kvstore.Scope(ctx, s.Store, sid))
}

// Toggle flips membership of productID and reports whether it is now a
// favorite along with the product name.
func (s *FavoritesService) Toggle(ctx context.Context, sid, productID string) (fav bool, name string, err error) {
	p, err := s.Prods.Get(productID)
	if errors.Is(err, repos.ErrNotFound) {
		// a stale snapshot can still be removed
		f := s.Open(ctx, sid)
		if f.IsFavorite(productID) {
			for _, it := range f.Items() {
				if it.ID == productID {
					return f.Toggle(it), it.Name, nil
				}
			}
		}
		return false, "", ErrProductNotFound
	}
	if err != nil {
		return false, "", err
	}
	return s.Open(ctx, sid).Toggle(p), p.Name, nil
}
