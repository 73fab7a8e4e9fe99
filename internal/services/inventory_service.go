package services

import (
	"errors"

	"tiflisi/internal/domain"
	"tiflisi/internal/repos"
)

const lowStockThreshold = 5

type InventoryService struct {
	Inv *repos.InventoryRepo
}

func NewInventoryService(inv *repos.InventoryRepo) *InventoryService {
	return &InventoryService{Inv: inv}
}

// CheckAvailability converts stock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(productID string) (domain.Availability, error) {
	qty, err := s.Inv.Qty(productID)
	if err != nil {
		// unknown products are reported as out of stock
		if errors.Is(err, repos.ErrNotFound) {
			return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
		}
		return domain.Availability{}, err
	}

	status := "OUT_OF_STOCK"
	switch {
	case qty >= lowStockThreshold:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty, ETA: ""}, nil
}

func (s *InventoryService) LowStock() ([]repos.InventoryRow, error) {
	return s.Inv.LowStock(lowStockThreshold)
}
