package services

import (
	"tiflisi/internal/domain"
	"tiflisi/internal/repos"
)

type Dashboard struct {
	Products      int
	Orders        int
	Users         int
	PendingOrders int
}

type Report struct {
	Orders      int
	Revenue     float64
	ByStatus    []repos.StatusCount
	TopProducts []repos.TopProduct
}

type AnalyticsService struct {
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
	Users  *repos.UserRepo
}

// Dashboard counts orders awaiting payment or processing as pending.
func (s *AnalyticsService) Dashboard() (Dashboard, error) {
	var d Dashboard
	var err error
	if d.Products, err = s.Prods.Count(); err != nil {
		return d, err
	}
	if d.Orders, err = s.Orders.Count(); err != nil {
		return d, err
	}
	if d.Users, err = s.Users.Count(); err != nil {
		return d, err
	}
	counts, err := s.Orders.CountByStatus()
	if err != nil {
		return d, err
	}
	for _, c := range counts {
		if c.Status == domain.StatusPending || c.Status == domain.StatusPendingPayment {
			d.PendingOrders += c.Count
		}
	}
	return d, nil
}

func (s *AnalyticsService) Report(top int) (Report, error) {
	var r Report
	var err error
	if r.Orders, err = s.Orders.Count(); err != nil {
		return r, err
	}
	if r.Revenue, err = s.Orders.Revenue(); err != nil {
		return r, err
	}
	if r.ByStatus, err = s.Orders.CountByStatus(); err != nil {
		return r, err
	}
	r.TopProducts, err = s.Orders.TopProducts(top)
	return r, err
}
