package services

import (
	"errors"
	"fmt"

	"tiflisi/internal/domain"
	"tiflisi/internal/repos"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	o, err := s.Orders.Get(id)
	if errors.Is(err, repos.ErrNotFound) {
		return o, ErrOrderNotFound
	}
	return o, err
}

// CanView reports whether the visitor may see o: the placing session, the
// owning user, or an admin.
func CanView(o domain.Order, sid string, u *domain.User) bool {
	if sid != "" && sid == o.SessionID {
		return true
	}
	if u == nil {
		return false
	}
	return u.IsAdmin() || (o.UserID != "" && o.UserID == u.ID)
}

// History returns a user's orders, falling back to the current session's
// orders when none are linked to the user (pre-login purchases).
func (s *OrderService) History(userID, sid string) ([]domain.Order, error) {
	orders, err := s.Orders.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 && sid != "" {
		return s.Orders.ListBySession(sid)
	}
	return orders, nil
}

func (s *OrderService) ListLatest(limit int) ([]domain.Order, error) {
	return s.Orders.ListLatest(limit)
}

// UpdateStatus moves an order to a new status if the state machine allows it.
// It returns the previous status.
func (s *OrderService) UpdateStatus(id string, to domain.OrderStatus) (domain.OrderStatus, error) {
	o, err := s.Get(id)
	if err != nil {
		return "", err
	}
	if !o.Status.CanTransition(to) {
		return o.Status, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	if err := s.Orders.UpdateStatus(id, to); err != nil {
		return o.Status, err
	}
	return o.Status, nil
}

// ResolvePayment finishes a redirect payment for the session that placed the
// order: success moves it to Pending, failure cancels it.
func (s *OrderService) ResolvePayment(orderID, txID, sid string, success bool) (domain.Order, error) {
	o, err := s.Get(orderID)
	if err != nil {
		return o, err
	}
	if o.SessionID != sid || o.TransactionID == "" || o.TransactionID != txID {
		return o, ErrOrderNotFound
	}
	to := domain.StatusCancelled
	if success {
		to = domain.StatusPending
	}
	if o.Status != domain.StatusPendingPayment || !o.Status.CanTransition(to) {
		return o, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	if err := s.Orders.UpdateStatus(orderID, to); err != nil {
		return o, err
	}
	o.Status = to
	return o, nil
}
