package services

import (
	"database/sql"
	"errors"
	"time"

	"threadline/internal/apperr"
	"threadline/internal/domain"
	"threadline/internal/repos"
	"threadline/internal/validate"
)

type OrderService struct {
	Users  *repos.UserRepo
	Orders *repos.OrderRepo
}

func NewOrderService(users *repos.UserRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Users: users, Orders: orders}
}

// Checkout turns the session cart into a persisted order. The cart contents
// go in as-is: prices were frozen at add-time and stay frozen forever.
func (s *OrderService) Checkout(su domain.SessionUser, cart []domain.CartItem, cashappUsername string, ship domain.ShippingInfo, userNotes string) (int64, error) {
	var errs []string
	if len(cart) == 0 {
		errs = append(errs, "Your cart is empty.")
	}
	if !validate.NotBlank(cashappUsername) {
		errs = append(errs, "CashApp username is required.")
	}
	if !validate.NotBlank(ship.Address) || !validate.NotBlank(ship.City) ||
		!validate.NotBlank(ship.State) || !validate.NotBlank(ship.Zip) ||
		!validate.NotBlank(ship.Country) {
		errs = append(errs, "Complete shipping information is required.")
	}
	if len(errs) > 0 {
		return 0, apperr.Validation(errs...)
	}

	// The session identity can outlive the account.
	u, err := s.Users.ByID(su.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("User not found.")
		}
		return 0, apperr.Storage("Failed to place order.", err)
	}

	now := time.Now()
	order := domain.Order{
		ID:              now.UnixMilli(),
		UserID:          u.ID,
		Username:        u.Username,
		Items:           cart,
		CashappUsername: cashappUsername,
		Shipping:        ship,
		UserNotes:       userNotes,
		Status:          domain.StatusPending,
		CreatedAt:       now.UTC().Format(time.RFC3339),
	}
	id, err := s.Orders.Insert(order)
	if err != nil {
		return 0, apperr.Storage("Failed to place order.", err)
	}
	return id, nil
}

// ListForUser returns the caller's orders, most recent first.
func (s *OrderService) ListForUser(userID int64) ([]domain.Order, error) {
	out, err := s.Orders.ListByUser(userID)
	if err != nil {
		return nil, apperr.Storage("Failed to load orders.", err)
	}
	return out, nil
}

// GetOwned returns an order only to its owner. A foreign order is reported
// exactly like a missing one.
func (s *OrderService) GetOwned(id, userID int64) (domain.Order, error) {
	o, err := s.Orders.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, apperr.NotFound("Order not found.")
		}
		return domain.Order{}, apperr.Storage("Failed to load the order.", err)
	}
	if o.UserID != userID {
		return domain.Order{}, apperr.NotFound("Order not found.")
	}
	return o, nil
}

// ---------- Admin operations ----------

func (s *OrderService) ListAll() ([]domain.Order, error) {
	out, err := s.Orders.ListAll()
	if err != nil {
		return nil, apperr.Storage("Failed to load orders.", err)
	}
	return out, nil
}

func (s *OrderService) GetByID(id int64) (domain.Order, error) {
	o, err := s.Orders.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, apperr.NotFound("Order not found.")
		}
		return domain.Order{}, apperr.Storage("Failed to load the order.", err)
	}
	return o, nil
}

// OrderUpdate carries the admin-editable fields. nil means "leave alone";
// an explicit empty string clears tracking/notes. An empty status string is
// ignored rather than clearing the status.
type OrderUpdate struct {
	Status         *string
	TrackingNumber *string
	AdminNotes     *string
}

func (s *OrderService) Update(id int64, upd OrderUpdate) (domain.Order, error) {
	o, err := s.GetByID(id)
	if err != nil {
		return domain.Order{}, err
	}
	if upd.Status != nil && *upd.Status != "" {
		o.Status = *upd.Status
	}
	if upd.TrackingNumber != nil {
		o.TrackingNumber = *upd.TrackingNumber
	}
	if upd.AdminNotes != nil {
		o.AdminNotes = *upd.AdminNotes
	}
	if err := s.Orders.UpdateAdminFields(o.ID, o.Status, o.TrackingNumber, o.AdminNotes); err != nil {
		return domain.Order{}, apperr.Storage("Failed to update order.", err)
	}
	return o, nil
}

// Delete removes an order permanently and returns the removed record.
func (s *OrderService) Delete(id int64) (domain.Order, error) {
	o, err := s.GetByID(id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.Orders.Delete(id); err != nil {
		return domain.Order{}, apperr.Storage("Failed to delete order.", err)
	}
	return o, nil
}
