package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nmoreno/biblio-backend/pkg/db/models"
	"github.com/nmoreno/biblio-backend/pkg/enums"
	pkgerrors "github.com/nmoreno/biblio-backend/pkg/errors"
	"github.com/nmoreno/biblio-backend/pkg/types"
	"gorm.io/gorm"
)

// DefaultLoanDays is the loan period applied when a checkout does not name one.
const DefaultLoanDays = 14

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns every operation that must keep order status and book
// availability consistent with each other.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error)
	Return(ctx context.Context, orderID types.OrderID) (bool, error)
	ListUserOrders(ctx context.Context, userID types.UserID, status *enums.OrderStatus) ([]models.Order, error)
	SweepOverdue(ctx context.Context, now time.Time) ([]models.Order, error)
	GetStats(ctx context.Context) (Stats, error)
}

// ServiceParams configure the lending service.
type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	LoanDays int
	Now      func() time.Time
}

type service struct {
	repo     Repository
	tx       txRunner
	loanDays int
	now      func() time.Time
}

// NewService builds a lending service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("lending repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	loanDays := params.LoanDays
	if loanDays <= 0 {
		loanDays = DefaultLoanDays
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		loanDays: loanDays,
		now:      now,
	}, nil
}

// Checkout lends one copy of a book to a user. Preconditions are checked in
// order, first failure wins: the book must exist with a copy available, then
// the user must exist with an active membership. The order insert and the
// availability decrement commit together or not at all.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if input.UserID.IsNil() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.BookID.IsNil() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "book id required")
	}

	loanDays := input.LoanDays
	if loanDays <= 0 {
		loanDays = s.loanDays
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		book, err := repo.FindBook(ctx, input.BookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
		}
		if book.QuantityAvailable <= 0 {
			return pkgerrors.New(pkgerrors.CodeRejected, "no copies available")
		}

		user, err := repo.FindUser(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		if user.MembershipStatus != enums.MembershipStatusActive {
			return pkgerrors.New(pkgerrors.CodeRejected, "membership is not active")
		}

		// The conditional decrement re-checks availability at write time, so a
		// concurrent checkout that won the race turns this into a rejection
		// rather than an oversell.
		ok, err := repo.DecrementAvailability(ctx, input.BookID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement availability")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeRejected, "no copies available")
		}

		checkoutAt := s.now().UTC()
		created, err := repo.CreateOrder(ctx, &models.Order{
			ID:         types.NewOrderID(),
			UserID:     input.UserID,
			BookID:     input.BookID,
			CheckoutAt: checkoutAt,
			DueAt:      checkoutAt.Add(time.Duration(loanDays) * 24 * time.Hour),
			Status:     enums.OrderStatusCheckedOut,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Return closes an order and puts the copy back on the shelf. A missing or
// already-returned order yields false with no mutation, making the operation
// idempotent. The status flip and the availability increment commit together.
func (s *service) Return(ctx context.Context, orderID types.OrderID) (bool, error) {
	if orderID.IsNil() {
		return false, nil
	}

	returned := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == enums.OrderStatusReturned {
			return nil
		}

		ok, err := repo.MarkOrderReturned(ctx, orderID, s.now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order returned")
		}
		if !ok {
			return nil
		}
		if err := repo.IncrementAvailability(ctx, order.BookID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment availability")
		}
		returned = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return returned, nil
}

// ListUserOrders returns the user's orders, optionally filtered by status.
// An unknown user yields an empty slice, not an error.
func (s *service) ListUserOrders(ctx context.Context, userID types.UserID, status *enums.OrderStatus) ([]models.Order, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter")
	}
	orders, err := s.repo.FindOrdersByUser(ctx, userID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

// SweepOverdue marks every checked-out order whose due date has passed as
// overdue and returns the full overdue set. Safe to call repeatedly: the bulk
// update only matches checked_out rows, so prior overdue orders are untouched
// and returned orders can never re-enter the overdue set.
func (s *service) SweepOverdue(ctx context.Context, now time.Time) ([]models.Order, error) {
	if now.IsZero() {
		now = s.now()
	}
	if _, err := s.repo.MarkOverdueBefore(ctx, now.UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark overdue orders")
	}
	overdue, err := s.repo.FindOverdue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list overdue orders")
	}
	return overdue, nil
}

func (s *service) GetStats(ctx context.Context) (Stats, error) {
	orders, err := s.repo.CountOrders(ctx)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	return Stats{TotalOrders: orders, TotalUsers: users}, nil
}
