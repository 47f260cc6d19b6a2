package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nmoreno/biblio-backend/api/responses"
	"github.com/nmoreno/biblio-backend/api/validators"
	lendsvc "github.com/nmoreno/biblio-backend/internal/lending"
	"github.com/nmoreno/biblio-backend/pkg/enums"
	pkgerrors "github.com/nmoreno/biblio-backend/pkg/errors"
	"github.com/nmoreno/biblio-backend/pkg/logger"
	"github.com/nmoreno/biblio-backend/pkg/types"
)

// Checkout lends one copy of a book to a member.
func Checkout(svc lendsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lending service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ReturnOrder closes a lending order. Repeats report returned=false.
func ReturnOrder(svc lendsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := types.ParseOrderID(strings.TrimSpace(chi.URLParam(r, "orderId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		returned, err := svc.Return(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"returned": returned})
	}
}

// ListUserOrders lists a member's orders with an optional status filter.
func ListUserOrders(svc lendsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseUserID(chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.OrderStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		orders, err := svc.ListUserOrders(r.Context(), userID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

// ListOverdueOrders sweeps due dates and returns every overdue order.
func ListOverdueOrders(svc lendsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overdue, err := svc.SweepOverdue(r.Context(), time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, overdue)
	}
}

// GetStats reports store-wide order and member counts.
func GetStats(svc lendsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.GetStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

type checkoutRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	BookID   string `json:"book_id" validate:"required"`
	LoanDays int    `json:"loan_days,omitempty" validate:"omitempty,min=1,max=365"`
}

func (r checkoutRequest) toInput() (lendsvc.CheckoutInput, error) {
	userID, err := types.ParseUserID(strings.TrimSpace(r.UserID))
	if err != nil {
		return lendsvc.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	bookID, err := types.ParseBookID(strings.TrimSpace(r.BookID))
	if err != nil {
		return lendsvc.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid book id")
	}
	return lendsvc.CheckoutInput{
		UserID:   userID,
		BookID:   bookID,
		LoanDays: r.LoanDays,
	}, nil
}
