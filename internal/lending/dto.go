package lending

import "github.com/nmoreno/biblio-backend/pkg/types"

// CheckoutInput carries the identifiers needed to lend one copy.
// LoanDays <= 0 falls back to the configured default.
type CheckoutInput struct {
	UserID   types.UserID
	BookID   types.BookID
	LoanDays int
}

// Stats aggregates simple store-wide counts.
type Stats struct {
	TotalOrders int64 `json:"total_orders"`
	TotalUsers  int64 `json:"total_users"`
}
