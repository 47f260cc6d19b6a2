package models

import (
	"time"

	"github.com/nmoreno/biblio-backend/pkg/enums"
	"github.com/nmoreno/biblio-backend/pkg/types"
)

// Order records one lending of one book copy to one user.
// Immutable once Status reaches returned.
type Order struct {
	ID         types.OrderID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     types.UserID      `gorm:"column:user_id;type:uuid;not null;index:idx_orders_user_status,priority:1" json:"user_id"`
	BookID     types.BookID      `gorm:"column:book_id;type:uuid;not null;index:idx_orders_book_status,priority:1" json:"book_id"`
	CheckoutAt time.Time         `gorm:"column:checkout_at;not null" json:"checkout_at"`
	DueAt      time.Time         `gorm:"column:due_at;not null;index:idx_orders_status_due,priority:2" json:"due_at"`
	ReturnedAt *time.Time        `gorm:"column:returned_at" json:"returned_at,omitempty"`
	Status     enums.OrderStatus `gorm:"column:status;not null;index:idx_orders_user_status,priority:2;index:idx_orders_book_status,priority:2;index:idx_orders_status_due,priority:1" json:"status"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
