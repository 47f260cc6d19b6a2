package lending

import (
	"context"
	"time"

	"github.com/nmoreno/biblio-backend/pkg/db/models"
	"github.com/nmoreno/biblio-backend/pkg/enums"
	"github.com/nmoreno/biblio-backend/pkg/types"
	"gorm.io/gorm"
)

// Repository spans the orders table plus the availability column on books.
// The cross-entity writes live here because checkout and return must mutate
// both rows inside one transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, id types.OrderID) (*models.Order, error)
	FindOrdersByUser(ctx context.Context, userID types.UserID, status *enums.OrderStatus) ([]models.Order, error)
	FindBook(ctx context.Context, id types.BookID) (*models.Book, error)
	FindUser(ctx context.Context, id types.UserID) (*models.User, error)

	DecrementAvailability(ctx context.Context, bookID types.BookID) (bool, error)
	IncrementAvailability(ctx context.Context, bookID types.BookID) error
	MarkOrderReturned(ctx context.Context, id types.OrderID, returnedAt time.Time) (bool, error)
	MarkOverdueBefore(ctx context.Context, now time.Time) (int64, error)
	FindOverdue(ctx context.Context) ([]models.Order, error)

	CountOrders(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a lending repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrder(ctx context.Context, id types.OrderID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrdersByUser(ctx context.Context, userID types.UserID, status *enums.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Order("checkout_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) FindBook(ctx context.Context, id types.BookID) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *repository) FindUser(ctx context.Context, id types.UserID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DecrementAvailability takes one copy off the shelf. The quantity guard in
// the WHERE clause makes the decrement conditional, so two concurrent
// checkouts of the last copy cannot both succeed.
func (r *repository) DecrementAvailability(ctx context.Context, bookID types.BookID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND quantity_available > 0", bookID).
		UpdateColumn("quantity_available", gorm.Expr("quantity_available - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) IncrementAvailability(ctx context.Context, bookID types.BookID) error {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", bookID).
		UpdateColumn("quantity_available", gorm.Expr("quantity_available + 1")).Error
}

// MarkOrderReturned flips the order to returned unless it already is. The
// status guard makes a second return a no-op.
func (r *repository) MarkOrderReturned(ctx context.Context, id types.OrderID, returnedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status <> ?", id, enums.OrderStatusReturned).
		Updates(map[string]any{
			"status":      enums.OrderStatusReturned,
			"returned_at": returnedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkOverdueBefore flips every checked-out order with a due date strictly
// before now to overdue. Returned orders are never touched.
func (r *repository) MarkOverdueBefore(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ? AND due_at < ?", enums.OrderStatusCheckedOut, now).
		Update("status", enums.OrderStatusOverdue)
	return res.RowsAffected, res.Error
}

func (r *repository) FindOverdue(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.OrderStatusOverdue).
		Order("due_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Count(&count).Error
	return count, err
}

func (r *repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Count(&count).Error
	return count, err
}
