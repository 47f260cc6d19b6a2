package books

import (
	"context"
	"strings"

	"github.com/nmoreno/biblio-backend/pkg/db/models"
	"github.com/nmoreno/biblio-backend/pkg/enums"
	"github.com/nmoreno/biblio-backend/pkg/types"
	"gorm.io/gorm"
)

// Repository provides persistence for catalog entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, book *models.Book) (*models.Book, error)
	FindByID(ctx context.Context, id types.BookID) (*models.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*models.Book, error)
	Search(ctx context.Context, query string, limit int) ([]models.Book, error)
	Update(ctx context.Context, id types.BookID, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id types.BookID) (int64, error)
	CountNonTerminalOrders(ctx context.Context, id types.BookID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a books repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

func (r *repository) FindByID(ctx context.Context, id types.BookID) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *repository) FindByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Where("isbn = ?", isbn).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Search matches the query as a case-insensitive substring of title, author,
// or genre. An empty query matches everything. LOWER(...) LIKE keeps the
// predicate portable between Postgres and SQLite.
func (r *repository) Search(ctx context.Context, query string, limit int) ([]models.Book, error) {
	var results []models.Book
	q := r.db.WithContext(ctx).Model(&models.Book{})

	trimmed := strings.TrimSpace(query)
	if trimmed != "" {
		pattern := "%" + strings.ToLower(trimmed) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(genre) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	err := q.Order("title ASC, id ASC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *repository) Update(ctx context.Context, id types.BookID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id types.BookID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Book{})
	return res.RowsAffected, res.Error
}

func (r *repository) CountNonTerminalOrders(ctx context.Context, id types.BookID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("book_id = ? AND status IN ?", id, []enums.OrderStatus{
			enums.OrderStatusCheckedOut,
			enums.OrderStatusOverdue,
		}).
		Count(&count).Error
	return count, err
}
