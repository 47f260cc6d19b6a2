package books

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nmoreno/biblio-backend/pkg/db"
	"github.com/nmoreno/biblio-backend/pkg/db/models"
	pkgerrors "github.com/nmoreno/biblio-backend/pkg/errors"
	"github.com/nmoreno/biblio-backend/pkg/pagination"
	"github.com/nmoreno/biblio-backend/pkg/types"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines catalog-level operations.
type Service interface {
	AddBook(ctx context.Context, input AddBookInput) (*models.Book, error)
	GetBook(ctx context.Context, id types.BookID) (*models.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error)
	SearchBooks(ctx context.Context, query string, limit int) ([]models.Book, error)
	UpdateBook(ctx context.Context, id types.BookID, input UpdateBookInput) (int, error)
	DeleteBook(ctx context.Context, id types.BookID) (bool, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a books service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("books repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) AddBook(ctx context.Context, input AddBookInput) (*models.Book, error) {
	title := strings.TrimSpace(input.Title)
	author := strings.TrimSpace(input.Author)
	isbn := strings.TrimSpace(input.ISBN)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if author == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author is required")
	}
	if isbn == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "isbn is required")
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	book := &models.Book{
		ID:                types.NewBookID(),
		Title:             title,
		Author:            author,
		Genre:             strings.TrimSpace(input.Genre),
		ISBN:              isbn,
		PublicationYear:   input.PublicationYear,
		QuantityAvailable: quantity,
		Location:          strings.TrimSpace(input.Location),
	}

	created, err := s.repo.Create(ctx, book)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_books_isbn") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateKey, err, "isbn already in catalog")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add book")
	}
	return created, nil
}

func (s *service) GetBook(ctx context.Context, id types.BookID) (*models.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	return book, nil
}

func (s *service) GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	book, err := s.repo.FindByISBN(ctx, strings.TrimSpace(isbn))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	return book, nil
}

func (s *service) SearchBooks(ctx context.Context, query string, limit int) ([]models.Book, error) {
	results, err := s.repo.Search(ctx, query, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search books")
	}
	return results, nil
}

// UpdateBook applies the set fields and returns how many were changed.
// A missing book yields zero changed fields, not an error.
func (s *service) UpdateBook(ctx context.Context, id types.BookID, input UpdateBookInput) (int, error) {
	if input.ISBN != nil {
		trimmed := strings.TrimSpace(*input.ISBN)
		if trimmed == "" {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "isbn cannot be empty")
		}
		input.ISBN = &trimmed
	}

	updates := input.changes()
	if len(updates) == 0 {
		return 0, nil
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_books_isbn") {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDuplicateKey, err, "isbn already in catalog")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update book")
	}
	if affected == 0 {
		return 0, nil
	}
	return len(updates), nil
}

// DeleteBook removes the catalog entry unless any non-terminal order
// references it. The guard runs inside the delete transaction.
func (s *service) DeleteBook(ctx context.Context, id types.BookID) (bool, error) {
	deleted := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		active, err := repo.CountNonTerminalOrders(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active orders")
		}
		if active > 0 {
			return nil
		}
		affected, err := repo.Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete book")
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
