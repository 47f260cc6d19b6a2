package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nmoreno/biblio-backend/pkg/db"
	"github.com/nmoreno/biblio-backend/pkg/db/models"
	"github.com/nmoreno/biblio-backend/pkg/enums"
	pkgerrors "github.com/nmoreno/biblio-backend/pkg/errors"
	"github.com/nmoreno/biblio-backend/pkg/types"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines member-level operations.
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	GetUser(ctx context.Context, id types.UserID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id types.UserID, input UpdateUserInput) (int, error)
	DeleteUser(ctx context.Context, id types.UserID) (bool, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a users service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	status := input.MembershipStatus
	if status == "" {
		status = enums.MembershipStatusActive
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid membership status")
	}

	user := &models.User{
		ID:               types.NewUserID(),
		Name:             name,
		Email:            email,
		Address:          strings.TrimSpace(input.Address),
		Phone:            strings.TrimSpace(input.Phone),
		MembershipStatus: status,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateKey, err, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return created, nil
}

func (s *service) GetUser(ctx context.Context, id types.UserID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// UpdateUser applies the set fields and returns how many were changed.
// A missing user yields zero changed fields, not an error.
func (s *service) UpdateUser(ctx context.Context, id types.UserID, input UpdateUserInput) (int, error) {
	if input.MembershipStatus != nil && !input.MembershipStatus.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid membership status")
	}
	if input.Email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*input.Email))
		if normalized == "" {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		input.Email = &normalized
	}

	updates := input.changes()
	if len(updates) == 0 {
		return 0, nil
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDuplicateKey, err, "email already registered")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	if affected == 0 {
		return 0, nil
	}
	return len(updates), nil
}

// DeleteUser removes the member unless any non-terminal order references them.
// The guard runs inside the delete transaction so it cannot act on a stale
// order set.
func (s *service) DeleteUser(ctx context.Context, id types.UserID) (bool, error) {
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
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
