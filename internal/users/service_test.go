package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nmoreno/biblio-backend/pkg/db/models"
	"github.com/nmoreno/biblio-backend/pkg/enums"
	pkgerrors "github.com/nmoreno/biblio-backend/pkg/errors"
	"github.com/nmoreno/biblio-backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r *gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:users_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Book{}, &models.Order{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), &gormTxRunner{db: db})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return svc
}

func TestCreateUserDefaultsToActive(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name:  "  Grace Hopper ",
		Email: " Grace@Example.COM ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Name != "Grace Hopper" {
		t.Fatalf("unexpected name: %q", user.Name)
	}
	if user.Email != "grace@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.MembershipStatus != enums.MembershipStatusActive {
		t.Fatalf("expected active membership, got %s", user.MembershipStatus)
	}
	if user.ID.IsNil() {
		t.Fatal("expected generated id")
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	input := CreateUserInput{Name: "First", Email: "dup@example.com"}
	if _, err := svc.CreateUser(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}

	input.Name = "Second"
	_, err := svc.CreateUser(ctx, input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDuplicateKey {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Email: "a@example.com"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}

	_, err = svc.CreateUser(ctx, CreateUserInput{Name: "No Email"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing email, got %v", err)
	}

	_, err = svc.CreateUser(ctx, CreateUserInput{Name: "Bad Status", Email: "b@example.com", MembershipStatus: "frozen"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad status, got %v", err)
	}
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Name: "Reader", Email: "reader@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := svc.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != created.Email {
		t.Fatalf("unexpected user: %+v", byID)
	}

	byEmail, err := svc.GetUserByEmail(ctx, "READER@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("unexpected user: %+v", byEmail)
	}

	_, err = svc.GetUser(ctx, types.NewUserID())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateUserCountsChangedFields(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Name: "Before", Email: "before@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "After"
	phone := "555-0100"
	changed, err := svc.UpdateUser(ctx, created.ID, UpdateUserInput{Name: &name, Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if changed != 2 {
		t.Fatalf("expected 2 changed fields, got %d", changed)
	}

	updated, err := svc.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if updated.Name != "After" || updated.Phone != "555-0100" {
		t.Fatalf("unexpected state: %+v", updated)
	}

	changed, err = svc.UpdateUser(ctx, created.ID, UpdateUserInput{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if changed != 0 {
		t.Fatalf("expected 0 changed fields, got %d", changed)
	}

	changed, err = svc.UpdateUser(ctx, types.NewUserID(), UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("missing user update: %v", err)
	}
	if changed != 0 {
		t.Fatalf("expected 0 for missing user, got %d", changed)
	}
}

func TestUpdateUserRejectsBadInput(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Name: "Victim", Email: "victim@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	empty := "   "
	_, err = svc.UpdateUser(ctx, created.ID, UpdateUserInput{Email: &empty})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	bad := enums.MembershipStatus("frozen")
	_, err = svc.UpdateUser(ctx, created.ID, UpdateUserInput{MembershipStatus: &bad})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteUserBlockedByOpenOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Name: "Borrower", Email: "borrower@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	book := &models.Book{ID: types.NewBookID(), Title: "T", Author: "A", ISBN: uuid.NewString(), QuantityAvailable: 1}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}
	order := &models.Order{
		ID:         types.NewOrderID(),
		UserID:     created.ID,
		BookID:     book.ID,
		CheckoutAt: time.Now().UTC(),
		DueAt:      time.Now().UTC().Add(24 * time.Hour),
		Status:     enums.OrderStatusCheckedOut,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	deleted, err := svc.DeleteUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Fatal("expected deletion to be blocked")
	}
	if _, err := svc.GetUser(ctx, created.ID); err != nil {
		t.Fatalf("user should still exist: %v", err)
	}

	if err := db.Model(order).Update("status", enums.OrderStatusReturned).Error; err != nil {
		t.Fatalf("close order: %v", err)
	}

	deleted, err = svc.DeleteUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected deletion to succeed once orders are terminal")
	}

	deleted, err = svc.DeleteUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("third delete: %v", err)
	}
	if deleted {
		t.Fatal("expected false for already-deleted user")
	}
}
