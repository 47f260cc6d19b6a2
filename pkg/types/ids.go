package types

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

// Distinct identifier types per entity kind so a BookID can never be passed
// where a UserID is expected. Each wraps a UUID and round-trips through
// database/sql and JSON as its canonical string form.

// UserID identifies a library member.
type UserID uuid.UUID

// BookID identifies a catalog entry.
type BookID uuid.UUID

// OrderID identifies a lending order.
type OrderID uuid.UUID

// NilUserID is the zero UserID.
var NilUserID = UserID(uuid.Nil)

// NilBookID is the zero BookID.
var NilBookID = BookID(uuid.Nil)

// NilOrderID is the zero OrderID.
var NilOrderID = OrderID(uuid.Nil)

func NewUserID() UserID   { return UserID(uuid.New()) }
func NewBookID() BookID   { return BookID(uuid.New()) }
func NewOrderID() OrderID { return OrderID(uuid.New()) }

func ParseUserID(value string) (UserID, error) {
	id, err := uuid.Parse(value)
	return UserID(id), err
}

func ParseBookID(value string) (BookID, error) {
	id, err := uuid.Parse(value)
	return BookID(id), err
}

func ParseOrderID(value string) (OrderID, error) {
	id, err := uuid.Parse(value)
	return OrderID(id), err
}

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id UserID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *UserID) Scan(src any) error          { return (*uuid.UUID)(id).Scan(src) }

func (id UserID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *UserID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

func (id BookID) String() string { return uuid.UUID(id).String() }
func (id BookID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id BookID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *BookID) Scan(src any) error          { return (*uuid.UUID)(id).Scan(src) }

func (id BookID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *BookID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

func (id OrderID) String() string { return uuid.UUID(id).String() }
func (id OrderID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id OrderID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *OrderID) Scan(src any) error          { return (*uuid.UUID)(id).Scan(src) }

func (id OrderID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *OrderID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}
