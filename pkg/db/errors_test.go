package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{
			name:       "postgres constraint name",
			err:        errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`),
			constraint: "idx_users_email",
			want:       true,
		},
		{
			name: "postgres generic message",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "other" (SQLSTATE 23505)`),
			want: true,
		},
		{
			name:       "sqlite unique failure",
			err:        errors.New("UNIQUE constraint failed: books.isbn"),
			constraint: "idx_books_isbn",
			want:       true,
		},
		{
			name:       "unrelated error",
			err:        errors.New("connection refused"),
			constraint: "idx_users_email",
			want:       false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
				t.Fatalf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
