package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"gorm translated", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"pgx unique", fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pgx check", &pgconn.PgError{Code: "23514"}, false},
		{"pq unique", &pq.Error{Code: "23505"}, true},
		{"pq fk", &pq.Error{Code: "23503"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}
