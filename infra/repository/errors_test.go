package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "duplicate key error maps to ErrAlreadyExists",
			input:    gorm.ErrDuplicatedKey,
			expected: domain.ErrAlreadyExists,
		},
		{
			name:     "record not found error maps to ErrNotFound",
			input:    gorm.ErrRecordNotFound,
			expected: domain.ErrNotFound,
		},
		{
			name:     "wrapped duplicate key error maps correctly",
			input:    errors.Join(errors.New("outer error"), gorm.ErrDuplicatedKey),
			expected: domain.ErrAlreadyExists,
		},
		{
			name:     "conflict passes through",
			input:    fmt.Errorf("save: %w", domain.ErrPersistenceConflict),
			expected: domain.ErrPersistenceConflict,
		},
		{
			name:     "unknown error becomes persistence failure",
			input:    errors.New("connection reset"),
			expected: domain.ErrPersistenceFailure,
		},
		{
			name:     "context timeout becomes persistence failure",
			input:    context.DeadlineExceeded,
			expected: domain.ErrPersistenceFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, MapGormErrorToDomain(tt.input), tt.expected)
		})
	}

	assert.NoError(t, MapGormErrorToDomain(nil))
	assert.NoError(t, WrapError(func() error { return nil }))
}
