package repository_test

import (
	"testing"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in   string
		want repository.Order
	}{
		{"", repository.NewestFirst},
		{"desc", repository.NewestFirst},
		{"Newest", repository.NewestFirst},
		{"asc", repository.OldestFirst},
		{"oldest", repository.OldestFirst},
	}
	for _, tt := range tests {
		got, err := repository.ParseOrder(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := repository.ParseOrder("random")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
