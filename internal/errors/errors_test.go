package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStorageError(t *testing.T) {
	tests := []struct {
		name        string
		cause       error
		wantStorage bool
		wantNil     bool
	}{
		{name: "nil cause", cause: nil, wantNil: true},
		{name: "infrastructure failure is wrapped", cause: context.DeadlineExceeded, wantStorage: true},
		{name: "not found passes through", cause: fmt.Errorf("lookup: %w", ErrTransactionNotFound)},
		{name: "validation passes through", cause: NewValidationError("amount", "must be positive")},
		{name: "locked period passes through", cause: NewPeriodLockedError("January 2026")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewStorageError("insert transaction", tt.cause)
			if tt.wantNil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantStorage, IsStorageError(err))
			assert.True(t, errors.Is(err, tt.cause))
		})
	}
}

func TestPeriodLockedError(t *testing.T) {
	err := fmt.Errorf("append: %w", NewPeriodLockedError("January 2026"))

	assert.True(t, IsPeriodLocked(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "January 2026")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrTransactionNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("period: %w", ErrPeriodNotFound)))
	assert.True(t, IsNotFound(ErrUnitNotFound))
	assert.False(t, IsNotFound(ErrAlreadyVoided))
}
