package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapMoveError(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		err      error
		expected string
		isNil    bool
	}{
		{
			name:  "nil error returns nil",
			from:  8,
			to:    16,
			err:   nil,
			isNil: true,
		},
		{
			name:     "named squares",
			from:     8,
			to:       24,
			err:      ErrIllegalMove,
			expected: "move a2-a4: illegal move",
		},
		{
			name:     "out of range squares fall back to indices",
			from:     -1,
			to:       64,
			err:      ErrInvalidSquare,
			expected: "move #-1-#64: invalid square",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapMoveError(tt.from, tt.to, tt.err)
			if tt.isNil {
				assert.Nil(t, wrapped)
				return
			}
			require.NotNil(t, wrapped)
			assert.Equal(t, tt.expected, wrapped.Error())
			assert.True(t, errors.Is(wrapped, tt.err))

			var moveErr *MoveError
			require.True(t, errors.As(wrapped, &moveErr))
			assert.Equal(t, tt.from, moveErr.From)
			assert.Equal(t, tt.to, moveErr.To)
		})
	}
}

func TestWrapSquareError(t *testing.T) {
	assert.Nil(t, WrapSquareError(3, "promote", nil))

	err := WrapSquareError(56, "promote", ErrInvalidPromotion)
	assert.Equal(t, "promote a8: invalid promotion", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidPromotion))

	nested := fmt.Errorf("session: %w", err)
	assert.True(t, errors.Is(nested, ErrInvalidPromotion))
}
