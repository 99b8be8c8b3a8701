package states

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStateImplementations(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("InitializingState", func(t *testing.T) {
		state := NewInitializingState()
		ctx := NewGameContext("test", logger)

		assert.Equal(t, PhaseInitializing, state.Phase())
		assert.NoError(t, state.Enter(ctx))
		assert.NoError(t, state.Exit(ctx))
		assert.NoError(t, state.Validate(ctx))
	})

	t.Run("RunningState", func(t *testing.T) {
		state := NewRunningState()
		ctx := NewGameContext("test", logger)

		assert.Equal(t, PhaseRunning, state.Phase())
		assert.NoError(t, state.Validate(ctx))

		assert.True(t, ctx.StartTime.IsZero())
		assert.NoError(t, state.Enter(ctx))
		assert.False(t, ctx.StartTime.IsZero())
		assert.NoError(t, state.Exit(ctx))

		ctx.Error = errors.New("corrupt")
		err := state.Validate(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "corrupt")
	})

	t.Run("EndedState", func(t *testing.T) {
		state := NewEndedState()
		ctx := NewGameContext("test", logger)

		assert.Equal(t, PhaseEnded, state.Phase())

		err := state.Validate(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "requires a winner")

		ctx.Winner = 2
		assert.Error(t, state.Validate(ctx))

		ctx.StartTime = time.Now().Add(-1 * time.Hour)
		ctx.Winner = 0
		assert.NoError(t, state.Validate(ctx))
		assert.NoError(t, state.Enter(ctx))
		assert.False(t, ctx.EndTime.IsZero())
		assert.NoError(t, state.Exit(ctx))
	})

	t.Run("ErrorState", func(t *testing.T) {
		state := NewErrorState()
		ctx := NewGameContext("test", logger)

		assert.Equal(t, PhaseError, state.Phase())

		err := state.Validate(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "error state requires an error")

		ctx.Error = errors.New("test error")
		assert.NoError(t, state.Validate(ctx))
		assert.NoError(t, state.Enter(ctx))
		assert.NoError(t, state.Exit(ctx))
		assert.NotNil(t, ctx.Error)
	})

	t.Run("ResetState", func(t *testing.T) {
		state := NewResetState()
		ctx := NewGameContext("test", logger)

		assert.Equal(t, PhaseReset, state.Phase())
		assert.NoError(t, state.Validate(ctx))

		ctx.StartTime = time.Now()
		ctx.EndTime = time.Now()
		ctx.Winner = 1
		ctx.EndReason = "mate"
		ctx.Error = errors.New("test")

		assert.NoError(t, state.Enter(ctx))

		assert.True(t, ctx.StartTime.IsZero())
		assert.True(t, ctx.EndTime.IsZero())
		assert.Equal(t, NoWinner, ctx.Winner)
		assert.Empty(t, ctx.EndReason)
		assert.Nil(t, ctx.Error)

		assert.NoError(t, state.Exit(ctx))
	})
}
