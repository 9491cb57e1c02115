package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradegate/checkout-service/internal/entities"
)

func TestCheckoutStateTransitions(t *testing.T) {
	t.Run("forward path is linear", func(t *testing.T) {
		path := []entities.CheckoutState{
			entities.StateShipping,
			entities.StatePayment,
			entities.StateProcessing,
			entities.StateOTP,
			entities.StateReview,
			entities.StateConfirmed,
		}
		for i := 0; i < len(path)-1; i++ {
			next, ok := path[i].Next()
			assert.True(t, ok, "expected forward edge from %s", path[i])
			assert.Equal(t, path[i+1], next)
		}
	})

	t.Run("confirmed is terminal", func(t *testing.T) {
		_, ok := entities.StateConfirmed.Next()
		assert.False(t, ok)
		_, ok = entities.StateConfirmed.Prev()
		assert.False(t, ok)
		assert.True(t, entities.StateConfirmed.IsTerminal())
	})

	t.Run("backward edges skip processing", func(t *testing.T) {
		prev, ok := entities.StateOTP.Prev()
		assert.True(t, ok)
		assert.Equal(t, entities.StatePayment, prev)

		prev, ok = entities.StateReview.Prev()
		assert.True(t, ok)
		assert.Equal(t, entities.StateOTP, prev)

		_, ok = entities.StateShipping.Prev()
		assert.False(t, ok)

		_, ok = entities.StateProcessing.Prev()
		assert.False(t, ok)
	})

	t.Run("transition error carries the edge", func(t *testing.T) {
		err := entities.TransitionError(entities.StateShipping, entities.StateReview)
		assert.ErrorIs(t, err, entities.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "shipping -> review")
	})
}
