package statemachine

import (
	"testing"

	"smart-restaurant-api/models"

	"github.com/stretchr/testify/assert"
)

func TestPermissive_AllowsEveryKnownPair(t *testing.T) {
	p := Permissive{}
	for _, from := range models.AllStatuses {
		for _, to := range models.AllStatuses {
			assert.NoError(t, p.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestPermissive_DeliveredBackToPending(t *testing.T) {
	assert.NoError(t, Permissive{}.CanTransition(models.StatusDelivered, models.StatusPending))
}

func TestPermissive_RejectsUnknownStatus(t *testing.T) {
	assert.Error(t, Permissive{}.CanTransition(models.StatusPending, "shipped"))
}

func TestStrict(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		wantErr bool
	}{
		{"pending to preparing", models.StatusPending, models.StatusPreparing, false},
		{"preparing to onway", models.StatusPreparing, models.StatusOnWay, false},
		{"onway to delivered", models.StatusOnWay, models.StatusDelivered, false},
		{"delivered to canceled", models.StatusDelivered, models.StatusCanceled, false},
		{"no-op", models.StatusOnWay, models.StatusOnWay, false},
		{"skip ahead", models.StatusPending, models.StatusDelivered, true},
		{"backward", models.StatusDelivered, models.StatusPending, true},
		{"out of canceled", models.StatusCanceled, models.StatusPending, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Strict{}.CanTransition(tc.from, tc.to)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	assert.Equal(t, []models.OrderStatus{models.StatusPreparing, models.StatusCanceled},
		ValidTransitionsFrom(models.StatusPending))
	assert.Empty(t, ValidTransitionsFrom(models.StatusCanceled))
}

func TestIsFinal(t *testing.T) {
	assert.True(t, IsFinal(models.StatusDelivered))
	assert.True(t, IsFinal(models.StatusCanceled))
	assert.False(t, IsFinal(models.StatusOnWay))
}

func TestForMode(t *testing.T) {
	assert.IsType(t, Strict{}, ForMode(true))
	assert.IsType(t, Permissive{}, ForMode(false))
}
