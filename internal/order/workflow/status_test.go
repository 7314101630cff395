package workflow

import (
	"testing"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestOnWorkflowEdit(t *testing.T) {
	assert.Equal(t, entity.StatusInProduction, OnWorkflowEdit(entity.StatusDraft))
	for _, s := range []Status{
		entity.StatusInProduction,
		entity.StatusReadyToShip,
		entity.StatusShipped,
		entity.StatusArchived,
		entity.StatusCancelled,
	} {
		assert.Equal(t, s, OnWorkflowEdit(s), "status %s must not move", s)
	}
}

func TestConfirmReceipt(t *testing.T) {
	t.Run("no processes", func(t *testing.T) {
		s, err := ConfirmReceipt(entity.StatusInProduction, nil)
		require.ErrorIs(t, err, errs.ErrPrecondition)
		assert.Equal(t, entity.StatusInProduction, s)
	})

	t.Run("target not met", func(t *testing.T) {
		_, err := ConfirmReceipt(entity.StatusInProduction, []ProcessProgress{
			{Name: "cutting", Target: intPtr(10), Finished: 10},
			{Name: "sewing", Target: intPtr(10), Finished: 9},
		})
		require.ErrorIs(t, err, errs.ErrPrecondition)
		assert.Contains(t, err.Error(), "sewing finished 9 of 10")
	})

	t.Run("all met or no target", func(t *testing.T) {
		s, err := ConfirmReceipt(entity.StatusInProduction, []ProcessProgress{
			{Name: "cutting", Target: intPtr(10), Finished: 12},
			{Name: "qc", Target: nil, Finished: 0},
		})
		require.NoError(t, err)
		assert.Equal(t, entity.StatusReadyToShip, s)
	})

	t.Run("later statuses do not move back", func(t *testing.T) {
		done := []ProcessProgress{{Name: "cutting", Target: intPtr(1), Finished: 1}}
		for _, from := range []Status{entity.StatusShipped, entity.StatusArchived} {
			s, err := ConfirmReceipt(from, done)
			require.NoError(t, err)
			assert.Equal(t, from, s)
		}
		_, err := ConfirmReceipt(entity.StatusCancelled, done)
		assert.ErrorIs(t, err, errs.ErrPrecondition)
	})
}

func TestConfirmShipment(t *testing.T) {
	s, err := ConfirmShipment(entity.StatusReadyToShip, false)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusArchived, s)

	s, err = ConfirmShipment(entity.StatusShipped, true)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusArchived, s)

	s, err = ConfirmShipment(entity.StatusArchived, true)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusArchived, s)

	for _, from := range []Status{entity.StatusDraft, entity.StatusInProduction, entity.StatusCancelled} {
		_, err := ConfirmShipment(from, false)
		assert.ErrorIs(t, err, errs.ErrPrecondition, "from %s", from)
	}
	_, err = ConfirmShipment(entity.StatusArchived, false)
	assert.ErrorIs(t, err, errs.ErrPrecondition)
}

func TestForceStatus(t *testing.T) {
	s, err := ForceStatus(" cancelled ")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, s)

	s, err = ForceStatus("draft")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, s)

	_, err = ForceStatus("DONE")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = ForceStatus("")
	assert.ErrorIs(t, err, errs.ErrValidation)
}
