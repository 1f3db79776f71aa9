package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionDenied(t *testing.T) {
	t.Run("wrapped by a handler", func(t *testing.T) {
		err := fmt.Errorf("update batch status: %w: batches:update on kitchen 42", errs.ErrPermissionDenied)

		require.ErrorIs(t, err, errs.ErrPermissionDenied)
		assert.Equal(t, errs.KindPermissionDenied, errs.KindOf(err))
		assert.False(t, errs.IsRetryable(err))
	})

	t.Run("is not an access denial", func(t *testing.T) {
		assert.NotErrorIs(t, errs.ErrPermissionDenied, errs.ErrAccessDenied)
		assert.Equal(t, errs.KindAccessDenied, errs.KindOf(fmt.Errorf("kitchen 42: %w", errs.ErrAccessDenied)))
	})
}

func TestConcealedLookup(t *testing.T) {
	missing := errs.NewObjectNotFoundErrorWithCause("batchId", "b-1", errors.New("record not found"))
	require.Equal(t, errs.KindNotFound, errs.KindOf(missing))
	assert.Equal(t,
		"object not found: param is: batchId, ID is: b-1 (cause: record not found)",
		missing.Error())

	concealed := fmt.Errorf("%w: batch is not accessible", errs.ErrPermissionDenied)

	assert.Equal(t, errs.KindPermissionDenied, errs.KindOf(concealed))
	assert.NotErrorIs(t, concealed, errs.ErrObjectNotFound)
	assert.NotContains(t, concealed.Error(), "b-1")
}

func TestInvalidTransitionKind(t *testing.T) {
	err := fmt.Errorf("cancel batch: %w", errs.NewInvalidTransitionError("batch", "completed", "cancelled"))

	var transition *errs.InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, "batch", transition.Entity)
	assert.Equal(t, "completed", transition.Current)
	assert.Equal(t, "cancelled", transition.Requested)
	assert.Equal(t, errs.KindInvalidTransition, errs.KindOf(err))
	assert.Contains(t, err.Error(), "batch cannot move from completed to cancelled")
}

func TestNoCapacity(t *testing.T) {
	err := fmt.Errorf("route order ORD-7: %w", errs.ErrNoCapacity)

	assert.Equal(t, errs.KindNoCapacity, errs.KindOf(err))
	assert.Equal(t, "route order ORD-7: no kitchen has available capacity", err.Error())
	assert.False(t, errs.IsRetryable(err), "a full zone is not replayed")
}

func TestPersistenceFailureKeepsCause(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := fmt.Errorf("assign access: %w", errs.NewPersistenceFailureError("commit", cause))

	require.ErrorIs(t, err, errs.ErrPersistenceFailure)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, errs.KindPersistenceFailure, errs.KindOf(err))
	assert.False(t, errs.IsRetryable(err))
}

func TestTransientFailureIsRetryable(t *testing.T) {
	err := fmt.Errorf("create batch: %w",
		errs.NewTransientPersistenceFailureError("lock orders", errors.New("40001")))

	assert.True(t, errs.IsRetryable(err))
	assert.Equal(t, errs.KindPersistenceFailure, errs.KindOf(err))
}

func TestValueErrors(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			"required",
			errs.NewValueIsRequiredError("customerName"),
			errs.ErrValueIsRequired,
			"value is required: customerName",
		},
		{
			"invalid with cause",
			errs.NewValueIsInvalidErrorWithCause("priority", errors.New("unknown priority \"asap\"")),
			errs.ErrValueIsInvalid,
			"value is invalid: priority (cause: unknown priority \"asap\")",
		},
		{
			"out of range",
			errs.NewValueIsOutOfRangeError("capacity", 0, 1, 500),
			errs.ErrValueIsOutOfRange,
			"value is invalid: 0 is capacity, min value is 1, max value is 500",
		},
		{
			"not found",
			errs.NewObjectNotFoundError("kitchenId", "k-9"),
			errs.ErrObjectNotFound,
			"object not found: k-9",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.err, tc.sentinel)
			assert.Equal(t, tc.message, tc.err.Error())
		})
	}

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("notes", "no\nonions", 0, 10)
		assert.Contains(t, err.Error(), "no onions")
		assert.NotContains(t, err.Error(), "\n")
	})
}
