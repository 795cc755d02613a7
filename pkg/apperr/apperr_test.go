package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, Validation("bad").HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, Conflict("dup").HTTPStatus())
	assert.Equal(t, http.StatusNotFound, NotFound("missing").HTTPStatus())
	assert.Equal(t, http.StatusForbidden, PermissionDenied("no").HTTPStatus())
	assert.Equal(t, http.StatusConflict, Transient("busy").WithReason(ReasonLockTimeout).HTTPStatus())
	assert.Equal(t, http.StatusTooManyRequests, Transient("slow down").WithReason(ReasonRateLimited).HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Internal("boom").HTTPStatus())
}

func TestFrom(t *testing.T) {
	t.Run("wrapped app error is found", func(t *testing.T) {
		err := fmt.Errorf("create order: %w", NotFound("plan %s not found", "p1"))
		e := From(err)
		assert.Equal(t, KindNotFound, e.Kind)
		assert.Equal(t, "plan p1 not found", e.Message)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := errors.New("connection refused")
		e := From(cause)
		assert.Equal(t, KindInternal, e.Kind)
		assert.ErrorIs(t, e, cause)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, From(nil))
	})
}

func TestConflictIsValidationVariant(t *testing.T) {
	err := Conflict("existing unpaid order")
	assert.True(t, IsKind(err, KindValidation))
	assert.True(t, HasReason(err, ReasonPendingOrderExists))
}
