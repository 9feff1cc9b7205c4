package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaikat-CSE/goldennicheims/internal/apperr"
	"github.com/Shaikat-CSE/goldennicheims/internal/http/apierr"
	"github.com/Shaikat-CSE/goldennicheims/pkg/validator"
)

type sample struct {
	Name string `validate:"required"`
}

func TestNew(t *testing.T) {
	t.Run("Should map validation failures to 400 with field details", func(t *testing.T) {
		verr := validator.MustNewDefaultValidator().Validate(sample{})
		require.Error(t, verr)

		res := apierr.New(fmt.Errorf("ledger add product: %w", apperr.ValidationErr.WrapParent(verr)))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, apperr.ValidationErrorCode, res.Code)
		require.NotNil(t, res.Details)
		require.Len(t, *res.Details, 1)
		assert.Equal(t, "Name", (*res.Details)[0].Field)
		assert.Equal(t, "field is required", (*res.Details)[0].Message)
	})

	t.Run("Should surface plain validation causes as the message", func(t *testing.T) {
		res := apierr.New(apperr.ValidationErr.WrapParent(errors.New("line 3: bad quantity")))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "line 3: bad quantity", res.Message)
		assert.Nil(t, res.Details)
	})

	t.Run("Should map not found to 404", func(t *testing.T) {
		res := apierr.New(apperr.ProductNotFoundErr)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, apperr.ProductNotFoundCode, res.Code)
	})

	t.Run("Should map persistence failures to 507", func(t *testing.T) {
		res := apierr.New(apperr.PersistenceErr.WrapParent(errors.New("quota exceeded")))
		assert.Equal(t, http.StatusInsufficientStorage, res.StatusCode)
		assert.Equal(t, apperr.PersistenceErrorCode, res.Code)
	})

	t.Run("Should map parameter errors to 400", func(t *testing.T) {
		res := apierr.New(&apierr.ParamError{ParamName: "id", Err: errors.New("not a number")})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Contains(t, res.Message, "parameter id")
	})

	t.Run("Should hide unknown errors", func(t *testing.T) {
		res := apierr.New(errors.New("boom"))
		assert.Equal(t, apierr.InternalServerErr, res)
	})
}
