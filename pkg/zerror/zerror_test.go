package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shaikat-CSE/goldennicheims/pkg/zerror"
)

func TestZError(t *testing.T) {
	base := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	t.Run("Should match predeclared error after wrapping", func(t *testing.T) {
		err := fmt.Errorf("update product: %w", base.WrapParent(errors.New("id 7")))

		assert.ErrorIs(t, err, base)

		var zErr zerror.ZError
		assert.True(t, errors.As(err, &zErr))
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
		assert.Equal(t, "PRODUCT_NOT_FOUND", zErr.Code())
		assert.EqualError(t, zErr.Parent(), "id 7")
	})

	t.Run("Should not match errors with another code", func(t *testing.T) {
		other := zerror.NewNotFound("SUPPLIER_NOT_FOUND", "supplier not found")
		assert.NotErrorIs(t, base, other)
	})

	t.Run("Should keep code when overriding message", func(t *testing.T) {
		err := base.WithMsg("product 3 not found")
		assert.Equal(t, "product 3 not found", err.Msg())
		assert.ErrorIs(t, err, base)
		assert.Equal(t, "Code=PRODUCT_NOT_FOUND, Msg=product 3 not found", err.Error())
	})

	t.Run("Should stringify status", func(t *testing.T) {
		assert.Equal(t, "INSUFFICIENT_STORAGE", zerror.StatusInsufficientStorage.String())
		assert.Equal(t, "UNKNOWN", zerror.Status(200).String())
	})
}
