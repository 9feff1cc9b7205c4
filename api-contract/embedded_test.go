package apicontract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/Shaikat-CSE/goldennicheims/api-contract"
)

func TestLoad(t *testing.T) {
	doc, err := apicontract.Load(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, doc.Paths.Find("/api/v1/stock"))
	assert.NotNil(t, doc.Paths.Find("/api/v1/products/{id}"))
	assert.NotEmpty(t, apicontract.GetSpecBytes())
}
