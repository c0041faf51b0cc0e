package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/pkg/validation"
)

type sampleRequest struct {
	Name     string `json:"name" validate:"required,max=10"`
	Email    string `json:"email" validate:"omitempty,email"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
}

func TestStruct_Valido(t *testing.T) {
	assert.NoError(t, validation.Struct(sampleRequest{Name: "ok", Quantity: 1}))
}

func TestStruct_ErroresPorCampoJSON(t *testing.T) {
	err := validation.Struct(sampleRequest{Email: "no-es-email", Quantity: 0})
	require.Error(t, err)

	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "es requerido", fe["name"])
	assert.Equal(t, "debe ser un email válido", fe["email"])
	assert.Equal(t, "debe ser mayor que 0", fe["quantity"])
	assert.Contains(t, err.Error(), "name: es requerido")
}
