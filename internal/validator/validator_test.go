package validator

import (
	"testing"

	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Quantity int64  `json:"quantity" validate:"min=1"`
}

func TestValidate_OK(t *testing.T) {
	err := New().Validate(signup{Username: "alice", Email: "a@example.com", Quantity: 1})
	assert.NoError(t, err)
}

func TestValidate_FieldErrorsUseJSONNames(t *testing.T) {
	err := New().Validate(signup{Username: "al", Email: "nope", Quantity: 0})
	require.Error(t, err)

	ue, ok := usecase.AsError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.KindValidation, ue.Kind)
	assert.Equal(t, "size must be at least 3", ue.Fields["username"])
	assert.Equal(t, "must be a well-formed email address", ue.Fields["email"])
	assert.Equal(t, "must be at least 1", ue.Fields["quantity"])
}
