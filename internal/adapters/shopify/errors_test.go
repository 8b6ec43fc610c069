package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopify-migrator/internal/adapters/shopify/dto"
)

func TestUserErrorsToError(t *testing.T) {
	assert.NoError(t, userErrorsToError("productCreate", nil))

	err := userErrorsToError("productCreate", []dto.UserError{
		{Field: []string{"input", "title"}, Message: "can't be blank"},
	})
	assert.EqualError(t, err, "shopify productCreate: input.title: can't be blank")
}

func TestBenignUserErrors(t *testing.T) {
	assert.NoError(t, benignUserErrors("urlRedirectCreate", []dto.UserError{
		{Field: []string{"path"}, Message: "Path has already been taken"},
		{Message: "variant already exists", Code: "VARIANT_ALREADY_EXISTS"},
		{Message: "taken", Code: "TAKEN"},
	}))

	err := benignUserErrors("urlRedirectCreate", []dto.UserError{
		{Message: "Path has already been taken"},
		{Message: "target is invalid"},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "target is invalid")
	assert.NotContains(t, err.Error(), "already been taken")
}
