package validator_test

import (
	"testing"

	"app/internal/domain/model"
	"app/internal/validator"

	"github.com/stretchr/testify/assert"
)

func TestValidateWeightGrams(t *testing.T) {
	assert.NoError(t, validator.ValidateWeightGrams(1))
	assert.NoError(t, validator.ValidateWeightGrams(500))

	assert.ErrorIs(t, validator.ValidateWeightGrams(0), validator.ErrInvalidWeight)
	assert.ErrorIs(t, validator.ValidateWeightGrams(-10), validator.ErrInvalidWeight)
}

func TestValidatePaymentMethod(t *testing.T) {
	m, err := validator.ValidatePaymentMethod("cash")
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentMethodCash, m)

	m, err = validator.ValidatePaymentMethod("online")
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentMethodOnline, m)

	_, err = validator.ValidatePaymentMethod("card")
	assert.ErrorIs(t, err, validator.ErrInvalidPaymentMethod)

	_, err = validator.ValidatePaymentMethod("")
	assert.ErrorIs(t, err, validator.ErrInvalidPaymentMethod)
}

func TestValidateRegister(t *testing.T) {
	assert.NoError(t, validator.ValidateRegister("alice", "alice@example.com", "password1"))

	assert.Error(t, validator.ValidateRegister("", "alice@example.com", "password1"))
	assert.Error(t, validator.ValidateRegister("alice", "not-an-email", "password1"))
	assert.Error(t, validator.ValidateRegister("alice", "alice@example.com", "short"))
}
