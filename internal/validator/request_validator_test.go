package validator_test

import (
	"testing"

	"restobill/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinRequest struct {
	PIN string `json:"pin" validate:"required,numeric,min=4,max=8"`
}

type rateRequest struct {
	Rate decimal.Decimal `json:"rate" validate:"gte=0,lte=100"`
}

func TestValidate_OK(t *testing.T) {
	v := validator.New()

	require.NoError(t, v.Validate(&pinRequest{PIN: "1234"}))
	require.NoError(t, v.Validate(&rateRequest{Rate: decimal.RequireFromString("12.5")}))
}

func TestValidate_MessageUsesJSONName(t *testing.T) {
	v := validator.New()

	err := v.Validate(&pinRequest{PIN: "12a4"})
	require.Error(t, err)
	assert.Equal(t, "invalid pin: numeric", validator.Message(err))

	err = v.Validate(&pinRequest{PIN: "12"})
	require.Error(t, err)
	assert.Equal(t, "invalid pin: min=4", validator.Message(err))
}

func TestValidate_Decimal(t *testing.T) {
	v := validator.New()

	err := v.Validate(&rateRequest{Rate: decimal.NewFromInt(101)})
	require.Error(t, err)
	assert.Equal(t, "invalid rate: lte=100", validator.Message(err))

	err = v.Validate(&rateRequest{Rate: decimal.NewFromInt(-1)})
	require.Error(t, err)
	assert.Equal(t, "invalid rate: gte=0", validator.Message(err))
}

func TestMessage_NonValidationError(t *testing.T) {
	assert.Equal(t, "invalid body", validator.Message(assert.AnError))
}
