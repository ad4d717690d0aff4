package middleware

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValidationErrors(t *testing.T) {
	type payload struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Country  string `json:"country" validate:"len=2"`
	}

	v := validator.New()
	err := v.Struct(payload{Email: "not-an-email", Password: "short", Country: "FRA"})
	require.Error(t, err)

	details := FormatValidationErrors(err)
	require.Len(t, details, 3)

	messages := make(map[string]string, len(details))
	for _, d := range details {
		messages[d.Field] = d.Message
	}

	assert.Equal(t, "must be a valid email address", messages["Email"])
	assert.Equal(t, "must be at least 8 characters long", messages["Password"])
	assert.Equal(t, "must be exactly 2 characters long", messages["Country"])
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	details := FormatValidationErrors(assert.AnError)
	assert.Nil(t, details)
}

func TestSetupValidator(t *testing.T) {
	// must be callable repeatedly without panicking
	SetupValidator()
	SetupValidator()
}
