package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=150,username"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
}

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, Validate(signup{Email: "cook@example.com", Username: "chef.john+1", Color: "#FF0000"}))
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	errs := Validate(signup{Email: "nope", Username: "bad name!"})
	assert.Equal(t, "enter a valid email address", errs["email"])
	assert.Equal(t, "letters, digits and @/./+/-/_ only", errs["username"])
}

func TestValidate_Required(t *testing.T) {
	errs := Validate(signup{})
	assert.Equal(t, "this field is required", errs["email"])
	assert.Equal(t, "this field is required", errs["username"])
	assert.NotContains(t, errs, "color")
}
