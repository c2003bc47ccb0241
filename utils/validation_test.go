package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDigitGroup(t *testing.T) {
	valid := []string{"0000", "1234", "9999"}
	for _, g := range valid {
		ok, msg := ValidateDigitGroup(g)
		assert.True(t, ok, "%q should be accepted", g)
		assert.Empty(t, msg)
	}

	invalid := []string{"", "123", "12345", "12a4", "12 4", "12.4", "-123", "１２３４"}
	for _, g := range invalid {
		ok, _ := ValidateDigitGroup(g)
		assert.False(t, ok, "%q should be rejected", g)
	}
}

func TestValidateUsername(t *testing.T) {
	ok, _ := ValidateUsername("style_fan42")
	assert.True(t, ok)

	for _, bad := range []string{"ab", "has space", "way_too_long_username_here", "dots.not.ok"} {
		ok, msg := ValidateUsername(bad)
		assert.False(t, ok, "%q should be rejected", bad)
		assert.NotEmpty(t, msg)
	}
}

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("Sup3rSecret")
	assert.True(t, ok)

	cases := map[string]string{
		"Sh0rt":        "too short",
		"alllower123":  "missing uppercase",
		"ALLUPPER123":  "missing lowercase",
		"NoDigitsHere": "missing number",
	}
	for pw, why := range cases {
		ok, msg := ValidatePassword(pw)
		assert.False(t, ok, "%q should be rejected (%s)", pw, why)
		assert.NotEmpty(t, msg)
	}
}

func TestFieldValidationErrorsMessage(t *testing.T) {
	errs := FieldValidationErrors{
		{Field: "username", Message: "too short"},
		{Field: "password", Message: "missing number"},
	}
	assert.Equal(t, "username: too short; password: missing number", errs.Error())
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "plain text", SanitizeString("plain text"))
	assert.NotContains(t, SanitizeString("<script>alert(1)</script>"), "<script>")
}
